package archive

import (
	"fmt"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to an archive path for the pre-save copy
const BackupSuffix = ".bak"

// LoadFile reads and decodes the archive at path
func LoadFile(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// ReadInfoFile reads header information for the archive at path
func ReadInfoFile(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	info, err := ReadInfo(data)
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// SaveFile encodes a and atomically replaces path
// An existing file is first copied to path+BackupSuffix
func SaveFile(path string, a *Archive) error {
	data, err := Encode(a)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := backup(path); err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func backup(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path+BackupSuffix, data, 0644)
}
