// Command maputil inspects and edits MARC map archives
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lixenwraith/marc/archive"
	"github.com/lixenwraith/marc/mapgen"
	"github.com/lixenwraith/marc/tile"
	"github.com/lixenwraith/marc/tilemap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds parsed command line flags
type options struct {
	file  string
	index int

	getWidth   bool
	getHeight  bool
	getObjects bool
	getInfo    bool
	dump       bool
	prune      bool

	setWidth   optInt
	setHeight  optInt
	setObjects []tile.Property
	manifest   string
	replace    []replacement
	remove     []tile.ID

	newSize string
	seed    int64
}

// optInt is an int flag that records whether it was given
type optInt struct {
	v   int
	set bool
}

func (o *optInt) String() string {
	if !o.set {
		return ""
	}
	return strconv.Itoa(o.v)
}

func (o *optInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.v, o.set = v, true
	return nil
}

type replacement struct {
	from, to tile.ID
}

// usageError marks bad command lines
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("maputil", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.file, "file", "", "map archive `path` (required)")
	fs.IntVar(&o.index, "map", 0, "map `index` inside the archive")
	fs.BoolVar(&o.getWidth, "getwidth", false, "print the map width")
	fs.BoolVar(&o.getHeight, "getheight", false, "print the map height")
	fs.BoolVar(&o.getObjects, "getobjects", false, "print the number of tile types")
	fs.BoolVar(&o.getInfo, "getinfo", false, "print width, height and number of tile types")
	fs.Var(&o.setWidth, "setwidth", "set the map `width`")
	fs.Var(&o.setHeight, "setheight", "set the map `height`")
	fs.Func("setobjects", "replace the tile table, one `props` entry per tile (repeatable)\n"+
		"e.g. path=images/coin.png,frames=20,solidity=air,collectible=collectible", func(s string) error {
		p, err := tile.ParseProperty(s)
		if err != nil {
			return err
		}
		o.setObjects = append(o.setObjects, p)
		return nil
	})
	fs.StringVar(&o.manifest, "objects-manifest", "", "replace the tile table from a TOML `file`")
	fs.BoolVar(&o.dump, "dump-objects", false, "write the tile table as TOML to stdout")
	fs.BoolVar(&o.prune, "pruneobjects", false, "remove unused tile types")
	fs.Func("replace", "replace tiles, `from:to` (repeatable)", func(s string) error {
		from, to, ok := strings.Cut(s, ":")
		if !ok {
			return fmt.Errorf("expected from:to, got %q", s)
		}
		f, err := parseID(from)
		if err != nil {
			return err
		}
		t, err := parseID(to)
		if err != nil {
			return err
		}
		o.replace = append(o.replace, replacement{f, t})
		return nil
	})
	fs.Func("remove", "remove tiles, comma separated `ids`", func(s string) error {
		for _, f := range strings.Split(s, ",") {
			id, err := parseID(f)
			if err != nil {
				return err
			}
			o.remove = append(o.remove, id)
		}
		return nil
	})
	fs.StringVar(&o.newSize, "new", "", "create a sample archive of `WxH` before other actions")
	fs.Int64Var(&o.seed, "seed", 0, "generator seed for -new (0 = random)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, &usageError{err.Error()}
	}
	if o.file == "" {
		return nil, &usageError{"-file is required"}
	}
	if o.manifest != "" && len(o.setObjects) > 0 {
		return nil, &usageError{"-setobjects and -objects-manifest are exclusive"}
	}
	return o, nil
}

func parseID(s string) (tile.ID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("tile id %q: %w", s, err)
	}
	return tile.ID(n), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err == nil {
		err = execute(o, stdout)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "maputil: %s: %v\n", errorKind(err), err)
		return 1
	}
	return 0
}

func execute(o *options, stdout io.Writer) error {
	if o.newSize != "" {
		if err := createSample(o); err != nil {
			return err
		}
	}

	if o.getWidth || o.getHeight || o.getObjects || o.getInfo {
		if err := printInfo(o, stdout); err != nil {
			return err
		}
	}

	if !o.mutates() && !o.dump {
		return nil
	}

	a, err := archive.LoadFile(o.file)
	if err != nil {
		return err
	}

	if o.mutates() {
		if err := apply(o, a); err != nil {
			return err
		}
		if err := archive.SaveFile(o.file, a); err != nil {
			return err
		}
	}

	if o.dump {
		return tile.WriteManifest(stdout, a.Table())
	}
	return nil
}

func (o *options) mutates() bool {
	return o.setWidth.set || o.setHeight.set || len(o.setObjects) > 0 || o.manifest != "" ||
		o.prune || len(o.replace) > 0 || len(o.remove) > 0
}

func createSample(o *options) error {
	ws, hs, ok := strings.Cut(strings.ToLower(o.newSize), "x")
	if !ok {
		return &usageError{fmt.Sprintf("-new expects WxH, got %q", o.newSize)}
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil {
		return &usageError{fmt.Sprintf("-new expects WxH, got %q", o.newSize)}
	}

	res, err := mapgen.Generate(mapgen.Config{
		Width:       w,
		Height:      h,
		Braiding:    0.2,
		MarbleRatio: 0.1,
		Coins:       true,
		Seed:        o.seed,
	})
	if err != nil {
		return err
	}
	a, err := archive.New(mapgen.DefaultTable(), res.Map)
	if err != nil {
		return err
	}
	return archive.SaveFile(o.file, a)
}

func printInfo(o *options, w io.Writer) error {
	info, err := archive.ReadInfoFile(o.file)
	if err != nil {
		return err
	}
	if o.index < 0 || o.index >= len(info.Maps) {
		return fmt.Errorf("map %d of %d: %w", o.index, len(info.Maps), archive.ErrMapIndex)
	}
	mi := info.Maps[o.index]

	if o.getWidth {
		fmt.Fprintf(w, "Map width        : [%6d]\n", mi.Width)
	}
	if o.getHeight {
		fmt.Fprintf(w, "Map height       : [%6d]\n", mi.Height)
	}
	if o.getObjects {
		fmt.Fprintf(w, "Number of objects: [%6d]\n", info.TileCount)
	}
	if o.getInfo {
		fmt.Fprintf(w, "Map width        : [%6d]\n", mi.Width)
		fmt.Fprintf(w, "Map height       : [%6d]\n", mi.Height)
		fmt.Fprintf(w, "Number of objects: [%6d]\n", info.TileCount)
		fmt.Fprintf(w, "Number of maps   : [%6d]\n", len(info.Maps))
		fmt.Fprintf(w, "Format version   : [%6d]\n", info.Version)
	}
	return nil
}

// apply runs mutations in flag table order: table, prune, resize, replace, remove
func apply(o *options, a *archive.Archive) error {
	if o.manifest != "" {
		f, err := os.Open(o.manifest)
		if err != nil {
			return err
		}
		table, err := tile.LoadManifest(f)
		f.Close()
		if err != nil {
			return err
		}
		if err := a.SetTable(table); err != nil {
			return err
		}
	}
	if len(o.setObjects) > 0 {
		if err := a.SetTable(tile.NewTable(o.setObjects...)); err != nil {
			return err
		}
	}
	if err := editMap(o, a); err != nil {
		return err
	}
	// Prune renumbers the table, so it runs after every edit that takes user ids
	if o.prune {
		a.Prune()
	}
	return nil
}

func editMap(o *options, a *archive.Archive) error {
	if !o.setWidth.set && !o.setHeight.set && len(o.replace) == 0 && len(o.remove) == 0 {
		return nil
	}

	m, err := a.Map(o.index)
	if err != nil {
		return err
	}
	if o.setWidth.set {
		if err := tilemap.ResizeWidth(m, o.setWidth.v); err != nil {
			return err
		}
	}
	if o.setHeight.set {
		if err := tilemap.ResizeHeight(m, o.setHeight.v); err != nil {
			return err
		}
	}
	for _, r := range o.replace {
		if !a.Table().Contains(r.to) {
			return &tile.OutOfRangeError{ID: r.to, Size: a.Table().Size()}
		}
		tilemap.ReplaceTiles(m, tilemap.Is(r.from), r.to)
	}
	if len(o.remove) > 0 {
		tilemap.RemoveTiles(m, tilemap.Is(o.remove...))
	}
	return a.Replace(o.index, m)
}

// errorKind names the error category printed before the message
func errorKind(err error) string {
	var (
		usage     *usageError
		format    *archive.FormatError
		truncated *archive.TruncatedInputError
		corrupt   *archive.CorruptReferenceError
		dimension *tilemap.InvalidDimensionError
		rangeErr  *tile.OutOfRangeError
	)
	switch {
	case errors.As(err, &usage):
		return "usage"
	case errors.As(err, &format):
		return "format"
	case errors.As(err, &truncated):
		return "truncated"
	case errors.As(err, &corrupt):
		return "corrupt reference"
	case errors.As(err, &dimension):
		return "invalid dimension"
	case errors.As(err, &rangeErr):
		return "out of range"
	case errors.Is(err, archive.ErrMapIndex):
		return "map index"
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return "io"
	}
	return "error"
}
