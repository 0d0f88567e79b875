// Package config loads game tuning from TOML
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the tilegame tuning file
type Config struct {
	Game  GameConfig  `toml:"game"`
	Event EventConfig `toml:"event"`
	Audio AudioConfig `toml:"audio"`
	Log   LogConfig   `toml:"log"`
}

type GameConfig struct {
	TickInterval   time.Duration `toml:"tick_interval"`
	GeneratorDelay time.Duration `toml:"generator_delay"`
}

type EventConfig struct {
	// DispatchTimeout bounds one dispatch pass; 0 disables it
	DispatchTimeout time.Duration `toml:"dispatch_timeout"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type LogConfig struct {
	File string `toml:"file"`
}

// Default returns the built-in tuning
func Default() Config {
	return Config{
		Game: GameConfig{
			TickInterval:   50 * time.Millisecond,
			GeneratorDelay: 750 * time.Millisecond,
		},
		Audio: AudioConfig{Enabled: true, Volume: 0.8},
		Log:   LogConfig{File: "tilegame.log"},
	}
}

// Load reads path over the defaults; a missing file yields the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the game cannot run with
func (c Config) Validate() error {
	switch {
	case c.Game.TickInterval <= 0:
		return fmt.Errorf("game.tick_interval must be positive, got %s", c.Game.TickInterval)
	case c.Game.GeneratorDelay < 0:
		return fmt.Errorf("game.generator_delay must not be negative, got %s", c.Game.GeneratorDelay)
	case c.Event.DispatchTimeout < 0:
		return fmt.Errorf("event.dispatch_timeout must not be negative, got %s", c.Event.DispatchTimeout)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("audio.volume must be within 0..1, got %g", c.Audio.Volume)
	}
	return nil
}

// Save writes c as TOML
func Save(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
