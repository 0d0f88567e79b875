// Command tilegame plays a MARC archive map in the terminal
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marc/archive"
	"github.com/lixenwraith/marc/audio"
	"github.com/lixenwraith/marc/config"
	"github.com/lixenwraith/marc/core"
	"github.com/lixenwraith/marc/event"
	"github.com/lixenwraith/marc/status"
	"github.com/lixenwraith/marc/world"
)

var (
	fileFlag        = flag.String("file", "", "map archive to play (required)")
	mapFlag         = flag.Int("map", 0, "map index inside the archive")
	configFlag      = flag.String("config", "tilegame.toml", "TOML tuning file; missing file uses defaults")
	muteFlag        = flag.Bool("mute", false, "disable sound")
	writeConfigFlag = flag.Bool("write-config", false, "write the effective tuning to -config and exit")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run owns every deferred cleanup so error paths release the screen, audio and registry
func run() int {
	// Panics on the main goroutine release the screen the same way worker crashes do
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
		return 1
	}
	if *writeConfigFlag {
		if err := config.Save(*configFlag, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", *configFlag)
		return 0
	}

	if *fileFlag == "" {
		fmt.Fprintln(os.Stderr, "tilegame: -file is required")
		flag.Usage()
		return 2
	}

	if logFile := setupLogging(cfg.Log.File); logFile != nil {
		defer logFile.Close()
	}

	arch, err := archive.LoadFile(*fileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
		return 1
	}

	metrics := status.NewRegistry()
	events := event.NewRegistry(event.Config{
		DispatchTimeout: cfg.Event.DispatchTimeout,
		Status:          metrics,
	})
	if err := events.InitializeThreading(); err != nil {
		fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
		return 1
	}
	defer events.Close()

	session, err := world.New(arch, *mapFlag, events, metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
		return 1
	}
	defer session.Close()
	session.SetGeneratorDelay(cfg.Game.GeneratorDelay)

	sound := audio.NewSoundManager()
	sound.SetMuted(*muteFlag || !cfg.Audio.Enabled)
	if !sound.Muted() {
		if err := sound.Initialize(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			sound.SetVolume(cfg.Audio.Volume)
			defer sound.Cleanup()
		}
	}
	if _, err := audio.Attach(events, sound); err != nil {
		log.Printf("audio subscribe failed: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
		return 1
	}
	core.SetCrashCleanup(screen.Fini)
	defer screen.Fini()

	g := newGame(screen, session, events, metrics, arch, *fileFlag)
	if err := g.subscribe(); err != nil {
		fmt.Fprintf(os.Stderr, "tilegame: %v\n", err)
		return 1
	}

	log.Printf("session %s: map %d of %s (%dx%d)", session.ID(), *mapFlag, *fileFlag,
		session.Map().Width(), session.Map().Height())
	g.run(cfg.Game.TickInterval)
	log.Printf("session %s ended\n%s", session.ID(), metrics)
	return 0
}
