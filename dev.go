package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/octet/vip"
)

// reloadDelay is how long the program file must be left alone before it
// is loaded again.
const reloadDelay = 100 * time.Millisecond

func devMode(cfg vip.Config, debug bool, romFile string) (int, error) {
	romFile = filepath.Clean(romFile)
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return 0, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return 0, err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(romFile)); err != nil {
		return 0, err
	}

	cfg.Dev = true
	var (
		d     *debugger
		state vip.StateFunc
	)
	if debug {
		d = newDebugger(cfg)
		state = d.StateFunc
	}
	runner := vip.NewRunner(cfg, state)
	if d != nil {
		d.run = runner
		log.SetPrefix("")
		log.SetOutput(d.log)
		go func() {
			if err := d.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("octet: ")
			runner.Debug(vip.Exit, 0)
		}()
	}

	done := make(chan bool)
	defer close(done)
	go watchROM(watcher, romFile, reloadDelay, done, func(rom []byte) {
		log.Printf("dev: reload %s", filepath.Base(romFile))
		if err := runner.Swap(rom); err != nil {
			log.Printf("dev: %v", err)
		}
	})

	log.Printf("dev: start %s", filepath.Base(romFile))
	code, err := runner.Run(rom)
	if d != nil {
		d.app.Stop()
	}
	return code, err
}

// watchROM calls reload with the contents of romFile each time it changes
// and then stays unchanged for delay. It returns when done is closed.
func watchROM(w *fsnotify.Watcher, romFile string, delay time.Duration, done <-chan bool, reload func([]byte)) {
	var load <-chan time.Time
	for {
		select {
		case <-load:
			load = nil
			rom, err := os.ReadFile(romFile)
			if err != nil {
				log.Printf("dev: %v", err)
				break
			}
			reload(rom)
		case ev, ok := <-w.Event:
			if !ok {
				return
			}
			if ev.Name == romFile && !ev.IsAttrib() && !ev.IsDelete() {
				load = time.After(delay)
			}
		case err, ok := <-w.Error:
			if !ok {
				return
			}
			log.Printf("dev: watcher: %v", err)
		case <-done:
			return
		}
	}
}
