/*
Trainyard opens the train viewer: a textured toy train, orbit controls and a
material panel driven from the keyboard.
*/
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/trainyard/engine"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/platform"
	"github.com/spaghettifunk/trainyard/engine/platform/headless"
	"github.com/spaghettifunk/trainyard/engine/platform/window"
	backend "github.com/spaghettifunk/trainyard/engine/renderer/headless"
	"github.com/spaghettifunk/trainyard/viewer"
)

func main() {
	configPath := flag.String("config", "trainyard.toml", "path to the toml configuration")
	runHeadless := flag.Bool("headless", false, "run without a window")
	flag.Parse()

	config, err := engine.LoadApplicationConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("config '%s' not found, using defaults", *configPath)
		config, err = engine.DefaultApplicationConfig(), nil
	}
	if err != nil {
		core.LogFatal(err.Error())
	}

	var p platform.Platform = window.New()
	if *runHeadless {
		p = headless.New(config.Renderer.HeadlessFrames)
	}

	tv := viewer.NewTrainViewer(config)
	e, err := engine.New(tv.Game, p, backend.New())
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the loop owns every system, so the signal only asks it to stop
	go func() {
		<-sigCh
		e.Stop()
	}()

	// run engine
	runErr := e.Run()
	if err := errors.Join(runErr, e.Shutdown()); err != nil {
		core.LogFatal(err.Error())
	}
}
