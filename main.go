/*
Quad N: four extruded N letters with a matcap material, dancing around
each other on a looping timeline. Drag to orbit, scroll to zoom.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/quadn/engine"
	"github.com/spaghettifunk/quadn/engine/config"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/platform"
	"github.com/spaghettifunk/quadn/engine/renderer"
	"github.com/spaghettifunk/quadn/engine/renderer/offscreen"
	"github.com/spaghettifunk/quadn/engine/renderer/vulkan"
	"github.com/spaghettifunk/quadn/showcase"
)

func main() {
	configPath := flag.String("config", "assets/config.toml", "path to the TOML configuration")
	headless := flag.Bool("headless", false, "render offscreen instead of opening a window")
	frames := flag.Uint64("frames", 0, "frames to render when headless, 0 runs until interrupted")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}
	if *headless {
		cfg.Application.Headless = true
	}
	if *frames > 0 {
		cfg.Application.Frames = *frames
	}
	if err := core.LogSetLevel(cfg.Application.LogLevel); err != nil {
		core.LogFatal("%s", err)
	}

	// capture sigterm and other system calls, the loop stops on the next frame
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	window, backend, err := newSurface(cfg)
	if err != nil {
		core.LogFatal("%s", err)
	}

	game := showcase.New(ctx, cfg)
	e, err := engine.New(game.Game, window, backend)
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogError("%s", err)
		_ = e.Shutdown()
		os.Exit(1)
	}

	// run engine
	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}

// newSurface picks the glfw window with the Vulkan backend, or the
// offscreen pair when headless.
func newSurface(cfg *config.Config) (engine.Window, renderer.Backend, error) {
	if cfg.Application.Headless {
		return engine.NewHeadlessWindow(cfg.Application.DevicePixelRatio),
			offscreen.New(cfg.Application.SnapshotDir, cfg.Application.SnapshotEvery), nil
	}
	p, err := platform.New()
	if err != nil {
		return nil, nil, err
	}
	return p, vulkan.New(p, core.LogIsDebug()), nil
}
