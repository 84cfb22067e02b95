//go:build !nogpu

// Command wormhole opens a window and flies a camera through a wormhole.
//
// The view is rendered on the GPU straight into the window surface,
// sharing the window's device. Skyboxes are read from the directories
// given by the configuration (see internal/config).
//
// Controls:
//
//	W/S        forward/back
//	A/D        strafe
//	Space      up
//	Shift      down
//	Arrows     turn and look
//	Q/E        roll
//	R          level the camera
//
// Escape is not bound; close the window to quit. Rendering is
// event-driven: an animation token keeps frames coming at VSync only
// while a key is held.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/wormhole"
	"github.com/gogpu/wormhole/app"
	"github.com/gogpu/wormhole/gpu"
	"github.com/gogpu/wormhole/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "wormhole:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("wormhole", flag.ContinueOnError)
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	log := cfg.Logger(os.Stderr)
	wormhole.SetLogger(log)

	space, err := cfg.Space()
	if err != nil {
		return err
	}

	gapp := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("Wormhole").
		WithSize(cfg.Window.Width, cfg.Window.Height).
		WithContinuousRender(false))

	var (
		backend  *gpu.Backend
		renderer *wormhole.SceneRenderer
		ctx      *app.Context
		keys     *keyHandler
		anim     *gogpu.AnimationToken
		held     = make(heldKeys)
	)

	fail := func(msg string, err error) {
		log.Error(msg, "err", err)
		os.Exit(1)
	}

	stopAnim := func() {
		if anim != nil {
			anim.Stop()
			anim = nil
		}
	}

	gapp.OnDraw(func(dc *gogpu.Context) {
		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}
		if renderer == nil {
			provider := gapp.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			if backend, err = gpu.NewSharedBackend(provider); err != nil {
				fail("wormhole: gpu backend", err)
			}
			opts := append(cfg.Options(), wormhole.WithBackend(backend))
			if renderer, err = wormhole.NewSceneRenderer(space, float64(w), float64(h), opts...); err != nil {
				fail("wormhole: renderer", err)
			}
			if ctx, err = app.New(space, renderer); err != nil {
				fail("wormhole: app", err)
			}
			keys = &keyHandler{controls: ctx.Controls, reset: ctx.ResetPlayer}
			log.Info("wormhole: started", "backend", dc.Backend(), "width", w, "height", h)
		}

		if rw, rh := renderer.Size(); int(rw) != w || int(rh) != h {
			if err := ctx.Resize(w, h); err != nil {
				log.Warn("wormhole: resize", "err", err)
			}
		}

		sw, sh := dc.SurfaceSize()
		if err := backend.SetSurface(dc.SurfaceView(), 0, int(sw), int(sh)); err != nil {
			log.Error("wormhole: surface", "err", err)
			return
		}
		if _, err := ctx.Frame(time.Now(), nil); err != nil {
			log.Error("wormhole: frame", "err", err)
		}
	})

	events := gapp.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, mods gpucontext.Modifiers) {
		if keys == nil {
			return
		}
		keys.press(key, mods)
		if held.press(key) && anim == nil {
			anim = gapp.StartAnimation()
		}
	})
	events.OnKeyRelease(func(key gpucontext.Key, mods gpucontext.Modifiers) {
		if keys == nil {
			return
		}
		keys.release(key, mods)
		if held.release(key) {
			stopAnim()
		}
	})
	events.OnFocus(func(focused bool) {
		if keys == nil {
			return
		}
		keys.focus(focused)
		if !focused {
			held.clear()
			stopAnim()
		}
	})

	gapp.OnClose(func() {
		stopAnim()
		if renderer != nil {
			renderer.Close()
		}
	})

	return gapp.Run()
}
