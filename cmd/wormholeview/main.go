// Command wormholeview shows the wormhole in an ebiten window using the
// software backend. It needs no GPU device of its own: every frame is
// traced on the CPU into a Pixmap and uploaded as an ebiten image.
//
// The view is traced at 1/scale of the window size and scaled up by
// ebiten. Controls match the wormhole command.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/wormhole"
	"github.com/gogpu/wormhole/app"
	"github.com/gogpu/wormhole/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "wormholeview:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("wormholeview", flag.ContinueOnError)
	scale := fs.Int("scale", 2, "window pixels per traced pixel")
	workers := fs.Int("workers", 0, "tracing goroutines (0 = GOMAXPROCS)")
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	if *scale < 1 {
		return fmt.Errorf("scale %d must be at least 1", *scale)
	}
	wormhole.SetLogger(cfg.Logger(os.Stderr))

	space, err := cfg.Space()
	if err != nil {
		return err
	}
	w := max(cfg.Window.Width / *scale, 1)
	h := max(cfg.Window.Height / *scale, 1)

	opts := append(cfg.Options(), wormhole.WithBackend(wormhole.NewSoftwareBackend(*workers)))
	renderer, err := wormhole.NewSceneRenderer(space, float64(w), float64(h), opts...)
	if err != nil {
		return err
	}
	defer renderer.Close()

	ctx, err := app.New(space, renderer)
	if err != nil {
		return err
	}

	g := &viewer{ctx: ctx, pix: wormhole.NewPixmap(w, h)}
	ebiten.SetWindowTitle("Wormhole")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

// viewer is the ebiten game: Update advances and traces a frame, Draw
// shows the last traced frame.
type viewer struct {
	ctx   *app.Context
	pix   *wormhole.Pixmap
	img   *ebiten.Image
	dirty bool
}

func (v *viewer) Update() error {
	syncKeys(v.ctx.Controls, ebiten.IsKeyPressed)
	if inpututil.IsKeyJustPressed(resetKey) {
		v.ctx.ResetPlayer()
	}
	rendered, err := v.ctx.Frame(time.Now(), v.pix)
	if err != nil {
		return err
	}
	if rendered {
		v.dirty = true
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.img == nil {
		v.img = ebiten.NewImage(v.pix.Width(), v.pix.Height())
	}
	if v.dirty {
		v.img.WritePixels(v.pix.Data())
		v.dirty = false
	}
	screen.DrawImage(v.img, nil)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.pix.Width(), v.pix.Height()
}
