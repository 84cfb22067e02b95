// Command wormholeshot renders one wormhole view to a PNG file.
//
// It uses the default backend, which is the GPU when one is available
// and the software tracer otherwise. The camera starts at the player's
// start position and can be moved and turned with flags:
//
//	wormholeshot -output view.png -l 3 -yaw 0.5
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/gogpu/wormhole"
	"github.com/gogpu/wormhole/internal/config"
	"github.com/gogpu/wormhole/player"
)

// view holds the camera flags.
type view struct {
	l, theta, phi    float64
	yaw, pitch, roll float64
	setL             bool
}

func (v *view) register(fs *flag.FlagSet) {
	fs.Func("l", "axial distance from the throat centre (default 2·radius + throat)", func(s string) error {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		v.l, v.setL = f, true
		return nil
	})
	fs.Float64Var(&v.theta, "theta", math.Pi/2, "polar angle")
	fs.Float64Var(&v.phi, "phi", 0, "azimuth")
	fs.Float64Var(&v.yaw, "yaw", 0, "turn left by this many radians")
	fs.Float64Var(&v.pitch, "pitch", 0, "look up by this many radians")
	fs.Float64Var(&v.roll, "roll", 0, "roll right by this many radians")
}

// pose places a player in space as described by v.
func (v *view) pose(space wormhole.Space) wormhole.Pose {
	p := player.New(space)
	pos := p.Position()
	if v.setL {
		pos[0] = float32(v.l)
	}
	pos[1], pos[2] = float32(v.theta), float32(v.phi)
	p.SetPosition(pos)
	p.Turn(float32(v.yaw), float32(v.pitch), float32(v.roll))
	p.Clamp()
	return p.Pose()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "wormholeshot:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("wormholeshot", flag.ContinueOnError)
	output := fs.String("output", "wormhole.png", "output file")
	var v view
	v.register(fs)
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
	pose := v.pose(space)

	w, h := cfg.Window.Width, cfg.Window.Height
	r, err := wormhole.NewSceneRenderer(space, float64(w), float64(h), cfg.Options()...)
	if err != nil {
		return err
	}
	defer r.Close()

	pix := wormhole.NewPixmap(w, h)
	if err := r.Render(pose, pix); err != nil {
		return err
	}
	if err := pix.SavePNG(*output); err != nil {
		return err
	}
	log.Info("wormholeshot: saved", "output", *output, "width", w, "height", h,
		"backend", r.Backend().Name(), "position", pose.Position)
	return nil
}
