// Package wormhole renders a first-person view through a traversable
// wormhole.
//
// # Overview
//
// The scene is a single full-screen quad. Every pixel casts a ray from the
// camera, bends it through the wormhole embedding and samples one of two
// skyboxes: skybox 1 for rays that end in the near universe (l > 0) and
// skybox 2 for rays that end in the far one. No polygon geometry is drawn.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/wormhole"
//	    _ "github.com/gogpu/wormhole/gpu" // optional: GPU backend
//	)
//
//	space, err := wormhole.NewSpace(1.4, 5)
//	r, err := wormhole.NewSceneRenderer(space, 800, 600)
//	defer r.Close()
//
//	pose := wormhole.NewPose(2*1.4+5, math.Pi/2, 0, mgl32.QuatIdent())
//	err = r.Render(pose, pixmap)
//
// # Coordinates
//
// A camera position is (l, θ, φ): l is the signed distance along the
// travel axis measured from the throat centre, θ and φ place the camera on
// the sphere of radius r(l). The throat is the cylinder |l| <= L/2; beyond
// each mouth r(l) grows like a plane seen edge-on. See Space.
//
// # Backends
//
// The software backend traces rays on the CPU with a worker pool and is
// always registered. Importing github.com/gogpu/wormhole/gpu registers a
// wgpu/hal backend that runs the same program in WGSL and makes it the
// default. Tracer is the host-side reference of that program.
//
// # Logging
//
// The package is silent by default; see SetLogger.
package wormhole
