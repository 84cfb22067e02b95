package wormhole

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/wormhole/internal/parallel"
)

// SoftwareBackendName is the registry name of the CPU backend.
const SoftwareBackendName = "software"

func init() {
	RegisterBackend(SoftwareBackendName, func() Backend { return NewSoftwareBackend(0) })
}

// SoftwareBackend runs the per-pixel wormhole program on the CPU.
// Rows are split into bands and traced on a worker pool; Draw returns
// once the whole frame is written.
type SoftwareBackend struct {
	workers int
	pool    *parallel.WorkerPool
	scene   *Scene
	surface *Pixmap
	log     *slog.Logger
}

var _ Backend = (*SoftwareBackend)(nil)

// NewSoftwareBackend creates a CPU backend with the given number of
// workers. If workers is 0 or negative, GOMAXPROCS is used.
func NewSoftwareBackend(workers int) *SoftwareBackend {
	return &SoftwareBackend{workers: workers, log: Logger()}
}

// Name implements Backend.
func (b *SoftwareBackend) Name() string { return SoftwareBackendName }

// SetLogger sets the logger used by this backend.
func (b *SoftwareBackend) SetLogger(l *slog.Logger) { b.log = l }

// Init implements Backend.
func (b *SoftwareBackend) Init(scene *Scene) error {
	if scene == nil || scene.Skybox1 == nil || scene.Skybox2 == nil {
		return fmt.Errorf("%w: scene needs both skyboxes", ErrInvalidCubemap)
	}
	if b.pool == nil {
		b.pool = parallel.NewWorkerPool(b.workers)
	}
	b.scene = scene
	b.log.Info("wormhole: software backend ready", "workers", b.pool.Workers())
	return nil
}

// SetSurface sets the pixmap that a nil Draw target renders into.
func (b *SoftwareBackend) SetSurface(p *Pixmap) { b.surface = p }

// Surface returns the default pixmap, or nil if none was set.
func (b *SoftwareBackend) Surface() *Pixmap { return b.surface }

// Draw implements Backend. The target must be a *Pixmap.
func (b *SoftwareBackend) Draw(u *Uniforms, target Target) error {
	if b.pool == nil {
		return ErrNotInitialized
	}
	var dst *Pixmap
	switch t := target.(type) {
	case nil:
		dst = b.surface
	case *Pixmap:
		dst = t
	default:
		return fmt.Errorf("%w: software backend cannot draw to %T", ErrUnsupportedTarget, target)
	}
	if dst == nil {
		return ErrNoTarget
	}
	if dst.width == 0 || dst.height == 0 {
		return nil
	}

	// Uniforms are copied so that the caller may write the next frame's
	// values as soon as Draw returns.
	frame := *u
	if frame.Skybox1 == nil || frame.Skybox2 == nil {
		return fmt.Errorf("%w: uniforms carry no skybox", ErrInvalidCubemap)
	}
	tracer := NewTracerFromUniforms(frame.RadiusSquared, frame.ThroatLength)
	b.pool.ForEachRowBand(dst.height, func(band parallel.Band) {
		shadeRows(dst, &frame, tracer, band.Y0, band.Y1)
	})
	return nil
}

// shadeRows evaluates rows [y0, y1) of dst. The pixel centre (x+0.5, y+0.5)
// maps to NDC with +Y up, matching the rasterized quad on the GPU.
func shadeRows(dst *Pixmap, u *Uniforms, tracer Tracer, y0, y1 int) {
	w, h := float32(dst.width), float32(dst.height)
	for y := y0; y < y1; y++ {
		ndcY := 1 - 2*(float32(y)+0.5)/h
		row := dst.data[y*dst.Stride():]
		for x := 0; x < dst.width; x++ {
			ndcX := 2*(float32(x)+0.5)/w - 1
			res := tracer.TracePixel(u, ndcX, ndcY)
			sky := u.Skybox1
			if res.Side == SideFar {
				sky = u.Skybox2
			}
			c := sky.Sample(res.Direction)
			i := x * 4
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = 0xff
		}
	}
}

// Close implements Backend.
func (b *SoftwareBackend) Close() {
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
	b.scene = nil
}
