//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wormhole"
)

// cubeTexture is a skybox uploaded as a six-layer texture with a cube view.
// Layers follow wormhole.Face order.
type cubeTexture struct {
	device hal.Device
	size   uint32
	tex    hal.Texture
	view   hal.TextureView
}

// uploadCubemap creates the cube texture for cm and writes all six faces.
func uploadCubemap(device hal.Device, queue hal.Queue, cm *wormhole.Cubemap, label string) (*cubeTexture, error) {
	if cm == nil || cm.Size <= 0 {
		return nil, fmt.Errorf("%s: %w", label, wormhole.ErrInvalidCubemap)
	}
	size := uint32(cm.Size) //nolint:gosec // face sizes are validated by NewCubemap
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: size, Height: size, DepthOrArrayLayers: wormhole.FaceCount},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	c := &cubeTexture{device: device, size: size, tex: tex}

	for face, img := range cm.Faces {
		if img == nil {
			c.destroy()
			return nil, fmt.Errorf("%s: missing face %s: %w", label, wormhole.Face(face), wormhole.ErrInvalidCubemap)
		}
		err := queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   hal.Origin3D{Z: uint32(face)}, //nolint:gosec // face < 6
				Aspect:   gputypes.TextureAspectAll,
			},
			img.Pix,
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(img.Stride), //nolint:gosec // stride of a validated face
				RowsPerImage: size,
			},
			&hal.Extent3D{Width: size, Height: size, DepthOrArrayLayers: 1},
		)
		if err != nil {
			c.destroy()
			return nil, fmt.Errorf("upload %s %s: %w", label, wormhole.Face(face), err)
		}
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label + "_view",
		Format:          gputypes.TextureFormatRGBA8Unorm,
		Dimension:       gputypes.TextureViewDimensionCube,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: wormhole.FaceCount,
	})
	if err != nil {
		c.destroy()
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	c.view = view

	slogger().Debug("cubemap uploaded", "label", label, "size", size, "source", cm.Name)
	return c, nil
}

func (c *cubeTexture) destroy() {
	if c == nil {
		return
	}
	if c.view != nil {
		c.device.DestroyTextureView(c.view)
		c.view = nil
	}
	if c.tex != nil {
		c.device.DestroyTexture(c.tex)
		c.tex = nil
	}
}
