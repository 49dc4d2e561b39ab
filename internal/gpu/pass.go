package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoColorTarget is returned when a pass has no color view to draw into.
var ErrNoColorTarget = errors.New("gpu: render pass without color target")

// Pass describes one render pass: a cleared color target and an optional
// depth target cleared to the far plane.
type Pass struct {
	Label string

	Color      hal.TextureView
	ClearColor gputypes.Color

	// Depth is optional. When set, depth is cleared to 1.0 and discarded at
	// the end of the pass.
	Depth hal.TextureView
}

// RenderPass records pass, lets record issue draw calls and submits the
// commands. It returns once the GPU has finished.
func RenderPass(device hal.Device, queue hal.Queue, pass Pass, record func(rp hal.RenderPassEncoder)) error {
	if pass.Color == nil {
		return ErrNoColorTarget
	}

	desc := &hal.RenderPassDescriptor{
		Label: pass.Label,
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       pass.Color,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: pass.ClearColor,
			},
		},
	}
	if pass.Depth != nil {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              pass.Depth,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		}
	}

	return encode(device, queue, pass.Label, func(encoder hal.CommandEncoder) {
		rp := encoder.BeginRenderPass(desc)
		record(rp)
		rp.End()
	})
}

// DepthTarget is a depth texture that follows the size of the color target.
type DepthTarget struct {
	Label string

	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

// Ensure makes sure the target exists at w x h, recreating it when the
// size changed. It reports whether a new texture was created.
func (d *DepthTarget) Ensure(device hal.Device, w, h uint32) (bool, error) {
	if w == 0 || h == 0 {
		return false, fmt.Errorf("gpu: depth target size %dx%d", w, h)
	}
	if d.tex != nil && d.width == w && d.height == h {
		return false, nil
	}
	d.Destroy(device)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         d.Label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return false, fmt.Errorf("gpu: create depth texture: %w", err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: d.Label + "_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return false, fmt.Errorf("gpu: create depth view: %w", err)
	}

	d.tex, d.view = tex, view
	d.width, d.height = w, h
	return true, nil
}

// View returns the depth view, nil before the first Ensure.
func (d *DepthTarget) View() hal.TextureView { return d.view }

// Size returns the current dimensions.
func (d *DepthTarget) Size() (w, h uint32) { return d.width, d.height }

// Destroy releases the view and texture. Safe to call repeatedly.
func (d *DepthTarget) Destroy(device hal.Device) {
	if d.view != nil {
		device.DestroyTextureView(d.view)
		d.view = nil
	}
	if d.tex != nil {
		device.DestroyTexture(d.tex)
		d.tex = nil
	}
	d.width = 0
	d.height = 0
}

// ColorTarget is an offscreen color texture, used when no surface is
// available.
type ColorTarget struct {
	Label  string
	Format gputypes.TextureFormat

	tex  hal.Texture
	view hal.TextureView
}

// Create allocates the texture at w x h.
func (c *ColorTarget) Create(device hal.Device, w, h uint32) error {
	c.Destroy(device)
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         c.Label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        c.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create color texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: c.Label + "_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("gpu: create color view: %w", err)
	}
	c.tex, c.view = tex, view
	return nil
}

// View returns the color view.
func (c *ColorTarget) View() hal.TextureView { return c.view }

// Destroy releases the view and texture.
func (c *ColorTarget) Destroy(device hal.Device) {
	if c.view != nil {
		device.DestroyTextureView(c.view)
		c.view = nil
	}
	if c.tex != nil {
		device.DestroyTexture(c.tex)
		c.tex = nil
	}
}
