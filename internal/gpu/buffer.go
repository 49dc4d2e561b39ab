package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu"
	"github.com/gogpu/wgpu/hal"
)

// ErrEmptyUpload is returned when Upload is asked to copy zero bytes.
var ErrEmptyUpload = errors.New("gpu: upload of zero bytes")

// Upload creates a device-local buffer with the given usage and fills it
// with data. The bytes are written to a host-visible staging buffer first
// and moved with a copy command; the staging buffer is released before
// Upload returns.
func Upload(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	size := uint64(len(data))

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s buffer: %w", label, err)
	}

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_staging",
		Size:  size,
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("gpu: create %s staging buffer: %w", label, err)
	}
	defer device.DestroyBuffer(staging)

	queue.WriteBuffer(staging, 0, data)

	err = encode(device, queue, label+"_upload", func(encoder hal.CommandEncoder) {
		encoder.CopyBufferToBuffer(staging, buf, []hal.BufferCopy{{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      size,
		}})
	})
	if err != nil {
		device.DestroyBuffer(buf)
		return nil, err
	}

	hellogpu.Logger().Debug("buffer uploaded", "label", label, "bytes", size)
	return buf, nil
}

// Uniform is a small buffer rewritten every frame and bound at group 0,
// binding 0 of a pipeline created with a non-zero UniformSize.
type Uniform struct {
	buf       hal.Buffer
	bindGroup hal.BindGroup
	size      uint64
}

// NewUniform allocates a uniform buffer matching p's uniform layout.
func NewUniform(device hal.Device, p *Pipeline) (*Uniform, error) {
	if p.uniformLayout == nil {
		return nil, fmt.Errorf("gpu: pipeline %q has no uniform binding", p.label)
	}

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_uniforms",
		Size:  p.uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s uniform buffer: %w", p.label, err)
	}

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label + "_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: p.uniformSize,
			}},
		},
	})
	if err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("gpu: create %s bind group: %w", p.label, err)
	}

	return &Uniform{buf: buf, bindGroup: bindGroup, size: p.uniformSize}, nil
}

// Write replaces the buffer contents. data longer than the buffer is an
// error; shorter data leaves the tail untouched.
func (u *Uniform) Write(queue hal.Queue, data []byte) error {
	if uint64(len(data)) > u.size {
		return fmt.Errorf("gpu: uniform write of %d bytes exceeds %d", len(data), u.size)
	}
	queue.WriteBuffer(u.buf, 0, data)
	return nil
}

// Bind attaches the uniform bind group to group 0 of rp.
func (u *Uniform) Bind(rp hal.RenderPassEncoder) {
	rp.SetBindGroup(0, u.bindGroup, nil)
}

// Destroy releases the bind group and buffer. Safe on nil.
func (u *Uniform) Destroy(device hal.Device) {
	if u == nil {
		return
	}
	if u.bindGroup != nil {
		device.DestroyBindGroup(u.bindGroup)
		u.bindGroup = nil
	}
	if u.buf != nil {
		device.DestroyBuffer(u.buf)
		u.buf = nil
	}
}
