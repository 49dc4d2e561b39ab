package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// ErrFenceTimeout is returned when submitted work does not finish in time.
var ErrFenceTimeout = errors.New("gpu: fence wait timed out")

// fenceTimeout bounds every wait on submitted work.
const fenceTimeout = 5 * time.Second

// encode creates a command encoder, lets record fill it and submits the
// result. It waits for the GPU before returning.
func encode(device hal.Device, queue hal.Queue, label string, record func(hal.CommandEncoder)) error {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label,
	})
	if err != nil {
		return fmt.Errorf("gpu: create %s encoder: %w", label, err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("gpu: begin %s encoding: %w", label, err)
	}

	record(encoder)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("gpu: end %s encoding: %w", label, err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	return submit(device, queue, label, cmdBuf)
}

// submit hands cmdBuf to the queue and blocks until it has executed.
func submit(device hal.Device, queue hal.Queue, label string, cmdBuf hal.CommandBuffer) error {
	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create %s fence: %w", label, err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit %s: %w", label, err)
	}

	ok, err := device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for %s: %w", label, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrFenceTimeout, label)
	}
	return nil
}
