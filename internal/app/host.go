package app

import (
	"errors"
	"fmt"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu"
	"github.com/gogpu/hellogpu/internal/shader"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when the window's GPU context does not expose HAL
// device and queue objects.
var ErrNoHAL = errors.New("app: GPU context provider does not expose HAL types")

// fallbackFormat is used when the provider does not report a surface format.
const fallbackFormat = gputypes.TextureFormatBGRA8Unorm

// Run opens a window described by cfg and drives program until the window
// is closed, Escape is pressed, or the program ends itself. It returns nil
// on Success.
func Run(cfg Config, program Program) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := hellogpu.Logger()
	log.Info("starting", "title", cfg.Title, "version", cfg.Version, "id", cfg.ID)

	resources := cfg.ResourceDir(BasePath())
	override := cfg.FormatOverride()

	gapp := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(cfg.Width, cfg.Height))

	lc := NewLifecycle(program)

	gapp.OnDraw(func(dc *gogpu.Context) {
		if lc.Done() {
			return
		}

		if !lc.Started() {
			backend := dc.Backend()
			dev, err := newDevice(gapp.GPUContextProvider(), backend, shader.NewLoader(resources, backend, override))
			if err != nil {
				lc.Fail(err)
				gapp.Quit()
				return
			}
			log.Debug("device ready", "backend", backend, "shaders", dev.Shaders.Dir, "formats", dev.Shaders.Formats)
			if lc.Init(dev) != Continue {
				gapp.Quit()
				return
			}
		}

		w, h := dc.SurfaceSize()
		if lc.Iterate(Frame{View: surfaceView(dc.SurfaceView()), Width: w, Height: h}) != Continue {
			gapp.Quit()
		}
	})

	gapp.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key != gpucontext.KeyEscape {
			return
		}
		log.Debug("escape pressed")
		lc.Quit(Success)
		gapp.Quit()
	})

	// gogpu calls OnClose before it destroys the device, so this is where
	// program resources are released.
	gapp.OnClose(func() {
		lc.Quit(Success)
	})

	// Past this point the device may be gone and the program is not called.
	if err := gapp.Run(); err != nil {
		lc.Abandon(Failure, err)
		return fmt.Errorf("app: run: %w", err)
	}
	lc.Abandon(Success, nil)

	if lc.Result() == Failure {
		if err := lc.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailed, err)
		}
		return ErrFailed
	}
	return nil
}

// newDevice builds a Device from the window's GPU context provider.
func newDevice(provider gpucontext.DeviceProvider, backend string, loader *shader.Loader) (*Device, error) {
	if provider == nil {
		return nil, ErrNoHAL
	}
	device, queue, err := halObjects(provider.Device())
	if err != nil {
		return nil, err
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = fallbackFormat
	}

	return &Device{
		Device:  device,
		Queue:   queue,
		Format:  format,
		Backend: backend,
		Shaders: loader,
	}, nil
}

// halObjects unwraps the HAL device and queue behind a gogpu device handle.
func halObjects(d gpucontext.Device) (hal.Device, hal.Queue, error) {
	wd, ok := d.(*wgpu.Device)
	if !ok || wd == nil {
		return nil, nil, fmt.Errorf("%w: device is %T", ErrNoHAL, d)
	}
	device := wd.HalDevice()
	if device == nil {
		return nil, nil, fmt.Errorf("%w: device released", ErrNoHAL)
	}
	queue := wd.HalQueue()
	if queue == nil {
		return nil, nil, fmt.Errorf("%w: no queue", ErrNoHAL)
	}
	return device, queue, nil
}

// surfaceView returns the HAL view of the current surface texture, or nil
// outside a frame.
func surfaceView(sv *wgpu.TextureView) hal.TextureView {
	if sv == nil {
		return nil
	}
	return sv.HalTextureView()
}
