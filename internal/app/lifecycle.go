package app

import (
	"errors"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu"
	"github.com/gogpu/hellogpu/internal/shader"
	"github.com/gogpu/wgpu/hal"
)

// Device is what a program gets to build its resources with.
type Device struct {
	Device hal.Device
	Queue  hal.Queue

	// Format is the color format frames are rendered in.
	Format gputypes.TextureFormat

	// Backend names the graphics API, for example "Vulkan".
	Backend string

	Shaders *shader.Loader
}

// Frame is one draw callback.
type Frame struct {
	// View is the surface texture to draw into. Nil when the surface is
	// not available, in which case nothing should be drawn.
	View hal.TextureView

	Width, Height uint32

	// Index counts frames handed to Iterate, starting at 0.
	Index uint64
}

// Aspect returns Width/Height, or 1 for an empty frame.
func (f Frame) Aspect() float32 {
	if f.Width == 0 || f.Height == 0 {
		return 1
	}
	return float32(f.Width) / float32(f.Height)
}

// Program is driven by a Lifecycle.
type Program interface {
	// Init creates all device resources. It runs once, before any Iterate.
	Init(dev *Device) error

	// Iterate renders one frame. ErrDone ends the program successfully;
	// any other error ends it with Failure.
	Iterate(f Frame) error

	// Quit releases everything Init created. It runs at most once, also
	// when Init failed part way or never ran, but not after Abandon.
	Quit(r Result)
}

type phase int

const (
	phaseNew phase = iota
	phaseRunning
	phaseDone
)

// Lifecycle drives a Program through init, iterate and quit. Its methods
// may be called from different goroutines; calls into the program are
// serialized.
type Lifecycle struct {
	mu      sync.Mutex
	program Program
	phase   phase
	result  Result
	err     error
	frames  uint64
}

// NewLifecycle returns a lifecycle for p that has not started yet.
func NewLifecycle(p Program) *Lifecycle {
	return &Lifecycle{program: p, result: Continue}
}

// Init runs the program's Init. It returns Continue on success and
// Failure (after calling Quit) on error. Calls after the first return the
// current result.
func (l *Lifecycle) Init(dev *Device) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != phaseNew {
		return l.result
	}
	if err := l.program.Init(dev); err != nil {
		hellogpu.Logger().Error("init failed", "error", err)
		l.end(Failure, err)
		return l.result
	}
	l.phase = phaseRunning
	hellogpu.Logger().Info("initialized", "backend", dev.Backend, "format", dev.Format)
	return Continue
}

// Iterate hands f to the program. Frames before Init or after the end are
// ignored and return the current result.
func (l *Lifecycle) Iterate(f Frame) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != phaseRunning {
		return l.result
	}

	f.Index = l.frames
	l.frames++

	err := l.program.Iterate(f)
	switch {
	case err == nil:
		return Continue
	case errors.Is(err, ErrDone):
		l.end(Success, nil)
	default:
		hellogpu.Logger().Error("frame failed", "frame", f.Index, "error", err)
		l.end(Failure, err)
	}
	return l.result
}

// Fail ends the lifecycle with Failure because of err, which happened
// outside the program (for example while acquiring the device).
func (l *Lifecycle) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase == phaseDone {
		return
	}
	hellogpu.Logger().Error("fatal error", "error", err)
	l.end(Failure, err)
}

// Quit ends the lifecycle with r. Only the first end counts.
func (l *Lifecycle) Quit(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase == phaseDone {
		return
	}
	l.end(r, nil)
}

// Abandon ends the lifecycle with r and err once the device is gone. A
// program that never started still gets Quit; a running one does not,
// since its resources went with the device.
func (l *Lifecycle) Abandon(r Result, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.phase {
	case phaseDone:
		return
	case phaseNew:
		l.end(r, err)
		return
	}
	if r == Continue {
		r = Success
	}
	l.phase = phaseDone
	l.result = r
	l.err = err
	hellogpu.Logger().Warn("abandoned without quit", "result", r, "frames", l.frames, "error", err)
}

// end must be called with mu held.
func (l *Lifecycle) end(r Result, err error) {
	if r == Continue {
		r = Success
	}
	l.phase = phaseDone
	l.result = r
	l.err = err
	l.program.Quit(r)
	hellogpu.Logger().Info("quit", "result", r, "frames", l.frames)
}

// Started reports whether Init has been attempted.
func (l *Lifecycle) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase != phaseNew
}

// Done reports whether the lifecycle has ended.
func (l *Lifecycle) Done() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase == phaseDone
}

// Result returns the final result, or Continue while running.
func (l *Lifecycle) Result() Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

// Err returns the error that caused Failure, if any.
func (l *Lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Frames returns the number of frames handed to the program.
func (l *Lifecycle) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}
