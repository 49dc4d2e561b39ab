// Package shader loads shader code from a resources directory.
//
// The stage is derived from the file name (".vert" or ".frag") and the code
// format from what the backend accepts:
//
//	resources/triangle.vert + FormatSPIRV -> resources/triangle.vert.spv, entry "main"
//	resources/triangle.vert + FormatWGSL  -> resources/triangle.vert.wgsl, entry "vs_main"
package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellogpu"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned while loading shaders.
var (
	// ErrUnknownStage is returned for names without a .vert or .frag part.
	ErrUnknownStage = errors.New("shader: unknown shader stage")

	// ErrNoSupportedFormat is returned when no known format is supported.
	ErrNoSupportedFormat = errors.New("shader: no supported shader format")

	// ErrInvalidSPIRV is returned for SPIR-V data that is not a whole
	// number of words or lacks the SPIR-V magic number.
	ErrInvalidSPIRV = errors.New("shader: invalid SPIR-V binary")
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Stage is a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Visibility returns the bind group visibility bit for the stage.
func (s Stage) Visibility() gputypes.ShaderStage {
	if s == StageVertex {
		return gputypes.ShaderStageVertex
	}
	return gputypes.ShaderStageFragment
}

// StageFromFilename classifies a shader by name: ".vert" anywhere in the
// name selects the vertex stage, ".frag" the fragment stage.
func StageFromFilename(name string) (Stage, error) {
	switch {
	case strings.Contains(name, ".vert"):
		return StageVertex, nil
	case strings.Contains(name, ".frag"):
		return StageFragment, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownStage, name)
	}
}

// ModuleCreator creates shader modules. hal.Device satisfies it.
type ModuleCreator interface {
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
}

// ModuleDestroyer destroys shader modules. hal.Device satisfies it.
type ModuleDestroyer interface {
	DestroyShaderModule(module hal.ShaderModule)
}

// Shader is a loaded shader module together with what is needed to wire
// it into a pipeline.
type Shader struct {
	Module     hal.ShaderModule
	Stage      Stage
	Format     Format
	EntryPoint string
	Path       string
}

// Release destroys the shader module. A pipeline keeps its own reference,
// so shaders can be released as soon as the pipeline exists. Safe on nil.
func (s *Shader) Release(device ModuleDestroyer) {
	if s == nil || s.Module == nil {
		return
	}
	device.DestroyShaderModule(s.Module)
	s.Module = nil
}

// Loader loads shaders from Dir in the preferred format out of Formats.
type Loader struct {
	// Dir is the resources directory holding the shader files.
	Dir string

	// Formats is the set of formats the device accepts.
	Formats Format
}

// NewLoader returns a loader for dir. A non-zero override replaces the
// formats reported for the backend.
func NewLoader(dir, backend string, override Format) *Loader {
	formats := FormatsForBackend(backend)
	if override != FormatInvalid {
		formats = override
	}
	return &Loader{Dir: dir, Formats: formats}
}

// Path returns the file Load would read for name.
func (l *Loader) Path(name string) (string, Format, error) {
	format, err := l.Formats.Select()
	if err != nil {
		return "", FormatInvalid, err
	}
	return filepath.Join(l.Dir, name+format.Ext()), format, nil
}

// Load reads the shader called name (for example "cube.vert") and creates
// its module on device.
func (l *Loader) Load(device ModuleCreator, name string) (*Shader, error) {
	stage, err := StageFromFilename(name)
	if err != nil {
		return nil, err
	}
	path, format, err := l.Path(name)
	if err != nil {
		return nil, err
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: load %s: %w", name, err)
	}

	source, err := sourceFor(format, code)
	if err != nil {
		return nil, fmt.Errorf("shader: %s: %w", path, err)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("shader: create %s module: %w", name, err)
	}

	hellogpu.Logger().Debug("shader loaded",
		"name", name, "stage", stage, "format", format, "path", path, "bytes", len(code))

	return &Shader{
		Module:     module,
		Stage:      stage,
		Format:     format,
		EntryPoint: format.EntryPoint(stage),
		Path:       path,
	}, nil
}

// sourceFor converts file contents into the source handed to the driver.
func sourceFor(format Format, code []byte) (hal.ShaderSource, error) {
	switch format {
	case FormatSPIRV:
		words, err := spirvWords(code)
		if err != nil {
			return hal.ShaderSource{}, err
		}
		return hal.ShaderSource{SPIRV: words}, nil
	case FormatNaga:
		spirv, err := naga.Compile(string(code))
		if err != nil {
			return hal.ShaderSource{}, fmt.Errorf("compile WGSL: %w", err)
		}
		words, err := spirvWords(spirv)
		if err != nil {
			return hal.ShaderSource{}, err
		}
		return hal.ShaderSource{SPIRV: words}, nil
	case FormatWGSL:
		return hal.ShaderSource{WGSL: string(code)}, nil
	default:
		return hal.ShaderSource{}, fmt.Errorf("%w: %v", ErrNoSupportedFormat, format)
	}
}

// spirvWords converts little-endian SPIR-V bytes to words and checks the
// magic number.
func spirvWords(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of words", ErrInvalidSPIRV, len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic 0x%08x", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}
