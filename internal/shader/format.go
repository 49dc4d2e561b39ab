package shader

import (
	"fmt"
	"strings"
)

// Format is a set of shader code formats. A single format is one bit;
// backends report the set they accept.
type Format uint32

const (
	// FormatInvalid is the empty set.
	FormatInvalid Format = 0

	// FormatNaga reads WGSL source and compiles it to SPIR-V in-process
	// with naga before handing it to the driver.
	FormatNaga Format = 1 << iota

	// FormatSPIRV reads a pre-built SPIR-V binary.
	FormatSPIRV

	// FormatWGSL reads WGSL source and hands the text to the driver.
	FormatWGSL
)

// selectionOrder is the preference order used by Select.
var selectionOrder = []Format{FormatNaga, FormatSPIRV, FormatWGSL}

// Select returns the preferred single format contained in f.
func (f Format) Select() (Format, error) {
	for _, candidate := range selectionOrder {
		if f&candidate != 0 {
			return candidate, nil
		}
	}
	return FormatInvalid, ErrNoSupportedFormat
}

// Ext returns the file suffix for a single format.
func (f Format) Ext() string {
	switch f {
	case FormatSPIRV:
		return ".spv"
	case FormatWGSL, FormatNaga:
		return ".wgsl"
	default:
		return ""
	}
}

// EntryPoint returns the entry point name for a single format and stage.
// SPIR-V binaries use "main"; WGSL sources (and naga output, which keeps
// WGSL names) use vs_main and fs_main.
func (f Format) EntryPoint(stage Stage) string {
	if f == FormatSPIRV {
		return "main"
	}
	if stage == StageVertex {
		return "vs_main"
	}
	return "fs_main"
}

// String returns a readable name, joining set members with "|".
func (f Format) String() string {
	if f == FormatInvalid {
		return "invalid"
	}
	var names []string
	for _, candidate := range selectionOrder {
		if f&candidate != 0 {
			names = append(names, formatNames[candidate])
		}
	}
	if rest := f &^ (FormatNaga | FormatSPIRV | FormatWGSL); rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

var formatNames = map[Format]string{
	FormatNaga:  "naga",
	FormatSPIRV: "spirv",
	FormatWGSL:  "wgsl",
}

// ParseFormat parses a format name as used in configuration files and
// flags. The empty string and "auto" return FormatInvalid with a nil
// error, meaning no override.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "auto" {
		return FormatInvalid, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return FormatInvalid, fmt.Errorf("shader: unknown format %q (want naga, spirv, wgsl or auto)", s)
}

// FormatsForBackend returns the formats a graphics backend accepts. The
// name is matched case-insensitively against the backend names reported
// by gogpu. Only Vulkan consumes SPIR-V; every backend accepts WGSL.
func FormatsForBackend(name string) Format {
	if strings.Contains(strings.ToLower(name), "vulkan") {
		return FormatNaga | FormatSPIRV | FormatWGSL
	}
	return FormatWGSL
}
