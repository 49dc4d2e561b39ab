// Package hellogpu holds two small GPU example programs built on the GoGPU
// stack: a colored triangle and a spinning, depth-tested cube.
//
// # Layout
//
//   - cmd/triangle, cmd/cube: the executables
//   - mat4: column-major 4x4 float32 matrices (rotation, perspective, multiply)
//   - internal/app: window host, lifecycle and configuration
//   - internal/shader: shader stage/format selection and loading
//   - internal/gpu: render pipelines, staging uploads and render passes
//   - internal/triangle, internal/cube: the programs themselves
//
// # Running
//
//	go run ./cmd/triangle -resources resources
//	go run ./cmd/cube -resources resources -shader-format wgsl
//
// Shaders are read from the resources directory at startup. By default that
// is the resources directory next to the executable.
//
// # Logging
//
// The packages log through [Logger], which is silent until [SetLogger] is
// called. The commands install a text handler on stderr.
package hellogpu
