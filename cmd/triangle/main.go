// Command triangle opens a window and draws a single colored triangle.
//
// Shaders are read from the resources directory next to the executable:
//
//	triangle -resources ./resources -shader-format wgsl -v
package main

import (
	"log"
	"os"

	"github.com/gogpu/hellogpu/internal/app"
	"github.com/gogpu/hellogpu/internal/triangle"
)

func main() {
	cfg := app.DefaultConfig("Hello Triangle", "com.example.hello-triangle")
	if err := cfg.ParseFlags(os.Args[0], os.Args[1:], os.Stderr); err != nil {
		log.Fatal(err)
	}
	cfg.InstallLogger()

	if err := app.Run(cfg, triangle.New()); err != nil {
		log.Fatal(err)
	}
}
