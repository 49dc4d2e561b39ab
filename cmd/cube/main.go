// Command cube opens a window and draws a depth-tested cube spinning about
// all three axes. Press Escape or close the window to quit.
package main

import (
	"log"
	"os"

	"github.com/gogpu/hellogpu/internal/app"
	"github.com/gogpu/hellogpu/internal/cube"
)

func main() {
	cfg := app.DefaultConfig("Spinning Cube", "com.example.spinning-cube")
	if err := cfg.ParseFlags(os.Args[0], os.Args[1:], os.Stderr); err != nil {
		log.Fatal(err)
	}
	cfg.InstallLogger()

	if err := app.Run(cfg, cube.New()); err != nil {
		log.Fatal(err)
	}
}
