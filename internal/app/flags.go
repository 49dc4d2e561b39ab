package app

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/hellogpu"
)

// defaultConfigPath is the config file used without -config.
var defaultConfigPath = func() string {
	return filepath.Join(BasePath(), ConfigFilename)
}

// ParseFlags fills c from, in increasing priority, its current values, the
// config file and the command-line flags in args. The config file is the
// -config flag when given (and must then exist), otherwise app.yml next to
// the executable if present.
func (c *Config) ParseFlags(name string, args []string, output io.Writer) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		configPath   = fs.String("config", "", "YAML config file (default: "+ConfigFilename+" next to the executable)")
		resources    = fs.String("resources", "", "shader directory")
		shaderFormat = fs.String("shader-format", "", "shader format: naga, spirv, wgsl or auto")
		width        = fs.Int("width", 0, "window width")
		height       = fs.Int("height", 0, "window height")
		logLevel     = fs.String("log-level", "", "log level: debug, info, warn or error")
		verbose      = fs.Bool("v", false, "debug logging (same as -log-level=debug)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath != "" {
		if err := c.Load(*configPath); err != nil {
			return err
		}
	} else {
		c.skipped = c.LoadOptional(defaultConfigPath())
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "resources":
			// Relative to the working directory, unlike the config file.
			c.Resources = *resources
			if abs, err := filepath.Abs(*resources); err == nil {
				c.Resources = abs
			}
		case "shader-format":
			c.ShaderFormat = *shaderFormat
		case "width":
			c.Width = *width
		case "height":
			c.Height = *height
		case "log-level":
			c.LogLevel = *logLevel
		}
	})
	if *verbose {
		c.LogLevel = "debug"
	}
	return c.Validate()
}

// InstallLogger routes hellogpu logging to stderr as text at the
// configured level and makes it the slog default. A config file that
// ParseFlags had to skip is reported on the new logger.
func (c Config) InstallLogger() *slog.Logger {
	return c.installLogger(os.Stderr)
}

func (c Config) installLogger(w io.Writer) *slog.Logger {
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: c.Level(),
	}))
	slog.SetDefault(l)
	hellogpu.SetLogger(l.With("app", c.ID))
	if c.skipped != nil {
		hellogpu.Logger().Warn("ignoring config file", "error", c.skipped)
	}
	return l
}
