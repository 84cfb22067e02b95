// Package config loads the settings shared by the wormhole commands.
//
// Settings come from three layers, later ones winning: built-in defaults,
// an optional TOML file, and command-line flags.
//
//	radius = 1.4
//	throat_length = 5.0
//	backend = "gpu"
//
//	[skybox]
//	near = "textures/skybox1"
//	far = "textures/skybox2"
//	extension = "jpg"
//
//	[window]
//	width = 800
//	height = 600
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/wormhole"
)

// Config holds every setting a command needs.
type Config struct {
	Radius       float64 `toml:"radius"`
	ThroatLength float64 `toml:"throat_length"`

	// Backend names a registered backend; empty selects the default.
	Backend string `toml:"backend"`

	Skybox Skybox `toml:"skybox"`
	Window Window `toml:"window"`

	// Debug enables debug logging.
	Debug bool `toml:"debug"`
}

// Skybox locates the two cubemaps.
type Skybox struct {
	Near      string `toml:"near"`
	Far       string `toml:"far"`
	Extension string `toml:"extension"`
}

// Window is the initial viewport size in pixels.
type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Radius:       1.4,
		ThroatLength: 5,
		Skybox: Skybox{
			Near:      wormhole.DefaultSkybox1Dir,
			Far:       wormhole.DefaultSkybox2Dir,
			Extension: wormhole.DefaultExtension,
		},
		Window: Window{Width: 800, Height: 600},
	}
}

// Decode reads TOML from r on top of c. Unknown keys are an error.
func (c *Config) Decode(r io.Reader) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load returns the defaults overlaid with the TOML file at path.
// An empty path returns the defaults. The result is not validated.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := c.Decode(bytes.NewReader(data)); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the geometry and window size.
func (c Config) Validate() error {
	if _, err := c.Space(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	return nil
}

// Space builds the wormhole space described by c.
func (c Config) Space() (wormhole.Space, error) {
	return wormhole.NewSpace(c.Radius, c.ThroatLength)
}

// Options returns the renderer options for the skybox and backend settings.
func (c Config) Options() []wormhole.Option {
	opts := []wormhole.Option{
		wormhole.WithSkyboxDirs(c.Skybox.Near, c.Skybox.Far),
		wormhole.WithExtension(c.Skybox.Extension),
	}
	if c.Backend != "" {
		opts = append(opts, wormhole.WithBackendName(c.Backend))
	}
	return opts
}

// Logger returns a text logger writing to w, at debug level when
// c.Debug is set and info level otherwise.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// RegisterFlags binds flags for every setting to fs, using the current
// values of c as defaults. Parse the flag set after loading the file so
// that explicit flags win.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.Radius, "radius", c.Radius, "throat radius")
	fs.Float64Var(&c.ThroatLength, "throat", c.ThroatLength, "throat length")
	fs.StringVar(&c.Backend, "backend", c.Backend, "render backend name")
	fs.StringVar(&c.Skybox.Near, "skybox1", c.Skybox.Near, "near side skybox directory")
	fs.StringVar(&c.Skybox.Far, "skybox2", c.Skybox.Far, "far side skybox directory")
	fs.StringVar(&c.Skybox.Extension, "ext", c.Skybox.Extension, "skybox image extension")
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "viewport width")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "viewport height")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
}

// Parse loads the file named by the -config flag in args, then parses
// args with fs so flags override the file. Commands register their own
// flags on fs before calling Parse.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	path := configPath(fs.Name(), args)
	c, err := Load(path)
	if err != nil {
		return c, err
	}

	fs.String("config", path, "TOML configuration file")
	c.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// configPath finds -config without parsing the other flags, which need
// the file's values as defaults.
func configPath(name string, args []string) string {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "")
	for i, a := range args {
		if a == "-config" || a == "--config" || strings.HasPrefix(a, "-config=") || strings.HasPrefix(a, "--config=") {
			_ = fs.Parse(args[i : min(i+2, len(args))])
			break
		}
	}
	return *path
}
