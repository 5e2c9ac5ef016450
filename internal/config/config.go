package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	VisualRingSize  = 8192
	SmoothingFactor = 0.6

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50

	// Level ring drawn inside the volume dial
	LevelBands    = 48
	LevelMaxDepth = 30
)

// EnvPrefix prefixes environment overrides, e.g. RADIAL_LOGGING_LEVEL.
const EnvPrefix = "RADIAL"

// Dial roles understood by the player.
const (
	RoleVolume = "volume"
	RoleSpeed  = "speed"
)

// Config is the YAML configuration of the radial player.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Dials   []DialConfig  `yaml:"dials"`
	Audio   AudioConfig   `yaml:"audio"`
	Remote  RemoteConfig  `yaml:"remote"`
	Logging LoggingConfig `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DialConfig describes one dial. X and Y are the top-left corner of the
// dial's square in window coordinates.
type DialConfig struct {
	Name   string  `yaml:"name"`
	Role   string  `yaml:"role,omitempty"` // "volume", "speed" or empty
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Step   float64 `yaml:"step"`
	Radius float64 `yaml:"radius"`
	Color  string  `yaml:"color,omitempty"` // CSS name or #rrggbb[aa]
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

type AudioConfig struct {
	// File is played on startup when set.
	File string `yaml:"file,omitempty"`
	// ResampleQuality is passed to beep's resampler (1..64).
	ResampleQuality int `yaml:"resample_quality"`
}

type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with a volume and a speed
// dial side by side.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "Radial Player - Open a file, drag the dials, Space: Play/Pause, Esc/Q: Quit",
		},
		Dials: []DialConfig{
			{Name: "volume", Role: RoleVolume, Min: -40, Max: 0, Step: 1, Radius: 110, Color: "tomato", X: 200, Y: 130},
			{Name: "speed", Role: RoleSpeed, Min: 0.5, Max: 2, Step: 0.05, Radius: 110, Color: "mediumseagreen", X: 600, Y: 130},
		},
		Audio: AudioConfig{
			ResampleQuality: 4,
		},
		Remote: RemoteConfig{
			Enabled: false,
			Addr:    "127.0.0.1:3002",
			Path:    "/ws",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path when
// path is not empty, then RADIAL_* environment overrides. The result is
// validated.
//
// Unknown YAML fields are rejected to catch typos.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := decodeYAML(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode config yaml: %w", err)
	}
	var rest yaml.Node
	if err := dec.Decode(&rest); err == nil {
		return fmt.Errorf("decode config yaml: unexpected trailing document")
	}
	return nil
}

// envKeys are the settings that can be overridden from the environment.
var envKeys = []string{
	"window.title",
	"audio.file",
	"audio.resample_quality",
	"remote.enabled",
	"remote.addr",
	"remote.path",
	"logging.level",
}

// applyEnv layers RADIAL_* variables over cfg. Only variables that are set
// take effect.
func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if v.IsSet("window.title") {
		cfg.Window.Title = v.GetString("window.title")
	}
	if v.IsSet("audio.file") {
		cfg.Audio.File = v.GetString("audio.file")
	}
	if v.IsSet("audio.resample_quality") {
		q, err := strconv.Atoi(v.GetString("audio.resample_quality"))
		if err != nil {
			return fmt.Errorf("env %s_AUDIO_RESAMPLE_QUALITY: %w", EnvPrefix, err)
		}
		cfg.Audio.ResampleQuality = q
	}
	if v.IsSet("remote.enabled") {
		on, err := strconv.ParseBool(v.GetString("remote.enabled"))
		if err != nil {
			return fmt.Errorf("env %s_REMOTE_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Remote.Enabled = on
	}
	if v.IsSet("remote.addr") {
		cfg.Remote.Addr = v.GetString("remote.addr")
	}
	if v.IsSet("remote.path") {
		cfg.Remote.Path = v.GetString("remote.path")
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	return nil
}

// Validate checks everything the dials themselves do not: window size,
// dial names, roles and colors, audio, remote and logging settings. Numeric
// dial ranges are checked when the dials are built.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.Dials) == 0 {
		return errors.New("dials: at least one dial is required")
	}
	seen := make(map[string]bool, len(c.Dials))
	roles := make(map[string]bool, 2)
	for i, d := range c.Dials {
		if d.Name == "" {
			return fmt.Errorf("dials[%d]: name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("dials[%d]: duplicate name %q", i, d.Name)
		}
		seen[d.Name] = true
		switch d.Role {
		case "":
		case RoleVolume, RoleSpeed:
			if roles[d.Role] {
				return fmt.Errorf("dials[%d]: role %q is already taken", i, d.Role)
			}
			roles[d.Role] = true
		default:
			return fmt.Errorf("dials[%d]: unknown role %q (must be volume or speed)", i, d.Role)
		}
		if d.Role == RoleSpeed && d.Min <= 0 {
			return fmt.Errorf("dials[%d]: speed min must be greater than 0, got %g", i, d.Min)
		}
		if d.Color != "" {
			if _, err := ParseColor(d.Color); err != nil {
				return fmt.Errorf("dials[%d]: %w", i, err)
			}
		}
	}
	if c.Audio.ResampleQuality < 1 || c.Audio.ResampleQuality > 64 {
		return fmt.Errorf("audio: resample_quality must be in 1..64, got %d", c.Audio.ResampleQuality)
	}
	if c.Remote.Enabled {
		if c.Remote.Addr == "" {
			return errors.New("remote: addr is required when enabled")
		}
		if !strings.HasPrefix(c.Remote.Path, "/") {
			return fmt.Errorf("remote: path must start with /, got %q", c.Remote.Path)
		}
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// ParseColor accepts a CSS color name ("tomato") or a hex value "#rrggbb"
// or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		if len(hex) == 6 {
			n = n<<8 | 0xff
		}
		return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color name %q", s)
	}
	return c, nil
}
