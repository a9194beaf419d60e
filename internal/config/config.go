package config

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

// Config represents the countdown plugin configuration as supplied by the host
type Config struct {
	Enabled         bool                   `mapstructure:"enabled"`
	DisplayDuration int                    `mapstructure:"display_duration"` // seconds
	UpdateInterval  int                    `mapstructure:"update_interval"`  // seconds
	TextColor       []int                  `mapstructure:"text_color"`
	LogoSize        int                    `mapstructure:"logo_size"`
	Transition      types.TransitionConfig `mapstructure:"transition"`
	Timezone        string                 `mapstructure:"timezone"`
	AssetsDir       string                 `mapstructure:"assets_dir"`
	GamesFile       string                 `mapstructure:"games_file"`
	Display         types.DisplayConfig    `mapstructure:"display"`
	HUB75           types.HUB75Config      `mapstructure:"hub75"`
	Logging         types.LoggingConfig    `mapstructure:"logging"`
}

// Bounds on the host-facing settings
const (
	MinDisplayDuration = 1
	MaxDisplayDuration = 300
	MinUpdateInterval  = 60
	MaxUpdateInterval  = 86400
	MinTransitionSpeed = 1
	MaxTransitionSpeed = 10
	MinRefreshRate     = 10
)

var transitionTypes = map[string]bool{
	"redraw":   true,
	"fade":     true,
	"slide":    true,
	"wipe":     true,
	"dissolve": true,
	"pixelate": true,
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads configuration from a JSON or YAML file and environment
// variables prefixed with OLYMPICS_COUNTDOWN. An empty path yields the
// defaults plus any environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("OLYMPICS_COUNTDOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not validate: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("enabled", true)
	v.SetDefault("display_duration", 15)
	v.SetDefault("update_interval", 3600)
	v.SetDefault("text_color", []int{255, 255, 255})
	v.SetDefault("logo_size", 0)
	v.SetDefault("timezone", "")
	v.SetDefault("assets_dir", ".")
	v.SetDefault("games_file", "")

	v.SetDefault("transition.type", "redraw")
	v.SetDefault("transition.speed", 2)
	v.SetDefault("transition.enabled", true)

	v.SetDefault("display.width", 64)
	v.SetDefault("display.height", 32)
	v.SetDefault("display.refresh_rate", 1000)

	// Adafruit RGB Matrix Bonnet pinout
	v.SetDefault("hub75.chip", "gpiochip0")
	v.SetDefault("hub75.r1", 5)
	v.SetDefault("hub75.g1", 13)
	v.SetDefault("hub75.b1", 6)
	v.SetDefault("hub75.r2", 12)
	v.SetDefault("hub75.g2", 16)
	v.SetDefault("hub75.b2", 23)
	v.SetDefault("hub75.clk", 17)
	v.SetDefault("hub75.oe", 4)
	v.SetDefault("hub75.lat", 21)
	v.SetDefault("hub75.a", 22)
	v.SetDefault("hub75.b", 26)
	v.SetDefault("hub75.c", 27)
	v.SetDefault("hub75.d", 20)
	v.SetDefault("hub75.e", 24)

	v.SetDefault("logging.level", "info")
}

// Normalize canonicalises free-form string settings
func (c *Config) Normalize() {
	c.Transition.Type = strings.ToLower(strings.TrimSpace(c.Transition.Type))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.AssetsDir == "" {
		c.AssetsDir = "."
	}
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.DisplayDuration < MinDisplayDuration || c.DisplayDuration > MaxDisplayDuration {
		return fmt.Errorf("display_duration must be between %d and %d seconds", MinDisplayDuration, MaxDisplayDuration)
	}
	if c.UpdateInterval < MinUpdateInterval || c.UpdateInterval > MaxUpdateInterval {
		return fmt.Errorf("update_interval must be between %d and %d seconds", MinUpdateInterval, MaxUpdateInterval)
	}

	if len(c.TextColor) != 3 {
		return fmt.Errorf("text_color must have 3 components, got %d", len(c.TextColor))
	}
	for i, v := range c.TextColor {
		if v < 0 || v > 255 {
			return fmt.Errorf("text_color[%d] must be between 0 and 255", i)
		}
	}
	if c.LogoSize < 0 {
		return fmt.Errorf("logo_size must not be negative")
	}

	if !transitionTypes[c.Transition.Type] {
		return fmt.Errorf("transition.type %q is not supported", c.Transition.Type)
	}
	if c.Transition.Speed < MinTransitionSpeed || c.Transition.Speed > MaxTransitionSpeed {
		return fmt.Errorf("transition.speed must be between %d and %d", MinTransitionSpeed, MaxTransitionSpeed)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.RefreshRate < MinRefreshRate {
		return fmt.Errorf("display.refresh_rate must be at least %d ms", MinRefreshRate)
	}

	pins := []int{
		c.HUB75.R1Pin, c.HUB75.G1Pin, c.HUB75.B1Pin,
		c.HUB75.R2Pin, c.HUB75.G2Pin, c.HUB75.B2Pin,
		c.HUB75.CLKPin, c.HUB75.OEPin, c.HUB75.LAPin,
		c.HUB75.APin, c.HUB75.BPin, c.HUB75.CPin, c.HUB75.DPin, c.HUB75.EPin,
	}
	for _, p := range pins {
		if p < 0 {
			return fmt.Errorf("hub75 pins must not be negative")
		}
	}

	if !logLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	return nil
}

// Location returns the configured timezone, time.Local when unset
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TextRGBA returns the text color. Callers are expected to have validated
// the config; missing components read as zero.
func (c *Config) TextRGBA() color.RGBA {
	var rgb [3]uint8
	for i := 0; i < len(rgb) && i < len(c.TextColor); i++ {
		rgb[i] = uint8(c.TextColor[i])
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

// UpdateEvery is the update interval as a duration
func (c *Config) UpdateEvery() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

// DisplayFor is the display duration as a duration
func (c *Config) DisplayFor() time.Duration {
	return time.Duration(c.DisplayDuration) * time.Second
}

// RefreshEvery is the display refresh period
func (c *Config) RefreshEvery() time.Duration {
	return time.Duration(c.Display.RefreshRate) * time.Millisecond
}
