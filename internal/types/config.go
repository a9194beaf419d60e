package types

// TransitionConfig represents the host transition settings
type TransitionConfig struct {
	Type    string `mapstructure:"type" json:"type"`
	Speed   int    `mapstructure:"speed" json:"speed"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
}

// DisplayConfig represents the configuration for the display
type DisplayConfig struct {
	Width       int `mapstructure:"width" json:"width"`
	Height      int `mapstructure:"height" json:"height"`
	RefreshRate int `mapstructure:"refresh_rate" json:"refresh_rate"` // milliseconds
}

// HUB75Config represents the GPIO pinout of a HUB75 panel
type HUB75Config struct {
	Chip   string `mapstructure:"chip"`
	R1Pin  int    `mapstructure:"r1"`  // Red data for upper half
	G1Pin  int    `mapstructure:"g1"`  // Green data for upper half
	B1Pin  int    `mapstructure:"b1"`  // Blue data for upper half
	R2Pin  int    `mapstructure:"r2"`  // Red data for lower half
	G2Pin  int    `mapstructure:"g2"`  // Green data for lower half
	B2Pin  int    `mapstructure:"b2"`  // Blue data for lower half
	CLKPin int    `mapstructure:"clk"` // Clock signal
	OEPin  int    `mapstructure:"oe"`  // Output enable
	LAPin  int    `mapstructure:"lat"` // Latch signal
	APin   int    `mapstructure:"a"`   // Address bit A
	BPin   int    `mapstructure:"b"`   // Address bit B
	CPin   int    `mapstructure:"c"`   // Address bit C
	DPin   int    `mapstructure:"d"`   // Address bit D
	EPin   int    `mapstructure:"e"`   // Address bit E (64-row panels)
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}
