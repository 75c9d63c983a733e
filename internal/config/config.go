// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Browser    BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	Network    NetworkConfig    `mapstructure:"network" yaml:"network"`
	Activation ActivationConfig `mapstructure:"activation" yaml:"activation"`
	Input      InputConfig      `mapstructure:"input" yaml:"input"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless        bool           `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	UserAgent       string         `mapstructure:"user_agent" yaml:"user_agent"`
	Args            []string       `mapstructure:"args" yaml:"args"`
	Humanoid        HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
}

// HumanoidConfig tunes the human-like interaction layer. All effects are
// timing/appearance only and never change classification results.
type HumanoidConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled"`
	MinDelayMs int  `mapstructure:"min_delay_ms" yaml:"min_delay_ms"`
	MaxDelayMs int  `mapstructure:"max_delay_ms" yaml:"max_delay_ms"`
}

// NetworkConfig tunes the wait bounds applied to browser operations.
type NetworkConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	ElementTimeout    time.Duration `mapstructure:"element_timeout" yaml:"element_timeout"`
	MarkerTimeout     time.Duration `mapstructure:"marker_timeout" yaml:"marker_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// SelectorConfig identifies the three controls driven on the activation page.
type SelectorConfig struct {
	ICCIDInput     string `mapstructure:"iccid_input" yaml:"iccid_input"`
	NextButton     string `mapstructure:"next_button" yaml:"next_button"`
	ActivateButton string `mapstructure:"activate_button" yaml:"activate_button"`
}

// MarkerConfig holds the text fragments the remote page shows for each outcome.
type MarkerConfig struct {
	AlreadyActivated string `mapstructure:"already_activated" yaml:"already_activated"`
	SystemIssue      string `mapstructure:"system_issue" yaml:"system_issue"`
	Processing       string `mapstructure:"processing" yaml:"processing"`
	Success          string `mapstructure:"success" yaml:"success"`
}

// ActivationConfig drives the core activation workflow.
type ActivationConfig struct {
	URL           string         `mapstructure:"url" yaml:"url"`
	Selectors     SelectorConfig `mapstructure:"selectors" yaml:"selectors"`
	Markers       MarkerConfig   `mapstructure:"markers" yaml:"markers"`
	MaxRetries    int            `mapstructure:"max_retries" yaml:"max_retries"`
	Concurrency   int            `mapstructure:"concurrency" yaml:"concurrency"`
	RatePerMinute float64        `mapstructure:"rate_per_minute" yaml:"rate_per_minute"`
}

// InputConfig locates the ICCID source file.
type InputConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// OutputConfig locates the result artifacts written after a run.
type OutputConfig struct {
	ResultsFile string `mapstructure:"results_file" yaml:"results_file"`
	InvalidFile string `mapstructure:"invalid_file" yaml:"invalid_file"`
}

// ServerConfig configures the optional HTTP control surface.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "simflow")
	v.SetDefault("logger.log_file", "simflow.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	v.SetDefault("browser.humanoid.enabled", true)
	v.SetDefault("browser.humanoid.min_delay_ms", 200)
	v.SetDefault("browser.humanoid.max_delay_ms", 500)

	// -- Network --
	v.SetDefault("network.navigation_timeout", "30s")
	v.SetDefault("network.element_timeout", "30s")
	v.SetDefault("network.marker_timeout", "5s")
	v.SetDefault("network.post_load_wait", "2s")

	// -- Activation --
	v.SetDefault("activation.selectors.iccid_input", "#iccid")
	v.SetDefault("activation.selectors.next_button", "#next-step")
	v.SetDefault("activation.selectors.activate_button", "#activate-now")
	v.SetDefault("activation.markers.already_activated", "has already been activated")
	v.SetDefault("activation.markers.system_issue", "experiencing a system issue")
	v.SetDefault("activation.markers.processing", "is being processed")
	v.SetDefault("activation.markers.success", "successfully activated")
	v.SetDefault("activation.max_retries", 2)
	v.SetDefault("activation.concurrency", 3)
	v.SetDefault("activation.rate_per_minute", 0)

	// -- Input / Output --
	v.SetDefault("input.path", "iccids.csv")
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("output.results_file", "results.json")
	v.SetDefault("output.invalid_file", "invalid_iccids.csv")

	// -- Server --
	v.SetDefault("server.addr", "127.0.0.1:8815")
	v.SetDefault("server.shutdown_timeout", "10s")
}

// NewFromViper creates a validated configuration instance from a viper object.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig creates a configuration populated with default values only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the defaults above; guard it anyway.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Activation.MaxRetries <= 0 {
		return fmt.Errorf("activation.max_retries must be a positive integer")
	}
	if c.Activation.Concurrency <= 0 {
		return fmt.Errorf("activation.concurrency must be a positive integer")
	}
	if c.Activation.RatePerMinute < 0 {
		return fmt.Errorf("activation.rate_per_minute must not be negative")
	}
	if c.Network.NavigationTimeout <= 0 || c.Network.ElementTimeout <= 0 || c.Network.MarkerTimeout <= 0 {
		return fmt.Errorf("network timeouts must be positive durations")
	}
	if c.Browser.Humanoid.Enabled {
		if c.Browser.Humanoid.MinDelayMs < 0 || c.Browser.Humanoid.MaxDelayMs < c.Browser.Humanoid.MinDelayMs {
			return fmt.Errorf("browser.humanoid delay range is invalid")
		}
	}
	if len(c.Input.Delimiter) > 1 {
		return fmt.Errorf("input.delimiter must be a single character")
	}
	return nil
}
