package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML unmarshaling from strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Config is the top-level weatherbot configuration.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Weather  WeatherConfig  `yaml:"weather"`
	Composer ComposerConfig `yaml:"composer"`
	Session  SessionConfig  `yaml:"session"`
	Server   ServerConfig   `yaml:"server"`
}

type LLMConfig struct {
	Provider string   `yaml:"provider"` // gemini, gemini-cli or ask
	APIKey   string   `yaml:"api_key"`
	Model    string   `yaml:"model"`
	Binary   string   `yaml:"binary"`   // gemini-cli only
	Endpoint string   `yaml:"endpoint"` // ask only
	Timeout  Duration `yaml:"timeout"`  // zero means no client-side limit
}

type WeatherConfig struct {
	Provider       string        `yaml:"provider"` // openweathermap or tomorrow
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Units          string        `yaml:"units"`
	Timeout        Duration      `yaml:"timeout"`
	CircuitBreaker BreakerConfig `yaml:"circuit_breaker"`
}

// BreakerConfig enables fail-fast behaviour after repeated provider failures.
type BreakerConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Failures uint32   `yaml:"failures"`
	Cooldown Duration `yaml:"cooldown"`
}

type ComposerConfig struct {
	Mode          string `yaml:"mode"` // structured or narrated
	NarrateWindow int    `yaml:"narrate_window"`
	GeneralWindow int    `yaml:"general_window"`
	Timezone      string `yaml:"timezone"`
}

type SessionConfig struct {
	MaxMessages int `yaml:"max_messages"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	defaultWeatherTimeout  = 10 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
	defaultNarrateWindow   = 3
	defaultGeneralWindow   = 5
	defaultMaxMessages     = 100
	defaultAddr            = ":8080"
)

// Env vars consulted when the corresponding api_key is left empty.
const (
	EnvGeminiKey  = "GEMINI_API_KEY"
	EnvWeatherKey = "WEATHER_API_KEY"
)

// Load reads, expands env vars, parses, and validates a weatherbot config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return finish(&cfg)
}

// FromEnv builds a config from defaults plus GEMINI_API_KEY and WEATHER_API_KEY.
func FromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadOrEnv loads path when it exists and falls back to FromEnv otherwise.
func LoadOrEnv(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return FromEnv()
	}
	return Load(path)
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv(EnvGeminiKey)
	}
	if cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = os.Getenv(EnvWeatherKey)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.Weather.Provider == "" {
		cfg.Weather.Provider = "openweathermap"
	}
	if cfg.Weather.Units == "" {
		cfg.Weather.Units = "metric"
	}
	if cfg.Weather.Timeout.Duration == 0 {
		cfg.Weather.Timeout.Duration = defaultWeatherTimeout
	}
	if cfg.Weather.CircuitBreaker.Enabled {
		if cfg.Weather.CircuitBreaker.Failures == 0 {
			cfg.Weather.CircuitBreaker.Failures = defaultBreakerFailures
		}
		if cfg.Weather.CircuitBreaker.Cooldown.Duration == 0 {
			cfg.Weather.CircuitBreaker.Cooldown.Duration = defaultBreakerCooldown
		}
	}
	if cfg.Composer.Mode == "" {
		cfg.Composer.Mode = "structured"
	}
	if cfg.Composer.NarrateWindow == 0 {
		cfg.Composer.NarrateWindow = defaultNarrateWindow
	}
	if cfg.Composer.GeneralWindow == 0 {
		cfg.Composer.GeneralWindow = defaultGeneralWindow
	}
	if cfg.Session.MaxMessages == 0 {
		cfg.Session.MaxMessages = defaultMaxMessages
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
}

// Location returns the configured display timezone, or time.Local.
func (c *Config) Location() *time.Location {
	if c.Composer.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Composer.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.LLM.Provider {
	case "gemini":
		if cfg.LLM.APIKey == "" {
			errs = append(errs, fmt.Errorf("llm.api_key is required for the gemini provider (or set %s)", EnvGeminiKey))
		}
	case "gemini-cli":
	case "ask":
		if cfg.LLM.Endpoint == "" {
			errs = append(errs, errors.New("llm.endpoint is required for the ask provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be \"gemini\", \"gemini-cli\" or \"ask\", got %q", cfg.LLM.Provider))
	}
	if cfg.LLM.Timeout.Duration < 0 {
		errs = append(errs, errors.New("llm.timeout must not be negative"))
	}

	switch cfg.Weather.Provider {
	case "openweathermap", "tomorrow":
	default:
		errs = append(errs, fmt.Errorf("weather.provider must be \"openweathermap\" or \"tomorrow\", got %q", cfg.Weather.Provider))
	}
	if cfg.Weather.APIKey == "" {
		errs = append(errs, fmt.Errorf("weather.api_key is required (or set %s)", EnvWeatherKey))
	}
	switch cfg.Weather.Units {
	case "metric", "imperial", "standard":
	default:
		errs = append(errs, fmt.Errorf("weather.units must be \"metric\", \"imperial\" or \"standard\", got %q", cfg.Weather.Units))
	}
	if cfg.Weather.Timeout.Duration < 0 {
		errs = append(errs, errors.New("weather.timeout must not be negative"))
	}

	switch cfg.Composer.Mode {
	case "structured", "narrated":
	default:
		errs = append(errs, fmt.Errorf("composer.mode must be \"structured\" or \"narrated\", got %q", cfg.Composer.Mode))
	}
	if cfg.Composer.NarrateWindow < 0 || cfg.Composer.GeneralWindow < 0 {
		errs = append(errs, errors.New("composer history windows must not be negative"))
	}
	if cfg.Composer.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Composer.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("composer.timezone: %w", err))
		}
	}

	if cfg.Session.MaxMessages < 0 {
		errs = append(errs, errors.New("session.max_messages must not be negative"))
	}

	return errors.Join(errs...)
}
