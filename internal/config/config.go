package config

import (
	"sync/atomic"

	"github.com/vzahanych/climate-outlook/internal/climate"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string            `mapstructure:"version"`
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Provider    ProviderConfig    `mapstructure:"provider"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Enhancement EnhancementConfig `mapstructure:"enhancement"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	Host         string   `mapstructure:"host"`
	ReadTimeout  int      `mapstructure:"read_timeout"`
	WriteTimeout int      `mapstructure:"write_timeout"`
	IdleTimeout  int      `mapstructure:"idle_timeout"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// ProviderConfig describes the NASA POWER daily point endpoint.
type ProviderConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Parameters   string        `mapstructure:"parameters"`
	Community    string        `mapstructure:"community"`
	Start        string        `mapstructure:"start"`
	End          string        `mapstructure:"end"`
	Format       string        `mapstructure:"format"`
	Timeout      int           `mapstructure:"timeout"`
	MissingValue float64       `mapstructure:"missing_value"`
	Breaker      BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxRequests         uint32 `mapstructure:"max_requests"`
	Interval            int    `mapstructure:"interval"`
	Timeout             int    `mapstructure:"timeout"`
	ConsecutiveFailures uint32 `mapstructure:"consecutive_failures"`
}

type AnalysisConfig struct {
	WindowHalfDays  int     `mapstructure:"window_half_days"`
	RainThresholdMM float64 `mapstructure:"rain_threshold_mm"`
	WindSpeedFactor float64 `mapstructure:"wind_speed_factor"`
	DecimalPlaces   int     `mapstructure:"decimal_places"`
}

// Settings converts the analysis section into aggregation settings.
func (c AnalysisConfig) Settings() climate.Settings {
	return climate.Settings{
		WindowHalfDays:  c.WindowHalfDays,
		RainThresholdMM: c.RainThresholdMM,
		WindSpeedFactor: c.WindSpeedFactor,
		DecimalPlaces:   c.DecimalPlaces,
	}
}

// EnhancementConfig points at an OpenAI-compatible chat completions API.
type EnhancementConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8001,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 90,
			IdleTimeout:  60,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Provider: ProviderConfig{
			BaseURL:      "https://power.larc.nasa.gov/api/temporal/daily/point",
			Parameters:   "T2M,T2M_MAX,T2M_MIN,PRECTOTCORR,RH2M,WS10M,WS10M_MAX",
			Community:    "RE",
			Start:        "19840101",
			End:          "20241231",
			Format:       "CSV",
			Timeout:      30,
			MissingValue: climate.DefaultMissingValue,
			Breaker: BreakerConfig{
				MaxRequests:         1,
				Interval:            60,
				Timeout:             30,
				ConsecutiveFailures: 5,
			},
		},
		Analysis: AnalysisConfig{
			WindowHalfDays:  climate.DefaultWindowHalfDays,
			RainThresholdMM: climate.DefaultRainThresholdMM,
			WindSpeedFactor: climate.DefaultWindSpeedFactor,
			DecimalPlaces:   climate.DefaultDecimalPlaces,
		},
		Enhancement: EnhancementConfig{
			Enabled: false,
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
			APIKey:  "",
			Model:   "gemini-2.5-flash",
			Timeout: 45,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
