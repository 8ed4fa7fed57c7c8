package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/vzahanych/climate-outlook/internal/climate"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Validate rejects settings the service cannot run with. It is called once
// at startup so that request handling never sees a broken window or timeout.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	for _, origin := range c.Server.CORSOrigins {
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || strings.Contains(origin, "*") {
			errs = append(errs, fmt.Errorf("server.cors_origins: %q is not an http(s) origin", origin))
		}
	}

	if err := climate.ValidateHalfWidth(c.Analysis.WindowHalfDays); err != nil {
		errs = append(errs, fmt.Errorf("analysis.window_half_days: %w", err))
	}
	if c.Analysis.RainThresholdMM < 0 {
		errs = append(errs, fmt.Errorf("analysis.rain_threshold_mm must not be negative"))
	}
	if c.Analysis.WindSpeedFactor <= 0 {
		errs = append(errs, fmt.Errorf("analysis.wind_speed_factor must be positive"))
	}
	if c.Analysis.DecimalPlaces < 0 || c.Analysis.DecimalPlaces > 10 {
		errs = append(errs, fmt.Errorf("analysis.decimal_places must be between 0 and 10"))
	}

	if c.Provider.BaseURL == "" {
		errs = append(errs, fmt.Errorf("provider.base_url is required"))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.timeout must be positive"))
	}

	if c.Enhancement.Enabled {
		if c.Enhancement.APIKey == "" {
			errs = append(errs, fmt.Errorf("enhancement.api_key is required when enhancement is enabled"))
		}
		if c.Enhancement.Model == "" {
			errs = append(errs, fmt.Errorf("enhancement.model is required when enhancement is enabled"))
		}
		if c.Enhancement.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("enhancement.timeout must be positive"))
		}
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
