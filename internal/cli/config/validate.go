package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// Validate checks if the configuration is valid. The database URL is not
// checked here: it may still come from an interactive prompt.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("pool_size must be positive, got %d", c.PoolSize))
	}
	if c.DefaultLimit < 1 {
		errs = append(errs, fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit))
	}
	if c.QueryTimeout < 0 {
		errs = append(errs, fmt.Errorf("query_timeout must not be negative, got %s", c.QueryTimeout))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must not be negative, got %s", c.ShutdownTimeout))
	}
	if _, err := jsonapi.ParseKeyCase(c.AttributeCase); err != nil {
		errs = append(errs, err)
	}
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("unknown output format %q (want one of %v)", c.OutputFormat, OutputFormats))
	}

	return errors.Join(errs...)
}

// KeyCase returns the parsed attribute case. Call Validate first.
func (c *Config) KeyCase() jsonapi.KeyCase {
	kc, _ := jsonapi.ParseKeyCase(c.AttributeCase)
	return kc
}
