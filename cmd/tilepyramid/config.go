package main

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"
)

// config holds the validated, defaulted set of parameters a pyramid run
// needs, gathered from CLI flags: defaulted first, then validated as a
// whole struct rather than field-by-field in the CLI action.
type config struct {
	Source         string  `validate:"required"`
	MaxZoom        uint8   `validate:"required,min=1" default:"14"`
	IndexMaxZoom   uint8   `validate:"min=0" default:"5"`
	IndexMaxPoints int     `validate:"min=0" default:"100000"`
	Tolerance      float64 `validate:"min=0" default:"3"`
	Target         string  `validate:"omitempty"`
	Debug          bool
}

// configFromContext builds a config from CLI flags actually set by the
// caller, applies defaults to anything left zero, and validates the
// result before the pyramid is built.
func configFromContext(c *cli.Context) (*config, error) {
	cfg := &config{
		Source: c.String(SOURCE),
		Target: c.String(TARGET),
		Debug:  c.Bool(DEBUG),
	}
	if c.IsSet(MAXZOOM) {
		cfg.MaxZoom = uint8(c.Int(MAXZOOM))
	}
	if c.IsSet(INDEXMAXZOOM) {
		cfg.IndexMaxZoom = uint8(c.Int(INDEXMAXZOOM))
	}
	if c.IsSet(INDEXMAXPOINTS) {
		cfg.IndexMaxPoints = c.Int(INDEXMAXPOINTS)
	}
	if c.IsSet(TOLERANCE) {
		cfg.Tolerance = c.Float64(TOLERANCE)
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
