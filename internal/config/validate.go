package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBART(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBART() error {
	if c.BART.Binary == "" {
		return errors.New("bart.binary must be set")
	}
	if c.BART.TimeoutSeconds < 0 {
		return errors.New("bart.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateDefaults() error {
	d := c.Defaults
	if d.Threshold < 0 {
		return fmt.Errorf("defaults.threshold must be >= 0, got %v", d.Threshold)
	}
	if d.Crop < 0 {
		return fmt.Errorf("defaults.crop must be >= 0, got %v", d.Crop)
	}
	if d.KernelSize < 1 {
		return fmt.Errorf("defaults.kernel_size must be >= 1, got %d", d.KernelSize)
	}
	if d.CalibrationSize < 1 {
		return fmt.Errorf("defaults.calibration_size must be >= 1, got %d", d.CalibrationSize)
	}
	if d.Maps < 1 {
		return fmt.Errorf("defaults.maps must be >= 1, got %d", d.Maps)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
