package config

import (
	"fmt"
	"os"
	"strings"
)

// toolboxEnvVars lists the variables BART itself consults, newest name first.
var toolboxEnvVars = []string{"BART_TOOLBOX_PATH", "TOOLBOX_PATH"}

func (c *Config) normalize() error {
	if err := c.normalizeBART(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeBART() error {
	c.BART.InstallRoot = strings.TrimSpace(c.BART.InstallRoot)
	if c.BART.InstallRoot == "" {
		for _, key := range toolboxEnvVars {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.BART.InstallRoot = strings.TrimSpace(value)
				break
			}
		}
	}
	var err error
	if c.BART.InstallRoot, err = expandPath(c.BART.InstallRoot); err != nil {
		return fmt.Errorf("bart.install_root: %w", err)
	}
	c.BART.Binary = strings.TrimSpace(c.BART.Binary)
	if c.BART.Binary == "" {
		c.BART.Binary = defaultBinary
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = os.TempDir()
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.MinFreeMiB < 0 {
		c.Paths.MinFreeMiB = 0
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
