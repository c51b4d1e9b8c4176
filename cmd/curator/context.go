package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"curator/internal/config"
	"curator/internal/doistore"
	"curator/internal/logging"
	"curator/internal/services/people"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		opts := logging.Options{}
		if cfg, err := c.ensureConfig(); err == nil {
			opts.Level = cfg.Logging.Level
			opts.Format = cfg.Logging.Format
		}
		if c.verboseFlag != nil && *c.verboseFlag {
			opts.Level = "debug"
		}
		c.logger = logging.New(opts)
	})
	return c.logger
}

func (c *commandContext) openStore() (*doistore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return doistore.Open(cfg)
}

func (c *commandContext) newDirectory() (*people.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Directory.TimeoutSeconds) * time.Second
	return people.New(cfg.Directory.BaseURL, cfg.Directory.APIKey, timeout)
}
