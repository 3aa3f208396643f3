package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
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

// withStore opens the catalog store and a configured logger for one command
// invocation and closes the store when the command returns.
func (c *commandContext) withStore(fn func(context.Context, *config.Config, *catalog.Store, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(context.Background(), cfg, store, logger)
}

// allowedVenueFields translates the config override into the workflow's
// allow-list, nil meaning the built-in defaults.
func allowedVenueFields(cfg *config.Config) []string {
	if len(cfg.Enrichment.AllowedVenueFields) == 0 {
		return nil
	}
	return cfg.Enrichment.AllowedVenueFields
}
