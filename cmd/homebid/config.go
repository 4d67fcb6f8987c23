package main

import (
	"context"
	"fmt"
	"time"

	"homebid/internal/api"
	"homebid/internal/controller"
	"homebid/internal/metrics"
	"homebid/internal/readcache"
	"homebid/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.BackendURL == "" {
		return nil, fmt.Errorf("set BACKEND_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.CacheTTLSec == 0 {
		c.CacheTTLSec = 60
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(c *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithError(err).WithField("log_level", c.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// newControllers wires the backend client, the read cache and its bus. The
// metrics argument may be nil.
func newControllers(c *types.Config, logger *logrus.Logger, m *metrics.Lifecycle) *controller.Controllers {
	client := api.NewClient(api.ClientConfig{
		BaseURL:    c.BackendURL,
		Timeout:    time.Duration(c.BackendTimeoutSec) * time.Second,
		GetRetries: c.BackendGetRetries,
	}, logger)

	bus := readcache.NewBus()
	cache := readcache.New(time.Duration(c.CacheTTLSec)*time.Second, bus, logger)

	return controller.New(client, cache, bus, logger, m)
}
