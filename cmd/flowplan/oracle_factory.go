package main

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sirupsen/logrus"

	"github.com/ShayCichocki/flowplan/internal/api"
	"github.com/ShayCichocki/flowplan/internal/config"
	"github.com/ShayCichocki/flowplan/internal/oracle"
	"github.com/ShayCichocki/flowplan/internal/pipeline"
	"github.com/ShayCichocki/flowplan/internal/render"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

// newOracle builds the configured oracle. A nil Oracle with a nil error
// means the heuristic engines run alone.
func newOracle(c *config.Config, log logrus.FieldLogger) (oracle.Oracle, error) {
	clientCfg := api.ClientConfig{
		Model:            anthropic.Model(c.Oracle.Model),
		MaxTokens:        c.Oracle.MaxTokens,
		MaxResponseBytes: c.Oracle.MaxResponseBytes,
	}

	switch c.Oracle.Provider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderBedrock:
		clientCfg.UseAWSBedrock = true
		clientCfg.AWSRegion = c.Oracle.AWSRegion
		clientCfg.AWSProfile = c.Oracle.AWSProfile
	case config.ProviderAnthropic:
		key, err := config.GetAPIKey(c)
		if errors.Is(err, config.ErrNoAPIKey) {
			log.Info("No API key configured; oracle disabled")
			return nil, nil
		}
		if err := config.ValidateAPIKey(key); err != nil {
			log.WithError(err).Warn("API key looks unusual; trying it anyway")
		}
		clientCfg.APIKey = key
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", c.Oracle.Provider)
	}

	client, err := api.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	log.WithFields(logrus.Fields{
		"provider": c.Oracle.Provider,
		"model":    client.Model(),
	}).Debug("Oracle configured")
	return api.NewRunner(client), nil
}

// serviceOptions are per-command overrides of the configured defaults.
type serviceOptions struct {
	noOracle  bool
	direction string
}

// newService wires config, oracle and overrides into a pipeline.Service.
func newService(c *config.Config, log logrus.FieldLogger, opts serviceOptions) (*pipeline.Service, error) {
	dirName := c.Render.Direction
	if opts.direction != "" {
		dirName = opts.direction
	}
	dir, err := render.ParseDirection(dirName)
	if err != nil {
		return nil, err
	}
	granularity, err := models.ParseGranularity(c.Decompose.Granularity)
	if err != nil {
		return nil, err
	}

	var o oracle.Oracle
	if !opts.noOracle {
		if o, err = newOracle(c, log); err != nil {
			return nil, err
		}
	}

	return pipeline.New(pipeline.Config{
		Oracle:        o,
		OracleTimeout: c.Oracle.Timeout,
		Granularity:   granularity,
		Direction:     dir,
	}), nil
}
