package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/torna-mcp/internal/config"
	logpkg "github.com/kailas-cloud/torna-mcp/internal/logger"
	"github.com/kailas-cloud/torna-mcp/internal/metrics"
	"github.com/kailas-cloud/torna-mcp/internal/transport/torna"
	"github.com/kailas-cloud/torna-mcp/internal/usecase/apidocs"
	healthuc "github.com/kailas-cloud/torna-mcp/internal/usecase/health"
	"github.com/kailas-cloud/torna-mcp/internal/version"
)

// app is the composition root shared by every command.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	docs   *apidocs.Service
	health *healthuc.Service
}

func newApp(env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:   cfg.Logging.Level,
		Service: "torna-mcp",
		Version: version.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("starting torna-mcp",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("project_id", cfg.Torna.ProjectID),
	)

	// Registered explicitly: the upstream client records into these.
	metrics.RegisterUpstreamMetrics()

	client, err := torna.New(torna.Config{
		BaseURL:   cfg.Torna.APIURL,
		Token:     cfg.Torna.APIToken,
		Origin:    cfg.Torna.Origin,
		Referer:   cfg.Torna.Referer,
		UserAgent: cfg.Torna.UserAgent,
		Timeout:   cfg.Torna.Timeout(),
		Logger:    logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create torna client: %w", err)
	}

	return &app{
		env:    env,
		cfg:    cfg,
		logger: logger,
		docs: apidocs.New(client, apidocs.Config{
			DefaultProjectID: cfg.Torna.ProjectID,
			DefaultLimit:     cfg.Torna.DefaultLimit,
		}, logger),
		health: healthuc.New(client, cfg.Torna.ProjectID),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
