package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gstattrade/internal/config"
	"gstattrade/internal/fetcher"
	"gstattrade/internal/files"
	"gstattrade/internal/infrastructure"
	"gstattrade/internal/operations"
	handlers "gstattrade/internal/transport/http"
)

const AppName = "gstat"

// Version is set at build time with -ldflags "-X gstattrade/internal/app.Version=..."
var Version = "dev"

const shutdownTimeout = 5 * time.Second

// Application holds the components shared by every command
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ETLMetrics
	Operations    *operations.Manager
	Archive       *files.Manager

	statusServer *handlers.Server
	fetchOpts    []fetcher.Option
}

// Option configures an Application
type Option func(*Application)

// WithFetcherOptions passes extra options to the fetcher, e.g. a clock.
func WithFetcherOptions(opts ...fetcher.Option) Option {
	return func(a *Application) { a.fetchOpts = append(a.fetchOpts, opts...) }
}

// NewApplication loads configuration from configFile and the environment,
// initializes the global logger and builds the application.
func NewApplication(configFile string) (*Application, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, paths.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds an application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("download_dir", paths.DownloadDir),
		slog.String("archive_dir", paths.ArchiveDir),
		slog.String("database", paths.Database))

	otelCfg := infrastructure.NewOTelConfig(cfg.Telemetry)
	otelCfg.ServiceVersion = Version
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateETLMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Operations:    operations.NewManager(logger, providers.Tracer),
		Archive:       files.NewManager(paths.ArchiveDir, logger),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// StartStatusServer starts the status listener when a metrics address is
// configured. It is a no-op otherwise.
func (a *Application) StartStatusServer() error {
	addr := a.Config.Telemetry.MetricsAddr
	if addr == "" {
		return nil
	}

	router := handlers.NewRouter(handlers.RouterDependencies{
		Health:  handlers.NewHealthHandler(a.Operations, Version, a.Logger),
		Metrics: a.OTelProviders.PrometheusHTTP,
		Logger:  a.Logger,
	})
	a.statusServer = handlers.NewServer(addr, router, a.Logger)
	return a.statusServer.Start()
}

// StatusAddr returns the bound status listener address, or "".
func (a *Application) StatusAddr() string {
	if a.statusServer == nil {
		return ""
	}
	return a.statusServer.Addr()
}

// Execute runs steps as one operation under a fresh run id.
func (a *Application) Execute(ctx context.Context, steps []operations.Step) (*operations.OperationState, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	return a.Operations.Execute(ctx, infrastructure.GetRunID(ctx), steps)
}

// Stop shuts down the status listener and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if a.statusServer != nil {
		if err := a.statusServer.Shutdown(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "Status server shutdown failed", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry shutdown: %w", err)
		}
	}
	return nil
}
