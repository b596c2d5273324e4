package cli

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/outfitting-go/internal/adapters/catalog"
	"github.com/andrescamacho/outfitting-go/internal/adapters/metrics"
	"github.com/andrescamacho/outfitting-go/internal/adapters/persistence"
	"github.com/andrescamacho/outfitting-go/internal/application/common"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/commands"
	"github.com/andrescamacho/outfitting-go/internal/application/outfitting/queries"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/database"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/logging"
)

// app holds everything a command needs: configuration, logger, catalog and the
// mediator with every handler registered
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	catalog  *catalog.Catalog
	db       *gorm.DB
	mediator common.Mediator
}

// loadConfig loads the configuration and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
		cfg.Catalog.Format = config.FormatFromPath(catalogPath)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newApp wires the application. The saved build store is only opened when
// withStore is set, so decoding works without a database.
func newApp(ctx context.Context, withStore bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	a.catalog, err = catalog.FromConfig(common.WithLogger(ctx, logger), cfg.Catalog)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if withStore {
		a.db, err = database.NewConnection(&cfg.Database)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := database.AutoMigrate(a.db); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if err := a.initMediator(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) initMediator() error {
	med := common.NewMediator()

	// Register middleware (must be done before sending)
	if a.cfg.Metrics.Enabled {
		metrics.InitRegistry(a.cfg.Metrics.Namespace)

		commandCollector := metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		outfittingCollector := metrics.NewOutfittingMetricsCollector()
		if err := outfittingCollector.Register(); err != nil {
			return fmt.Errorf("failed to register build metrics: %w", err)
		}
		metrics.SetGlobalOutfittingCollector(outfittingCollector)

		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))
	}

	factory := commands.NewShipFactory(a.catalog, a.catalog, commands.Pricing{
		ShipMultiplier:   a.cfg.Pricing.ShipMultiplier,
		ModuleMultiplier: a.cfg.Pricing.ModuleMultiplier,
	})

	register := []error{
		common.RegisterHandler[*commands.DecodeBuildCommand](med, commands.NewDecodeBuildHandler(factory)),
		common.RegisterHandler[*commands.OptimizeBuildCommand](med, commands.NewOptimizeBuildHandler(factory)),
		common.RegisterHandler[*queries.ListShipsQuery](med, queries.NewListShipsHandler(a.catalog)),
	}

	if a.db != nil {
		buildRepo := persistence.NewGormBuildRepository(a.db)
		register = append(register,
			common.RegisterHandler[*commands.SaveBuildCommand](med,
				commands.NewSaveBuildHandler(factory, buildRepo, shared.NewRealClock())),
			common.RegisterHandler[*commands.DeleteBuildCommand](med, commands.NewDeleteBuildHandler(buildRepo)),
			common.RegisterHandler[*commands.RenameBuildCommand](med, commands.NewRenameBuildHandler(buildRepo)),
			common.RegisterHandler[*queries.GetSavedBuildQuery](med, queries.NewGetSavedBuildHandler(buildRepo)),
			common.RegisterHandler[*queries.ListSavedBuildsQuery](med, queries.NewListSavedBuildsHandler(buildRepo)),
		)
	}

	if err := errors.Join(register...); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	a.mediator = med
	return nil
}

// send dispatches a request with the app's logger in the context
func (a *app) send(ctx context.Context, request common.Request) (common.Response, error) {
	return a.mediator.Send(common.WithLogger(ctx, a.logger), request)
}

// Close flushes metrics and releases the database and log file
func (a *app) Close() error {
	var errs []error
	if a.cfg.Metrics.Enabled && metrics.IsEnabled() {
		errs = append(errs, metrics.WriteTextfile(a.cfg.Metrics.TextfilePath))
		metrics.ResetRegistry()
	}
	if a.db != nil {
		errs = append(errs, database.Close(a.db))
		a.db = nil
	}
	if a.logger != nil {
		errs = append(errs, a.logger.Close())
	}
	return errors.Join(errs...)
}

// withApp runs fn against a freshly wired app and closes it afterwards
func withApp(ctx context.Context, withStore bool, fn func(a *app) error) (err error) {
	a, err := newApp(ctx, withStore)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}
