package app

import (
	"context"
	"net/http"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/config"
	"github.com/AlenaMolokova/passgen/internal/app/coordinator"
	"github.com/AlenaMolokova/passgen/internal/app/handler"
	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/AlenaMolokova/passgen/internal/app/router"
	"github.com/AlenaMolokova/passgen/internal/app/service"
	"github.com/AlenaMolokova/passgen/internal/app/storage"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type App struct {
	Service     service.PasswordService
	Handler     *handler.AdminHandler
	coordinator *coordinator.Coordinator
	storage     *storage.Storage
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	historyStorage, err := storage.NewStorage(ctx, storage.Options{
		DatabaseDSN:     cfg.DatabaseDSN,
		RedisAddress:    cfg.RedisAddress,
		RedisDB:         cfg.RedisDB,
		FileStoragePath: cfg.FileStoragePath,
		Limit:           cfg.HistoryLimit,
	})
	if err != nil {
		return nil, err
	}

	passwordCoordinator := coordinator.New(coordinator.Config{
		Workers:       cfg.Workers,
		SliceDuration: cfg.SliceDuration,
		PoolSize:      cfg.RandomPoolSize,
	})

	passwordService := service.NewService(
		passwordCoordinator,
		historyStorage.AsHistorySaver(),
		historyStorage.AsHistoryFetcher(),
		historyStorage.AsPinger(),
		cfg.Timeout,
	)

	adminHandler := handler.NewAdminHandler(
		passwordService,
		passwordService,
		passwordService,
	)

	return &App{
		Service:     passwordService,
		Handler:     adminHandler,
		coordinator: passwordCoordinator,
		storage:     historyStorage,
	}, nil
}

// Routes returns the admin API with its middleware chain.
func (a *App) Routes() http.Handler {
	return router.NewRouter(a.Handler).InitRoutes()
}

func (a *App) StorageKind() string {
	return a.storage.Kind()
}

func (a *App) Workers() int {
	return a.coordinator.Workers()
}

// GenerateTestLoad issues count sequential generations with the default
// options and returns how many succeeded. Used by the profiler.
func (a *App) GenerateTestLoad(ctx context.Context, count int) (int, time.Duration) {
	start := time.Now()
	ok := 0
	opts := models.DefaultOptions()
	opts.MinDigitProportion = 0.2
	opts.MinSymbolProportion = 0.1
	opts.MaxCaseVariance = 0.5
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		if _, err := a.Service.Generate(ctx, opts, 0); err != nil {
			logrus.WithError(err).Debug("Test load generation failed")
			continue
		}
		ok++
	}
	return ok, time.Since(start)
}

func (a *App) Close() error {
	return multierr.Combine(
		a.coordinator.Close(),
		a.storage.Close(),
	)
}
