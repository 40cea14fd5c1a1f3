package storage

import (
	"context"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/AlenaMolokova/passgen/internal/app/storage/database"
	"github.com/AlenaMolokova/passgen/internal/app/storage/file"
	"github.com/AlenaMolokova/passgen/internal/app/storage/memory"
	"github.com/AlenaMolokova/passgen/internal/app/storage/redis"
	"github.com/sirupsen/logrus"
)

const (
	KindDatabase = "database"
	KindRedis    = "redis"
	KindFile     = "file"
	KindMemory   = "memory"
)

// Options selects the history backend. Backends are tried in the order
// database, redis, file; memory is the final fallback.
type Options struct {
	DatabaseDSN     string
	RedisAddress    string
	RedisDB         int
	FileStoragePath string
	Limit           int
}

type Storage struct {
	impl models.HistoryStorage
	kind string
}

func NewStorage(ctx context.Context, opts Options) (*Storage, error) {
	if opts.DatabaseDSN != "" {
		dbStorage, err := database.NewPostgresStorage(ctx, opts.DatabaseDSN, opts.Limit)
		if err == nil {
			logrus.Info("Используется хранилище PostgreSQL")
			return &Storage{impl: dbStorage, kind: KindDatabase}, nil
		}
		logrus.WithError(err).Warn("Не удалось использовать PostgreSQL, переходим к следующему варианту")
	}

	if opts.RedisAddress != "" {
		redisStorage := redis.NewRedisStorage(opts.RedisAddress, opts.RedisDB, opts.Limit)
		err := redisStorage.Ping(ctx)
		if err == nil {
			logrus.WithField("addr", opts.RedisAddress).Info("Используется хранилище Redis")
			return &Storage{impl: redisStorage, kind: KindRedis}, nil
		}
		if closeErr := redisStorage.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Не удалось закрыть пул соединений Redis")
		}
		logrus.WithError(err).Warn("Не удалось использовать Redis, переходим к следующему варианту")
	}

	if opts.FileStoragePath != "" {
		fileStorage, err := file.NewFileStorage(opts.FileStoragePath, opts.Limit)
		if err == nil {
			logrus.WithField("file", opts.FileStoragePath).Info("Используется файловое хранилище")
			return &Storage{impl: fileStorage, kind: KindFile}, nil
		}
		logrus.WithError(err).Warn("Не удалось использовать файловое хранилище, переходим к памяти")
	}

	logrus.Info("Используется хранилище в памяти")
	return &Storage{impl: memory.NewMemoryStorage(opts.Limit), kind: KindMemory}, nil
}

// Kind reports which backend was selected.
func (s *Storage) Kind() string {
	return s.kind
}

func (s *Storage) AsHistorySaver() models.HistorySaver {
	return s.impl
}

func (s *Storage) AsHistoryFetcher() models.HistoryFetcher {
	return s.impl
}

func (s *Storage) AsPinger() models.Pinger {
	return s.impl
}

func (s *Storage) Close() error {
	return s.impl.Close()
}
