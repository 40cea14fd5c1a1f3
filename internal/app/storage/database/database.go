package database

import (
	"context"
	"fmt"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// pgxPool is the subset of *pgxpool.Pool the storage needs; pgxmock
// satisfies it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

const DefaultLimit = 100

// DatabaseStorage keeps at most limit of the newest records; older rows
// are pruned on every save.
type DatabaseStorage struct {
	pool  pgxPool
	limit int
}

func NewPostgresStorage(ctx context.Context, dsn string, limit int) (*DatabaseStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := newWithPool(pool, limit)
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func newWithPool(pool pgxPool, limit int) *DatabaseStorage {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &DatabaseStorage{pool: pool, limit: limit}
}

func (db *DatabaseStorage) migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	logrus.Debug("History table ready")
	return nil
}

func (db *DatabaseStorage) SaveRecord(ctx context.Context, record models.HistoryRecord) error {
	classes := record.Classes
	if classes == nil {
		classes = []string{}
	}
	_, err := db.pool.Exec(ctx, insertRecordQuery,
		record.ID, record.Length, classes, record.Outcome, int64(record.Duration), record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}

	tag, err := db.pool.Exec(ctx, pruneQuery, db.limit)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		logrus.WithField("deleted", n).Debug("Pruned old history records")
	}
	return nil
}

func (db *DatabaseStorage) ListRecords(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = db.pool.Query(ctx, selectRecentQuery, limit)
	} else {
		rows, err = db.pool.Query(ctx, selectAllQuery)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := make([]models.HistoryRecord, 0)
	for rows.Next() {
		var (
			rec        models.HistoryRecord
			durationNS int64
		)
		if err := rows.Scan(&rec.ID, &rec.Length, &rec.Classes, &rec.Outcome, &durationNS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec.Duration = time.Duration(durationNS)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

func (db *DatabaseStorage) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DatabaseStorage) Close() error {
	db.pool.Close()
	return nil
}
