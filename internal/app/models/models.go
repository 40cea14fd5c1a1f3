package models

import (
	"context"
	"time"
)

const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeCancelled   = "cancelled"
	OutcomeEnvironment = "environment"
	OutcomeError       = "error"
	OutcomeInvalid     = "invalid"
)

// HistoryRecord describes one finished generate call. The password itself
// is never part of the record.
type HistoryRecord struct {
	ID        string        `json:"id"`
	Length    int           `json:"length"`
	Classes   []string      `json:"classes"`
	Outcome   string        `json:"outcome"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

type StatsResponse struct {
	Total    int64            `json:"total"`
	Outcomes map[string]int64 `json:"outcomes"`
}

type HistorySaver interface {
	SaveRecord(ctx context.Context, record HistoryRecord) error
}

type HistoryFetcher interface {
	ListRecords(ctx context.Context, limit int) ([]HistoryRecord, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HistoryStorage interface {
	HistorySaver
	HistoryFetcher
	Pinger
	Close() error
}

type PasswordGenerator interface {
	Generate(ctx context.Context, opts GenerationOptions, timeout time.Duration) (string, error)
}

type StatsProvider interface {
	Stats() StatsResponse
}
