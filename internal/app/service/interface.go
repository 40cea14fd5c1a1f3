package service

import (
	"context"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
)

type PasswordService interface {
	Generate(ctx context.Context, opts models.GenerationOptions, timeout time.Duration) (string, error)
	GenerateBatch(ctx context.Context, opts models.GenerationOptions, timeout time.Duration, count int) ([]string, error)
	History(ctx context.Context, limit int) ([]models.HistoryRecord, error)
	Stats() models.StatsResponse
	Ping(ctx context.Context) error
}
