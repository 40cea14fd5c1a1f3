package memory

import (
	"context"
	"sync"

	"github.com/AlenaMolokova/passgen/internal/app/models"
)

const DefaultLimit = 100

// MemoryStorage keeps the most recent generation records in process memory.
type MemoryStorage struct {
	records []models.HistoryRecord
	limit   int
	mu      sync.RWMutex
}

func NewMemoryStorage(limit int) *MemoryStorage {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStorage{
		records: make([]models.HistoryRecord, 0, limit),
		limit:   limit,
	}
}

func (s *MemoryStorage) SaveRecord(ctx context.Context, record models.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == s.limit {
		copy(s.records, s.records[1:])
		s.records = s.records[:len(s.records)-1]
	}
	s.records = append(s.records, record)
	return nil
}

// ListRecords returns up to limit records, newest first. A non-positive
// limit returns everything kept.
func (s *MemoryStorage) ListRecords(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	result := make([]models.HistoryRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.records[i])
	}
	return result, nil
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
