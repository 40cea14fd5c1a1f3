package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/sirupsen/logrus"
)

type Service struct {
	generator models.PasswordGenerator
	saver     models.HistorySaver
	fetcher   models.HistoryFetcher
	pinger    models.Pinger
	outcomes  cmap.ConcurrentMap
	timeout   time.Duration
	now       func() time.Time
}

var _ PasswordService = (*Service)(nil)

func NewService(generator models.PasswordGenerator, saver models.HistorySaver, fetcher models.HistoryFetcher, pinger models.Pinger, timeout time.Duration) *Service {
	return &Service{
		generator: generator,
		saver:     saver,
		fetcher:   fetcher,
		pinger:    pinger,
		outcomes:  cmap.New(),
		timeout:   timeout,
		now:       time.Now,
	}
}

// Generate validates opts, asks the generator for a password and records
// the outcome. A zero timeout falls back to the service default.
func (s *Service) Generate(ctx context.Context, opts models.GenerationOptions, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = s.timeout
	}
	start := s.now()

	if err := opts.Validate(); err != nil {
		logrus.WithError(err).Warn("Rejected generation options")
		s.record(ctx, opts, err, start)
		return "", err
	}

	password, err := s.generator.Generate(ctx, opts, timeout)
	s.record(ctx, opts, err, start)
	if err != nil {
		return "", err
	}
	return password, nil
}

// GenerateBatch issues count generate calls one after another and stops at
// the first failure.
func (s *Service) GenerateBatch(ctx context.Context, opts models.GenerationOptions, timeout time.Duration, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	passwords := make([]string, 0, count)
	for i := 0; i < count; i++ {
		password, err := s.Generate(ctx, opts, timeout)
		if err != nil {
			return passwords, fmt.Errorf("password %d of %d: %w", i+1, count, err)
		}
		passwords = append(passwords, password)
	}
	return passwords, nil
}

func (s *Service) History(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	records, err := s.fetcher.ListRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории генераций: %w", err)
	}
	return records, nil
}

func (s *Service) Stats() models.StatsResponse {
	resp := models.StatsResponse{Outcomes: make(map[string]int64)}
	for outcome, v := range s.outcomes.Items() {
		n := v.(int64)
		resp.Outcomes[outcome] = n
		resp.Total += n
	}
	return resp
}

func (s *Service) Ping(ctx context.Context) error {
	return s.pinger.Ping(ctx)
}

func (s *Service) record(ctx context.Context, opts models.GenerationOptions, err error, start time.Time) {
	outcome := models.OutcomeOf(err)
	s.outcomes.Upsert(outcome, int64(1), func(exist bool, valueInMap, newValue interface{}) interface{} {
		if !exist {
			return newValue
		}
		return valueInMap.(int64) + 1
	})

	rec := models.HistoryRecord{
		ID:        uuid.New().String(),
		Length:    opts.PasswordLength,
		Classes:   opts.Classes(),
		Outcome:   outcome,
		Duration:  s.now().Sub(start),
		CreatedAt: start.UTC(),
	}

	entry := logrus.WithFields(logrus.Fields{
		"record_id": rec.ID,
		"length":    rec.Length,
		"outcome":   outcome,
		"duration":  rec.Duration.String(),
	})
	if saveErr := s.saver.SaveRecord(context.WithoutCancel(ctx), rec); saveErr != nil {
		entry.WithError(saveErr).Error("Failed to save generation history")
		return
	}
	entry.Info("Password generation finished")
}
