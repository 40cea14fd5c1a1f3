package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	records   []models.HistoryRecord
	err       error
	lastLimit int
}

func (m *mockLister) History(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

type mockStats struct {
	resp models.StatsResponse
}

func (m *mockStats) Stats() models.StatsResponse {
	return m.resp
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

func sampleRecords(n int) []models.HistoryRecord {
	records := make([]models.HistoryRecord, n)
	base := time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC)
	for i := range records {
		records[i] = models.HistoryRecord{
			ID:        "rec-" + string(rune('a'+i)),
			Length:    16,
			Classes:   []string{"lowercase", "digit"},
			Outcome:   models.OutcomeOK,
			Duration:  time.Millisecond,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return records
}

func TestHandleHistory(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		lister        *mockLister
		expectedCode  int
		expectedLimit int
		expectedCount int
	}{
		{
			name:          "Default limit",
			query:         "",
			lister:        &mockLister{records: sampleRecords(3)},
			expectedCode:  http.StatusOK,
			expectedLimit: DefaultHistoryLimit,
			expectedCount: 3,
		},
		{
			name:          "Explicit limit",
			query:         "?limit=2",
			lister:        &mockLister{records: sampleRecords(5)},
			expectedCode:  http.StatusOK,
			expectedLimit: 2,
			expectedCount: 2,
		},
		{
			name:         "Empty history",
			lister:       &mockLister{},
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Non-numeric limit",
			query:        "?limit=abc",
			lister:       &mockLister{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Zero limit",
			query:        "?limit=0",
			lister:       &mockLister{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Limit too large",
			query:        "?limit=1001",
			lister:       &mockLister{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Storage error",
			lister:       &mockLister{err: errors.New("connection reset")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistoryHandler(tt.lister)
			req := httptest.NewRequest(http.MethodGet, "/api/history"+tt.query, nil)
			w := httptest.NewRecorder()

			h.HandleHistory(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode != http.StatusOK {
				return
			}
			assert.Equal(t, tt.expectedLimit, tt.lister.lastLimit)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp HistoryResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.expectedCount, resp.Count)
			assert.Len(t, resp.Records, tt.expectedCount)
		})
	}
}

func TestHandleStats(t *testing.T) {
	stats := &mockStats{resp: models.StatsResponse{
		Total:    5,
		Outcomes: map[string]int64{models.OutcomeOK: 4, models.OutcomeTimeout: 1},
	}}
	h := NewStatsHandler(stats)
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, stats.resp, resp)
}

func TestHandlePing(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Storage healthy",
			expectedCode: http.StatusOK,
			expectedBody: "History storage is OK",
		},
		{
			name:         "Storage down",
			err:          errors.New("database is down"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: "History storage unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPingHandler(&mockPinger{err: tt.err})
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			w := httptest.NewRecorder()

			h.HandlePing(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Equal(t, tt.expectedBody, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestAdminHandler_NeverLeaksPasswords(t *testing.T) {
	records := sampleRecords(2)
	h := NewAdminHandler(&mockLister{records: records}, &mockStats{}, &mockPinger{})
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()

	h.HandleHistory(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var raw struct {
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	require.Len(t, raw.Records, 2)
	for _, rec := range raw.Records {
		assert.NotContains(t, rec, "password")
		assert.Contains(t, rec, "outcome")
	}
}
