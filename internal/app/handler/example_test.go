package handler_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/handler"
	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/gorilla/mux"
)

// Примеры в этом файле демонстрируют использование административного API.
// Для работы с реальными данными необходимо заменить моки на сервис генерации.

// MockHistory - мок журнала генераций
type MockHistory struct{}

func (m *MockHistory) History(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	return []models.HistoryRecord{
		{
			ID:        "5f0e1b7c-3d4a-4e8b-9c1d-2a6f7b8c9d0e",
			Length:    16,
			Classes:   []string{"uppercase", "digit"},
			Outcome:   models.OutcomeOK,
			Duration:  3 * time.Millisecond,
			CreatedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		},
	}, nil
}

// MockStats - мок счётчиков исходов
type MockStats struct{}

func (m *MockStats) Stats() models.StatsResponse {
	return models.StatsResponse{Total: 3, Outcomes: map[string]int64{"ok": 2, "timeout": 1}}
}

// MockPinger - мок проверки хранилища
type MockPinger struct{}

func (m *MockPinger) Ping(ctx context.Context) error {
	return nil
}

// ExampleHistoryHandler_HandleHistory демонстрирует получение журнала генераций.
func ExampleHistoryHandler_HandleHistory() {
	h := handler.NewHistoryHandler(&MockHistory{})

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil)
	w := httptest.NewRecorder()
	h.HandleHistory(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	fmt.Println("Статус:", resp.StatusCode)
	fmt.Print(string(body))

	// Output:
	// Статус: 200
	// {"count":1,"records":[{"id":"5f0e1b7c-3d4a-4e8b-9c1d-2a6f7b8c9d0e","length":16,"classes":["uppercase","digit"],"outcome":"ok","duration":3000000,"created_at":"2026-10-18T12:00:00Z"}]}
}

// ExampleStatsHandler_HandleStats демонстрирует получение счётчиков исходов.
func ExampleStatsHandler_HandleStats() {
	h := handler.NewStatsHandler(&MockStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	fmt.Println("Статус:", w.Code)
	fmt.Print(w.Body.String())

	// Output:
	// Статус: 200
	// {"total":3,"outcomes":{"ok":2,"timeout":1}}
}

// ExampleAdminHandler демонстрирует подключение обработчиков к маршрутизатору.
func ExampleAdminHandler() {
	h := handler.NewAdminHandler(&MockHistory{}, &MockStats{}, &MockPinger{})

	r := mux.NewRouter()
	r.HandleFunc("/ping", h.HandlePing).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", h.HandleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/history", h.HandleHistory).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	fmt.Println("Статус:", w.Code)
	fmt.Println(w.Body.String())

	// Output:
	// Статус: 200
	// History storage is OK
}
