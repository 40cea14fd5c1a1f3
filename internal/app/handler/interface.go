package handler

import (
	"context"
	"net/http"

	"github.com/AlenaMolokova/passgen/internal/app/models"
)

// HistoryLister is satisfied by the password service.
type HistoryLister interface {
	History(ctx context.Context, limit int) ([]models.HistoryRecord, error)
}

type Admin interface {
	HandleHistory(w http.ResponseWriter, r *http.Request)
	HandleStats(w http.ResponseWriter, r *http.Request)
	HandlePing(w http.ResponseWriter, r *http.Request)
}
