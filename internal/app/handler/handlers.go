package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/sirupsen/logrus"
)

type HistoryHandler struct {
	lister HistoryLister
}

type StatsHandler struct {
	stats models.StatsProvider
}

type PingHandler struct {
	pinger models.Pinger
}

// AdminHandler serves the read-only admin API. No endpoint ever returns
// a generated password.
type AdminHandler struct {
	history *HistoryHandler
	stats   *StatsHandler
	ping    *PingHandler
}

func NewHistoryHandler(lister HistoryLister) *HistoryHandler {
	return &HistoryHandler{lister}
}

func NewStatsHandler(stats models.StatsProvider) *StatsHandler {
	return &StatsHandler{stats}
}

func NewPingHandler(pinger models.Pinger) *PingHandler {
	return &PingHandler{pinger}
}

func NewAdminHandler(lister HistoryLister, stats models.StatsProvider, pinger models.Pinger) *AdminHandler {
	return &AdminHandler{
		history: NewHistoryHandler(lister),
		stats:   NewStatsHandler(stats),
		ping:    NewPingHandler(pinger),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	logrus.Debug("Handling history request")
	ctx := r.Context()

	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxHistoryLimit {
			logrus.WithField("limit", raw).Warn("Invalid history limit")
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer between 1 and 1000"})
			return
		}
		limit = n
	}

	records, err := h.lister.History(ctx, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to get generation history")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to get generation history"})
		return
	}

	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Count: len(records), Records: records})
}

func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	logrus.Debug("Handling stats request")
	writeJSON(w, http.StatusOK, h.stats.Stats())
}

func (h *PingHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	logrus.Debug("Handling ping request")
	ctx := r.Context()

	if err := h.pinger.Ping(ctx); err != nil {
		logrus.WithError(err).Error("History storage ping failed")
		http.Error(w, "History storage unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("History storage is OK")); err != nil {
		logrus.WithError(err).Error("Failed to write response")
	}
}

func (h *AdminHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	h.history.HandleHistory(w, r)
}

func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.stats.HandleStats(w, r)
}

func (h *AdminHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	h.ping.HandlePing(w, r)
}
