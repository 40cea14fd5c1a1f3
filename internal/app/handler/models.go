package handler

import "github.com/AlenaMolokova/passgen/internal/app/models"

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 1000
)

type HistoryResponse struct {
	Count   int                    `json:"count"`
	Records []models.HistoryRecord `json:"records"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
