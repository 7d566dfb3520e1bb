package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"customderiv/internal/domain"
	"customderiv/internal/infra"
)

// DerivativeService is the scan surface the handlers expose.
type DerivativeService interface {
	ListTypes(ctx context.Context) []string
	ListMissing(ctx context.Context, req domain.ScanRequest) (domain.ScanResult, error)
}

type App struct {
	Config      *infra.Config
	Logger      infra.Logger
	Derivatives DerivativeService
}

func NewApp(cfg *infra.Config, logger infra.Logger, derivatives DerivativeService) *App {
	return &App{Config: cfg, Logger: logger, Derivatives: derivatives}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, errorBody{Error: kind, Message: message})
}

func (a *App) defaultMaxURLs() int {
	if a.Config != nil && a.Config.DefaultMaxURLs > 0 {
		return a.Config.DefaultMaxURLs
	}
	return domain.DefaultMaxResults
}
