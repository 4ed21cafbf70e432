package api

import (
	"net/http"

	"walking-tour-service/internal/api/handlers"
	"walking-tour-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps services.PlanTourDeps, cfg services.PlanTourConfig) http.Handler {
	mux := http.NewServeMux()

	tourHandler := &handlers.TourHandler{Deps: deps, Cfg: cfg}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/tours", tourHandler.Plan)
	if deps.Tours != nil {
		historyHandler := &handlers.HistoryHandler{Repo: deps.Tours}
		mux.HandleFunc("/tours/recent", historyHandler.List)
	}

	return loggingMiddleware(mux)
}
