package handlers

import (
	"log"
	"net/http"
	"strconv"

	"walking-tour-service/internal/api/dto"
	"walking-tour-service/internal/ports"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// HistoryHandler exposes read-only access to previously planned tours.
type HistoryHandler struct {
	Repo ports.TourRepository
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	routes, err := h.Repo.ListRecentRoutes(r.Context(), limit)
	if err != nil {
		log.Printf("list recent routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListSavedRoutesResponse{
		Routes: make([]dto.SavedRouteResponse, 0, len(routes)),
	}
	for _, sr := range routes {
		res.Routes = append(res.Routes, dto.SavedRouteResponse{
			ID:          sr.ID,
			Station:     sr.StationName,
			Keyword:     sr.Keyword,
			Stops:       sr.StopNames,
			TotalMeters: sr.TotalMeters,
			Status:      sr.Status,
			PlannedAt:   sr.PlannedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
