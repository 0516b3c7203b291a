package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/internal/service"
	apperrors "github.com/Agure-la/alx-poll/pkg/errors"
	"github.com/Agure-la/alx-poll/pkg/logger"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	logger           *logger.Logger
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetResults handles GET /api/polls/{pollID}/results. It returns the
// counting side of the snapshot without the trend series.
func (h *AnalyticsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	snapshot, err := h.analyticsService.GetSnapshot(ctx, pollID, domain.TrendDaily)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"poll_id":       snapshot.PollID,
		"total_votes":   snapshot.TotalVotes,
		"unique_voters": snapshot.UniqueVoters,
		"options":       snapshot.OptionResults,
		"as_of":         snapshot.AsOf,
	})
}

// GetAnalytics handles GET /api/polls/{pollID}/analytics. The optional
// granularity query parameter selects the trend bucket size.
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pollID := chi.URLParam(r, "pollID")
	if pollID == "" {
		respondAppError(w, h.logger, apperrors.NewValidationError("Poll ID is required", nil))
		return
	}

	granularity, ok := domain.ParseTrendGranularity(r.URL.Query().Get("granularity"))
	if !ok {
		respondAppError(w, h.logger, apperrors.NewValidationError("granularity must be one of hour, day, week, month", nil))
		return
	}

	snapshot, err := h.analyticsService.GetSnapshot(ctx, pollID, granularity)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}
