package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/services"
	"github.com/dhruvtrip/vizvest-app/src/utils"
)

type ActivityHandler struct {
	uploadService services.UploadService
}

func NewActivityHandler(service services.UploadService) *ActivityHandler {
	return &ActivityHandler{uploadService: service}
}

// HandleGetTradingStats returns buy/sell counts, volumes and the win rate,
// optionally restricted to the years named in the comma-separated "years"
// query parameter.
func (h *ActivityHandler) HandleGetTradingStats(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	years, err := parseYearsParam(r.URL.Query().Get("years"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := h.uploadService.GetTradingStats(sessionID, years)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	writeJSONWithETag(w, r, ctxLogger, stats)
}

// HandleGetActivityHeatmap returns the daily trade-count heatmap for one
// calendar year. The "year" query parameter defaults to the current year.
func (h *ActivityHandler) HandleGetActivityHeatmap(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	year := time.Now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			utils.SendJSONError(w, fmt.Sprintf("invalid year %q", yearStr), http.StatusBadRequest)
			return
		}
		year = parsed
	}

	heatmap, err := h.uploadService.GetActivityHeatmap(sessionID, year)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	writeJSONWithETag(w, r, ctxLogger, heatmap)
}

// parseYearsParam parses a comma-separated list of years. An empty value
// means no filter.
func parseYearsParam(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}
