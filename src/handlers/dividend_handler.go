package handlers

import (
	"net/http"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/services"
)

type DividendHandler struct {
	uploadService services.UploadService
}

func NewDividendHandler(service services.UploadService) *DividendHandler {
	return &DividendHandler{uploadService: service}
}

// HandleGetDividendSummary returns the session's dividend analysis: totals,
// period buckets, per-ticker entries and the annual projection.
func (h *DividendHandler) HandleGetDividendSummary(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	summary, err := h.uploadService.GetDividendSummary(sessionID)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	writeJSONWithETag(w, r, ctxLogger, summary)
}

// HandleGetDividendTransactions returns the individual dividend payments in
// date order.
func (h *DividendHandler) HandleGetDividendTransactions(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	records, err := h.uploadService.GetDividendRecords(sessionID)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	if records == nil {
		records = []models.DividendRecord{}
	}
	writeJSONWithETag(w, r, ctxLogger, records)
}
