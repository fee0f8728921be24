package handlers

import (
	"net/http"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/services"
)

type AnalysisHandler struct {
	uploadService services.UploadService
}

func NewAnalysisHandler(service services.UploadService) *AnalysisHandler {
	return &AnalysisHandler{uploadService: service}
}

// HandleGetPartialData returns the partial-data warning derived from the
// session's file: whether the export looks truncated, which tickers are
// affected and with what confidence.
func (h *AnalysisHandler) HandleGetPartialData(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	warning, err := h.uploadService.GetPartialDataWarning(sessionID)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	writeJSONWithETag(w, r, ctxLogger, warning)
}
