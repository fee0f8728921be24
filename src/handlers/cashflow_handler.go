package handlers

import (
	"net/http"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/services"
)

type CashFlowHandler struct {
	uploadService services.UploadService
}

func NewCashFlowHandler(service services.UploadService) *CashFlowHandler {
	return &CashFlowHandler{uploadService: service}
}

// HandleGetCashFlowSummary returns deposit, withdrawal, interest and
// conversion-fee totals for the session.
func (h *CashFlowHandler) HandleGetCashFlowSummary(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	summary, err := h.uploadService.GetCashFlowSummary(sessionID)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	writeJSONWithETag(w, r, ctxLogger, summary)
}
