package handlers

import (
	"net/http"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/services"
)

type PortfolioHandler struct {
	uploadService services.UploadService
}

func NewPortfolioHandler(uploadService services.UploadService) *PortfolioHandler {
	return &PortfolioHandler{
		uploadService: uploadService,
	}
}

// HandleGetPositions returns the per-ticker positions aggregated from the
// session's uploaded transactions, holdings first.
func (h *PortfolioHandler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	positions, err := h.uploadService.GetPositions(sessionID)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	if positions == nil {
		positions = []models.StockPosition{}
	}
	writeJSONWithETag(w, r, ctxLogger, positions)
}
