package handlers

import (
	"net/http"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/services"
)

type TransactionHandler struct {
	uploadService services.UploadService
}

func NewTransactionHandler(uploadService services.UploadService) *TransactionHandler {
	return &TransactionHandler{
		uploadService: uploadService,
	}
}

// HandleGetTransactions returns the normalized transactions stored for the
// session, in file order.
func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	transactions, err := h.uploadService.GetTransactions(sessionID)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	if transactions == nil {
		transactions = []models.NormalizedTransaction{}
	}
	writeJSONWithETag(w, r, ctxLogger, transactions)
}

// HandleClearSession discards the analysis stored for the session. Clearing
// an unknown session is a no-op.
func (h *TransactionHandler) HandleClearSession(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if ok {
		h.uploadService.ClearSession(sessionID)
		ctxLogger.Info("Session analysis cleared")
	}
	w.WriteHeader(http.StatusNoContent)
}
