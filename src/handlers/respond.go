package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dhruvtrip/vizvest-app/src/processors"
	"github.com/dhruvtrip/vizvest-app/src/services"
	"github.com/dhruvtrip/vizvest-app/src/utils"
)

// columnErrorResponse is the body returned when required CSV columns are
// missing from the uploaded file.
type columnErrorResponse struct {
	Error          string   `json:"error"`
	MissingColumns []string `json:"missing_columns"`
}

// rowErrorResponse is the body returned when individual rows fail
// validation. Errors holds at most the reporting cap plus an overflow line.
type rowErrorResponse struct {
	Error      string   `json:"error"`
	RowCount   int      `json:"row_count"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors"`
}

// writeAnalysisError maps pipeline and session errors onto HTTP statuses.
// Validation failures keep their structure so clients can render them.
func writeAnalysisError(w http.ResponseWriter, ctxLogger *slog.Logger, err error) {
	var colErr *processors.ColumnValidationError
	var rowErr *processors.RowValidationError

	switch {
	case errors.As(err, &colErr):
		ctxLogger.Warn("Upload rejected: missing required columns", "missingColumns", colErr.MissingColumns)
		utils.SendJSON(w, columnErrorResponse{
			Error:          colErr.Error(),
			MissingColumns: colErr.MissingColumns,
		}, http.StatusBadRequest)
	case errors.As(err, &rowErr):
		ctxLogger.Warn("Upload rejected: row validation failed", "rowCount", rowErr.RowCount, "errorCount", rowErr.ErrorCount)
		utils.SendJSON(w, rowErrorResponse{
			Error:      rowErr.Error(),
			RowCount:   rowErr.RowCount,
			ErrorCount: rowErr.ErrorCount,
			Errors:     rowErr.Errors,
		}, http.StatusBadRequest)
	case errors.Is(err, processors.ErrEmptyFile):
		ctxLogger.Warn("Upload rejected: empty file")
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrParsingFailed):
		ctxLogger.Warn("Upload rejected: parsing failed", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNoAnalysis):
		ctxLogger.Debug("No analysis available for session")
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrNormalizationFailed):
		ctxLogger.Error("Analysis pipeline failed", "error", err)
		utils.SendJSONError(w, "failed to analyze transactions", http.StatusInternalServerError)
	default:
		ctxLogger.Error("Unexpected error handling request", "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeJSONWithETag serves a report payload with an ETag derived from its
// JSON form and honors If-None-Match with 304 Not Modified.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, ctxLogger *slog.Logger, payload interface{}) {
	currentETag, etagErr := utils.GenerateETag(payload)
	if etagErr != nil {
		ctxLogger.Error("Failed to generate ETag for response", "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		ctxLogger.Error("Error encoding JSON response", "error", err)
	}
}
