package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dhruvtrip/vizvest-app/src/config"
	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/security/validation"
	"github.com/dhruvtrip/vizvest-app/src/services"
	"github.com/dhruvtrip/vizvest-app/src/utils"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// defaultSource is assumed when the upload form does not name a broker.
const defaultSource = "trading212"

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: service,
	}
}

// HandleUpload accepts a multipart CSV upload, runs the analysis pipeline
// and stores the result under the caller's session. The session ID is
// generated when the client did not supply one and is always echoed back in
// the X-Session-ID response header.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		sessionID = uuid.New().String()
		ctxLogger.Debug("No session ID supplied, generated one", "sessionID", sessionID)
	}
	w.Header().Set(sessionIDHeader, sessionID)

	maxUploadLabel := humanize.Bytes(uint64(config.Cfg.MaxUploadSizeBytes))

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadSizeBytes+4096)
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to read upload or file too large (max %s)", maxUploadLabel), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = defaultSource
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "failed to retrieve file from request, ensure the 'file' field is used", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %s", maxUploadLabel), http.StatusBadRequest)
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		ctxLogger.Warn("Rejected upload with unsupported extension", "filename", fileHeader.Filename)
		utils.SendJSONError(w, "only .csv files are accepted", http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctxLogger.Info("File accepted for processing",
		"filename", fileHeader.Filename,
		"size", fileHeader.Size,
		"source", source,
		"clientType", clientContentType,
		"detectedType", detectedContentType)

	result, err := h.uploadService.ProcessUpload(file, sessionID, source, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		ctxLogger.Error("Error encoding JSON response for upload result", "error", err)
	}
}

// HandleGetLatestResult returns the full analysis stored for the session.
func (h *UploadHandler) HandleGetLatestResult(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	sessionID, _ := GetSessionIDFromContext(r.Context())

	result, err := h.uploadService.GetLatestResult(sessionID)
	if err != nil {
		writeAnalysisError(w, ctxLogger, err)
		return
	}
	writeJSONWithETag(w, r, ctxLogger, result)
}
