package services

import (
	"errors"
	"io"

	"github.com/dhruvtrip/vizvest-app/src/models"
)

// AnalysisResult is the full outcome of one processed upload: everything the
// report endpoints serve, derived from a single CSV file. It is returned by
// ProcessUpload and retained per session until the session expires.
type AnalysisResult struct {
	BaseCurrency string                    `json:"base_currency"`
	RowCount     int                       `json:"row_count"`
	Positions    []models.StockPosition    `json:"positions"`
	Dividends    models.DividendSummary    `json:"dividends"`
	Activity     models.TradingStats       `json:"activity"`
	PartialData  models.PartialDataWarning `json:"partial_data"`
	CashFlow     models.CashFlowSummary    `json:"cash_flow"`
}

// Define common service errors
var (
	ErrParsingFailed       = errors.New("csv parsing failed")
	ErrNormalizationFailed = errors.New("transaction normalization failed")
	ErrNoAnalysis          = errors.New("no analysis available for this session")
)

// UploadService defines the interface for the core upload processing logic.
type UploadService interface {
	ProcessUpload(fileReader io.Reader, sessionID string, source string, filename string, filesize int64) (*AnalysisResult, error)
	GetLatestResult(sessionID string) (*AnalysisResult, error)
	GetPositions(sessionID string) ([]models.StockPosition, error)
	GetDividendSummary(sessionID string) (models.DividendSummary, error)
	GetDividendRecords(sessionID string) ([]models.DividendRecord, error)
	GetTradingStats(sessionID string, years []int) (models.TradingStats, error)
	GetActivityHeatmap(sessionID string, year int) (models.ActivityHeatmap, error)
	GetPartialDataWarning(sessionID string) (models.PartialDataWarning, error)
	GetCashFlowSummary(sessionID string) (models.CashFlowSummary, error)
	GetTransactions(sessionID string) ([]models.NormalizedTransaction, error)
	ClearSession(sessionID string)
}
