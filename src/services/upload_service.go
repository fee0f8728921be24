package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dhruvtrip/vizvest-app/src/logger"
	"github.com/dhruvtrip/vizvest-app/src/models"
	"github.com/dhruvtrip/vizvest-app/src/parsers"
	"github.com/dhruvtrip/vizvest-app/src/processors"
	"github.com/patrickmn/go-cache"
)

const (
	ckSessionAnalysis = "session_analysis_%s"

	DefaultSessionTTL      = 12 * time.Hour
	SessionCleanupInterval = 30 * time.Minute
)

// sessionSnapshot is the per-session cache entry: the precomputed result plus
// the normalized rows, kept so year-filtered stats and heatmaps can be
// recomputed without reparsing the file.
type sessionSnapshot struct {
	Result       *AnalysisResult
	Transactions []models.NormalizedTransaction
}

type uploadServiceImpl struct {
	rowValidator        processors.RowValidator
	normalizer          processors.CurrencyNormalizer
	positionProcessor   processors.PositionProcessor
	dividendProcessor   processors.DividendProcessor
	activityProcessor   processors.ActivityProcessor
	partialDataDetector processors.PartialDataDetector
	cashFlowProcessor   processors.CashFlowProcessor
	sessionCache        *cache.Cache
}

func NewUploadService(
	rowValidator processors.RowValidator,
	normalizer processors.CurrencyNormalizer,
	positionProcessor processors.PositionProcessor,
	dividendProcessor processors.DividendProcessor,
	activityProcessor processors.ActivityProcessor,
	partialDataDetector processors.PartialDataDetector,
	cashFlowProcessor processors.CashFlowProcessor,
	sessionCache *cache.Cache,
) UploadService {
	return &uploadServiceImpl{
		rowValidator:        rowValidator,
		normalizer:          normalizer,
		positionProcessor:   positionProcessor,
		dividendProcessor:   dividendProcessor,
		activityProcessor:   activityProcessor,
		partialDataDetector: partialDataDetector,
		cashFlowProcessor:   cashFlowProcessor,
		sessionCache:        sessionCache,
	}
}

// ProcessUpload runs the full pipeline over one uploaded file: parse,
// validate, normalize, analyze. On success the session's snapshot is
// replaced; on any failure the previous snapshot is left untouched.
func (s *uploadServiceImpl) ProcessUpload(fileReader io.Reader, sessionID string, source string, filename string, filesize int64) (*AnalysisResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "sessionID", sessionID, "source", source, "filename", filename, "filesize", filesize)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	rawTxs, err := parser.Parse(fileReader)
	if err != nil {
		// Structured validation errors keep their type so handlers can
		// inspect them; anything else is a plain parsing failure.
		var colErr *processors.ColumnValidationError
		if errors.Is(err, processors.ErrEmptyFile) || errors.As(err, &colErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	if err := s.rowValidator.ValidateRows(rawTxs); err != nil {
		return nil, err
	}

	result, normalized, err := s.analyze(rawTxs)
	if err != nil {
		return nil, err
	}

	s.sessionCache.Set(s.sessionKey(sessionID), &sessionSnapshot{
		Result:       result,
		Transactions: normalized,
	}, cache.DefaultExpiration)

	logger.L.Info("ProcessUpload END",
		"sessionID", sessionID,
		"rows", result.RowCount,
		"baseCurrency", result.BaseCurrency,
		"duration", time.Since(overallStartTime))
	return result, nil
}

// analyze normalizes the validated rows and runs every report processor over
// them. A panic anywhere downstream is recovered and reported as
// ErrNormalizationFailed.
func (s *uploadServiceImpl) analyze(rows []models.RawTransaction) (result *AnalysisResult, normalized []models.NormalizedTransaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("analysis pipeline panicked", "panic", r)
			result = nil
			normalized = nil
			err = fmt.Errorf("%w: %v", ErrNormalizationFailed, r)
		}
	}()

	normalized = s.normalizer.NormalizeAll(rows)

	positions := s.positionProcessor.Aggregate(normalized)
	dividends := s.dividendProcessor.Summarize(normalized, positions)
	activity := s.activityProcessor.Stats(normalized, nil)
	partialData := s.partialDataDetector.Detect(normalized)
	cashFlow := s.cashFlowProcessor.Summarize(normalized)

	baseCurrency := ""
	if len(normalized) > 0 {
		baseCurrency = normalized[0].BaseCurrency
	}

	result = &AnalysisResult{
		BaseCurrency: baseCurrency,
		RowCount:     len(normalized),
		Positions:    positions,
		Dividends:    dividends,
		Activity:     activity,
		PartialData:  partialData,
		CashFlow:     cashFlow,
	}
	return result, normalized, nil
}

func (s *uploadServiceImpl) GetLatestResult(sessionID string) (*AnalysisResult, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return snap.Result, nil
}

func (s *uploadServiceImpl) GetPositions(sessionID string) ([]models.StockPosition, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return snap.Result.Positions, nil
}

func (s *uploadServiceImpl) GetDividendSummary(sessionID string) (models.DividendSummary, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return models.DividendSummary{}, err
	}
	return snap.Result.Dividends, nil
}

func (s *uploadServiceImpl) GetDividendRecords(sessionID string) ([]models.DividendRecord, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return s.dividendProcessor.Records(snap.Transactions), nil
}

// GetTradingStats returns the stored unfiltered stats when no year filter is
// given, and recomputes from the session's normalized rows otherwise.
func (s *uploadServiceImpl) GetTradingStats(sessionID string, years []int) (models.TradingStats, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return models.TradingStats{}, err
	}
	if len(years) == 0 {
		return snap.Result.Activity, nil
	}
	return s.activityProcessor.Stats(snap.Transactions, years), nil
}

func (s *uploadServiceImpl) GetActivityHeatmap(sessionID string, year int) (models.ActivityHeatmap, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return models.ActivityHeatmap{}, err
	}
	return s.activityProcessor.Heatmap(snap.Transactions, year), nil
}

func (s *uploadServiceImpl) GetPartialDataWarning(sessionID string) (models.PartialDataWarning, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return models.PartialDataWarning{}, err
	}
	return snap.Result.PartialData, nil
}

func (s *uploadServiceImpl) GetCashFlowSummary(sessionID string) (models.CashFlowSummary, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return models.CashFlowSummary{}, err
	}
	return snap.Result.CashFlow, nil
}

func (s *uploadServiceImpl) GetTransactions(sessionID string) ([]models.NormalizedTransaction, error) {
	snap, err := s.getSnapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return snap.Transactions, nil
}

func (s *uploadServiceImpl) ClearSession(sessionID string) {
	s.sessionCache.Delete(s.sessionKey(sessionID))
}

func (s *uploadServiceImpl) getSnapshot(sessionID string) (*sessionSnapshot, error) {
	if cached, found := s.sessionCache.Get(s.sessionKey(sessionID)); found {
		return cached.(*sessionSnapshot), nil
	}
	return nil, ErrNoAnalysis
}

func (s *uploadServiceImpl) sessionKey(sessionID string) string {
	return fmt.Sprintf(ckSessionAnalysis, sessionID)
}
