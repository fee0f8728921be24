package models

// Confidence grades how strongly the heuristics point at missing history.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DateRange is the day-level span covered by the uploaded rows.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PartialDataWarning reports whether the uploaded file looks like a partial
// export (history missing before the first row).
type PartialDataWarning struct {
	IsPartialData   bool       `json:"is_partial_data"`
	AffectedTickers []string   `json:"affected_tickers"` // Sorted
	Reasons         []string   `json:"reasons"`
	Confidence      Confidence `json:"confidence"` // Highest severity seen; low when nothing fired
	DateRange       DateRange  `json:"date_range"`
}
