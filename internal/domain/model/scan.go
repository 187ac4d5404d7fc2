package model

import (
	"strings"
	"time"

	"telegram-scam-guard/internal/domain"

	"github.com/oklog/ulid/v2"
)

// ScanKind distinguishes message analyses from URL checks in the audit log.
type ScanKind string

const (
	ScanKindMessage ScanKind = "message"
	ScanKindURL     ScanKind = "url"
)

// AnalysisSource records which engine produced a verdict.
type AnalysisSource string

const (
	SourceAI           AnalysisSource = "ai"
	SourceLocal        AnalysisSource = "local"
	SourceSafeBrowsing AnalysisSource = "safebrowsing"
	SourceHeuristic    AnalysisSource = "heuristic"
	SourceCache        AnalysisSource = "cache"
)

// Analysis is the outcome of classifying one user message.
type Analysis struct {
	IsThreat    bool           `json:"is_threat"`
	Category    string         `json:"threat_type"`
	Confidence  float64        `json:"confidence"`
	Matches     int            `json:"-"`
	Explanation string         `json:"explanation"`
	Advice      string         `json:"advice"`
	Source      AnalysisSource `json:"-"`
	Emergency   bool           `json:"-"`
}

const previewLimit = 120

// ScanReport is the persisted record of one analysis or URL check.
// InputPreview is truncated before storage; full inputs are never kept.
type ScanReport struct {
	ID           string
	UserID       string
	Kind         ScanKind
	InputPreview string
	Category     string
	Verdict      bool
	Confidence   float64
	Source       AnalysisSource
	CreatedAt    time.Time
}

func NewScanReport(userID string, kind ScanKind, input string) (*ScanReport, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if kind != ScanKindMessage && kind != ScanKindURL {
		return nil, domain.ErrInvalidArgument
	}
	return &ScanReport{
		ID:           ulid.Make().String(),
		UserID:       userID,
		Kind:         kind,
		InputPreview: truncatePreview(input),
		CreatedAt:    time.Now(),
	}, nil
}

func truncatePreview(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= previewLimit {
		return s
	}
	return string(r[:previewLimit])
}
