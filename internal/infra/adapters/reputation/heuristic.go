package reputation

import (
	"context"
	"strings"
	"time"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
)

var _ adapter.URLReputationAdapter = (*HeuristicAdapter)(nil)

// suspiciousIndicators are substrings that mark a link as likely
// malicious when the lookup API is unavailable. Shorteners hide the real
// destination, the rest are common phishing lures.
var suspiciousIndicators = []string{
	"bit.ly", "tinyurl.com", "short.link", "rb.gy",
	"phishing", "malware", "suspicious-domain",
	"free-download", "urgent-update", "security-alert",
}

// HeuristicAdapter is the offline fallback. It never reports a URL as
// fully safe, only unsafe or unknown.
type HeuristicAdapter struct{}

func NewHeuristicAdapter() *HeuristicAdapter {
	return &HeuristicAdapter{}
}

func (h *HeuristicAdapter) CheckURL(ctx context.Context, rawURL string) (*model.URLVerdict, error) {
	lower := strings.ToLower(rawURL)
	verdict := &model.URLVerdict{
		URL:       rawURL,
		Status:    model.URLUnknown,
		Source:    model.SourceHeuristic,
		CheckedAt: time.Now(),
	}
	for _, indicator := range suspiciousIndicators {
		if strings.Contains(lower, indicator) {
			verdict.Status = model.URLUnsafe
			verdict.ThreatType = "SUSPICIOUS_PATTERN"
			break
		}
	}
	return verdict, nil
}
