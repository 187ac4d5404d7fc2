package model

import (
	"net/url"
	"strings"
	"time"

	"telegram-scam-guard/internal/domain"
)

// URLStatus is the reputation outcome for a single URL.
type URLStatus string

const (
	URLSafe    URLStatus = "safe"
	URLUnsafe  URLStatus = "unsafe"
	URLUnknown URLStatus = "unknown"
)

// URLVerdict is what a reputation adapter returns for one URL.
type URLVerdict struct {
	URL        string         `json:"url"`
	Status     URLStatus      `json:"status"`
	ThreatType string         `json:"threat_type,omitempty"`
	Source     AnalysisSource `json:"source"`
	CheckedAt  time.Time      `json:"checked_at"`
}

// CanonicalURL normalizes user input for lookup and caching: trims
// whitespace, defaults the scheme to https and lowercases scheme and host.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrInvalidArgument
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", domain.ErrInvalidArgument
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}
