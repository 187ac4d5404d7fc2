package reputation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"telegram-scam-guard/internal/config"
	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/domain/ports/adapter"
	"telegram-scam-guard/internal/infra/metrics"
)

var _ adapter.URLReputationAdapter = (*SafeBrowsingAdapter)(nil)

// SafeBrowsingAdapter checks URLs against the Google Safe Browsing v4
// Lookup API.
type SafeBrowsingAdapter struct {
	client *resty.Client
	apiKey string
}

func NewSafeBrowsingAdapter(cfg *config.ReputationConfig) (*SafeBrowsingAdapter, error) {
	if cfg.SafeBrowsingKey == "" {
		return nil, errors.New("safebrowsing: empty api key")
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second)
	return &SafeBrowsingAdapter{client: client, apiKey: cfg.SafeBrowsingKey}, nil
}

type threatMatchesRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string `json:"threatTypes"`
		PlatformTypes    []string `json:"platformTypes"`
		ThreatEntryTypes []string `json:"threatEntryTypes"`
		ThreatEntries    []struct {
			URL string `json:"url"`
		} `json:"threatEntries"`
	} `json:"threatInfo"`
}

type threatMatchesResponse struct {
	Matches []struct {
		ThreatType string `json:"threatType"`
		Threat     struct {
			URL string `json:"url"`
		} `json:"threat"`
	} `json:"matches"`
}

func (s *SafeBrowsingAdapter) CheckURL(ctx context.Context, rawURL string) (*model.URLVerdict, error) {
	req := threatMatchesRequest{}
	req.Client.ClientID = "telegram-scam-guard"
	req.Client.ClientVersion = "1.0.0"
	req.ThreatInfo.ThreatTypes = []string{
		"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE", "POTENTIALLY_HARMFUL_APPLICATION",
	}
	req.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	req.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	req.ThreatInfo.ThreatEntries = []struct {
		URL string `json:"url"`
	}{{URL: rawURL}}

	start := time.Now()
	var payload threatMatchesResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(req).
		SetResult(&payload).
		Post("/v4/threatMatches:find")
	metrics.ObserveReputationLatency("safebrowsing", int(time.Since(start).Milliseconds()), err == nil && res.IsSuccess())

	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("safebrowsing http %d", res.StatusCode())
	}

	verdict := &model.URLVerdict{
		URL:       rawURL,
		Status:    model.URLSafe,
		Source:    model.SourceSafeBrowsing,
		CheckedAt: time.Now(),
	}
	if len(payload.Matches) > 0 {
		verdict.Status = model.URLUnsafe
		verdict.ThreatType = payload.Matches[0].ThreatType
	}
	return verdict, nil
}
