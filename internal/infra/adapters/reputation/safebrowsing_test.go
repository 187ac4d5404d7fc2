package reputation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telegram-scam-guard/internal/config"
	"telegram-scam-guard/internal/domain/model"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *SafeBrowsingAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewSafeBrowsingAdapter(&config.ReputationConfig{
		SafeBrowsingKey: "test-key",
		BaseURL:         srv.URL,
		CacheTTL:        time.Hour,
	})
	if err != nil {
		t.Fatalf("NewSafeBrowsingAdapter failed: %v", err)
	}
	return a
}

func TestSafeBrowsingAdapter_CheckURL(t *testing.T) {
	t.Run("no matches means safe", func(t *testing.T) {
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v4/threatMatches:find" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("key") != "test-key" {
				t.Error("api key missing from query")
			}
			var req threatMatchesRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("bad request body: %v", err)
			}
			if len(req.ThreatInfo.ThreatEntries) != 1 || req.ThreatInfo.ThreatEntries[0].URL != "https://example.com" {
				t.Errorf("unexpected threat entries: %+v", req.ThreatInfo.ThreatEntries)
			}
			if len(req.ThreatInfo.ThreatTypes) != 4 {
				t.Errorf("expected 4 threat types, got %d", len(req.ThreatInfo.ThreatTypes))
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`)) // empty body = no matches
		})

		v, err := a.CheckURL(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("CheckURL returned error: %v", err)
		}
		if v.Status != model.URLSafe {
			t.Errorf("status = %s, want safe", v.Status)
		}
		if v.Source != model.SourceSafeBrowsing {
			t.Errorf("source = %s, want safebrowsing", v.Source)
		}
	})

	t.Run("match means unsafe with threat type", func(t *testing.T) {
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"matches":[{"threatType":"SOCIAL_ENGINEERING","threat":{"url":"https://evil.example"}}]}`))
		})

		v, err := a.CheckURL(context.Background(), "https://evil.example")
		if err != nil {
			t.Fatalf("CheckURL returned error: %v", err)
		}
		if v.Status != model.URLUnsafe {
			t.Errorf("status = %s, want unsafe", v.Status)
		}
		if v.ThreatType != "SOCIAL_ENGINEERING" {
			t.Errorf("threat type = %s, want SOCIAL_ENGINEERING", v.ThreatType)
		}
	})

	t.Run("upstream failure surfaces as error", func(t *testing.T) {
		a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		if _, err := a.CheckURL(context.Background(), "https://example.com"); err == nil {
			t.Fatal("expected an error on http 503")
		}
	})
}
