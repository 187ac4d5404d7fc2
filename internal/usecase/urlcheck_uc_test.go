package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-scam-guard/internal/domain"
	"telegram-scam-guard/internal/domain/model"
)

func TestCheckURL_PrimaryVerdict(t *testing.T) {
	primary := &stubReputation{verdict: &model.URLVerdict{
		Status:     model.URLUnsafe,
		ThreatType: "SOCIAL_ENGINEERING",
		Source:     model.SourceSafeBrowsing,
		CheckedAt:  time.Now(),
	}}
	scans := &memScanRepo{}
	uc := NewURLCheckUseCase(primary, &stubHeuristic{}, scans, nil, testLogger())

	v, err := uc.CheckURL(context.Background(), testUser(t), "evil.example/login")
	if err != nil {
		t.Fatalf("CheckURL returned error: %v", err)
	}
	if v.Status != model.URLUnsafe || v.Source != model.SourceSafeBrowsing {
		t.Errorf("unexpected verdict: %+v", v)
	}
	if primary.lastURL != "https://evil.example/login" {
		t.Errorf("url was not canonicalized before lookup: %q", primary.lastURL)
	}

	saved := scans.saved()
	if len(saved) != 1 {
		t.Fatalf("expected 1 scan report, got %d", len(saved))
	}
	if saved[0].Kind != model.ScanKindURL || !saved[0].Verdict || saved[0].Category != model.CategoryFakeLink {
		t.Errorf("scan report not recorded correctly: %+v", saved[0])
	}
}

func TestCheckURL_FallsBackToHeuristic(t *testing.T) {
	primary := &stubReputation{err: errors.New("api down")}
	uc := NewURLCheckUseCase(primary, &stubHeuristic{}, &memScanRepo{}, nil, testLogger())

	v, err := uc.CheckURL(context.Background(), testUser(t), "https://bit.ly/abc")
	if err != nil {
		t.Fatalf("CheckURL returned error: %v", err)
	}
	if v.Source != model.SourceHeuristic {
		t.Errorf("source = %s, want heuristic", v.Source)
	}
	if v.Status != model.URLUnsafe {
		t.Errorf("shortener should be flagged by the heuristic, got %s", v.Status)
	}
}

func TestCheckURL_NoPrimaryConfigured(t *testing.T) {
	uc := NewURLCheckUseCase(nil, &stubHeuristic{}, &memScanRepo{}, nil, testLogger())

	v, err := uc.CheckURL(context.Background(), testUser(t), "example.com")
	if err != nil {
		t.Fatalf("CheckURL returned error: %v", err)
	}
	if v.Source != model.SourceHeuristic {
		t.Errorf("source = %s, want heuristic", v.Source)
	}
	if v.Status != model.URLUnknown {
		t.Errorf("heuristic must not vouch for safety, got %s", v.Status)
	}
}

func TestCheckURL_InvalidInput(t *testing.T) {
	uc := NewURLCheckUseCase(nil, &stubHeuristic{}, &memScanRepo{}, nil, testLogger())

	_, err := uc.CheckURL(context.Background(), testUser(t), "   ")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
