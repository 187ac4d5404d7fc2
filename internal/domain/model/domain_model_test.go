//go:build !integration

package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"telegram-scam-guard/internal/domain"
)

// --- User Model Tests ---

func TestNewUser(t *testing.T) {
	t.Run("should create a new user successfully", func(t *testing.T) {
		startTime := time.Now()
		user, err := NewUser("", 12345, "testuser")

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if user.ID == "" {
			t.Error("expected user ID to be non-empty")
		}
		if user.TelegramID != 12345 {
			t.Errorf("expected telegram ID to be 12345, but got %d", user.TelegramID)
		}
		if user.Language != LangEnglish {
			t.Errorf("new users should default to english, got %s", user.Language)
		}
		if time.Since(startTime) > time.Second {
			t.Errorf("user.RegisteredAt timestamp is too far from current time")
		}
	})

	t.Run("should fail with invalid telegram ID", func(t *testing.T) {
		user, err := NewUser("", 0, "testuser")
		if err == nil {
			t.Fatal("expected an error for invalid telegram ID, but got nil")
		}
		if user != nil {
			t.Errorf("expected user to be nil on error, but it was not")
		}
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected error to be ErrInvalidArgument, but got %T", err)
		}
	})

	t.Run("Touch should refresh LastActiveAt", func(t *testing.T) {
		user, err := NewUser("", 1, "u")
		if err != nil {
			t.Fatalf("NewUser failed: %v", err)
		}
		user.LastActiveAt = time.Now().Add(-time.Hour)
		user.Touch()
		if time.Since(user.LastActiveAt) > time.Second {
			t.Error("Touch should set LastActiveAt to now")
		}
	})
}

func TestParseLanguage(t *testing.T) {
	if ParseLanguage("hindi") != LangHindi {
		t.Error("hindi should parse to LangHindi")
	}
	if ParseLanguage("english") != LangEnglish {
		t.Error("english should parse to LangEnglish")
	}
	if ParseLanguage("klingon") != LangEnglish {
		t.Error("unknown languages should fall back to english")
	}
}

// --- Scam Category Tests ---

func TestScamCategoryMatch(t *testing.T) {
	cat := &ScamCategory{
		Label:         CategoryOTPScam,
		Keywords:      []string{"otp", "verification code", "share otp"},
		HindiKeywords: []string{"ओटीपी"},
	}

	t.Run("counts case-insensitive english keywords", func(t *testing.T) {
		got := cat.Match("Please SHARE OTP and the verification code")
		// "otp", "verification code" and "share otp" all occur
		if got != 3 {
			t.Errorf("matches = %d, want 3", got)
		}
	})

	t.Run("matches devanagari keywords as-is", func(t *testing.T) {
		if cat.Match("कृपया ओटीपी भेजें") != 1 {
			t.Error("expected one hindi keyword match")
		}
	})

	t.Run("no keywords means no match", func(t *testing.T) {
		if cat.Match("see you at lunch tomorrow") != 0 {
			t.Error("expected zero matches for a harmless message")
		}
	})
}

func TestScamCategoryConfidence(t *testing.T) {
	cat := &ScamCategory{
		Label:    CategoryPhishing,
		Keywords: []string{"a", "b", "c", "d"},
	}

	tests := []struct {
		matches int
		want    float64
	}{
		{0, 0},
		{1, 0.5}, // 1/4 * 2
		{2, 1},   // 2/4 * 2
		{4, 1},   // capped
	}
	for _, tt := range tests {
		if got := cat.Confidence(tt.matches); got != tt.want {
			t.Errorf("Confidence(%d) = %v, want %v", tt.matches, got, tt.want)
		}
	}
}

func TestNewScamCategory(t *testing.T) {
	if _, err := NewScamCategory("  Phishing ", []string{"kw"}, nil); err != nil {
		t.Fatalf("expected trimmed+lowered label to be accepted: %v", err)
	}
	if _, err := NewScamCategory("", []string{"kw"}, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Error("empty label should be rejected")
	}
	if _, err := NewScamCategory("x", nil, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Error("a category without keywords should be rejected")
	}
}

func TestBuiltinCategories(t *testing.T) {
	cats := BuiltinCategories()
	if len(cats) != 4 {
		t.Fatalf("expected 4 builtin categories, got %d", len(cats))
	}
	labels := map[string]bool{}
	for _, c := range cats {
		labels[c.Label] = true
		if len(c.Keywords) == 0 || len(c.HindiKeywords) == 0 {
			t.Errorf("category %s should carry keywords in both languages", c.Label)
		}
	}
	for _, want := range []string{CategoryPhishing, CategoryOTPScam, CategoryJobFraud, CategoryFakeLink} {
		if !labels[want] {
			t.Errorf("missing builtin category %s", want)
		}
	}
}

// --- Emergency Phrase Tests ---

func TestContainsEmergencyPhrase(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"I already GAVE OTP to them, help", true},
		{"i sent money an hour ago", true},
		{"मुझसे धोखा हुआ है", true},
		{"is this message a scam?", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ContainsEmergencyPhrase(tt.message); got != tt.want {
			t.Errorf("ContainsEmergencyPhrase(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

// --- URL Verdict Tests ---

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds https scheme", "Example.com/Path", "https://example.com/Path"},
		{"lowercases scheme and host", "HTTP://BIT.LY/abc", "http://bit.ly/abc"},
		{"trims whitespace", "  https://example.com  ", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalURL(tt.in)
			if err != nil {
				t.Fatalf("CanonicalURL(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("rejects empty and hostless input", func(t *testing.T) {
		for _, in := range []string{"", "   ", "https://"} {
			if _, err := CanonicalURL(in); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("CanonicalURL(%q) should return ErrInvalidArgument", in)
			}
		}
	})
}

// --- Scan Report Tests ---

func TestNewScanReport(t *testing.T) {
	t.Run("truncates long previews", func(t *testing.T) {
		long := strings.Repeat("x", 500)
		r, err := NewScanReport("user-1", ScanKindMessage, long)
		if err != nil {
			t.Fatalf("NewScanReport failed: %v", err)
		}
		if len([]rune(r.InputPreview)) != previewLimit {
			t.Errorf("preview length = %d, want %d", len([]rune(r.InputPreview)), previewLimit)
		}
		if r.ID == "" {
			t.Error("expected a generated ULID id")
		}
	})

	t.Run("rejects missing user and unknown kind", func(t *testing.T) {
		if _, err := NewScanReport("", ScanKindMessage, "m"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Error("empty user id should be rejected")
		}
		if _, err := NewScanReport("u", ScanKind("bogus"), "m"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Error("unknown scan kind should be rejected")
		}
	})
}
