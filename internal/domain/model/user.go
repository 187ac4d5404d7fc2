package model

import (
	"time"

	"telegram-scam-guard/internal/domain"

	"github.com/google/uuid"
)

// Language is a user-facing language preference.
type Language string

const (
	LangEnglish Language = "english"
	LangHindi   Language = "hindi"
)

// ParseLanguage normalizes a stored/user-supplied language code.
// Unknown values fall back to English.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LangHindi:
		return LangHindi
	default:
		return LangEnglish
	}
}

// User is a domain entity representing a Telegram user in our system.
// Language is the preference every reply is rendered in.
type User struct {
	ID           string
	TelegramID   int64
	Username     string
	Language     Language
	RegisteredAt time.Time
	LastActiveAt time.Time
	IsAdmin      bool
}

func NewUser(id string, tgID int64, username string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	u := &User{
		ID:           id,
		TelegramID:   tgID,
		Username:     username,
		Language:     LangEnglish,
		RegisteredAt: time.Now(),
		LastActiveAt: time.Now(),
		IsAdmin:      false,
	}
	return u, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }
