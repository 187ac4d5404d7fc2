package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "guard_session"

var errNoSession = errors.New("no session token")

// operatorClaims is the payload of a minted operator session. The bot
// has exactly one operator role, so the claims carry nothing beyond the
// registered set and a marker subject.
type operatorClaims struct {
	jwt.RegisteredClaims
}

// AuthManager mints and validates operator sessions for the admin API.
// Sessions are HS256 JWTs delivered both as the response body token and
// as an HttpOnly cookie, so curl and a browser dashboard both work.
type AuthManager struct {
	secret []byte
	domain string
	secure bool
	ttl    time.Duration
}

func NewAuthManager(secret string, secure bool, domain string, ttl time.Duration) *AuthManager {
	return &AuthManager{
		secret: []byte(secret),
		domain: domain,
		secure: secure,
		ttl:    ttl,
	}
}

// Mint signs a fresh session token and sets it as the session cookie.
func (a *AuthManager) Mint(w http.ResponseWriter) (string, error) {
	now := time.Now()
	claims := operatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", err
	}
	a.setCookie(w, signed, int(a.ttl.Seconds()))
	return signed, nil
}

// Clear expires the session cookie. The JWT itself stays valid until its
// exp; logout is cookie-deletion only.
func (a *AuthManager) Clear(w http.ResponseWriter) {
	a.setCookie(w, "", -1)
}

func (a *AuthManager) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Domain:   a.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ParseFromRequest extracts a session token from the Authorization header
// (Bearer scheme) or, failing that, from the session cookie.
func (a *AuthManager) ParseFromRequest(r *http.Request) (*operatorClaims, error) {
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		scheme, token, found := strings.Cut(hdr, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return a.verify(strings.TrimSpace(token))
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return a.verify(c.Value)
	}
	return nil, errNoSession
}

func (a *AuthManager) verify(token string) (*operatorClaims, error) {
	claims := &operatorClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
