// Package flash carries a one-shot notice across a POST/redirect/GET cycle
// in an HMAC-signed cookie. The notice is shown once and then cleared.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

const (
	cookieName   = "fplc_flash"
	minSecretLen = 32
	// maxAge bounds how long an unread notice survives, in seconds.
	maxAge = 300
)

var (
	ErrInvalidFormat    = errors.New("invalid flash token format")
	ErrInvalidSignature = errors.New("invalid flash signature")
)

// SecretBytes pads s to at least 32 bytes for use as the signing key.
func SecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}

// Encode signs notice with secret.
func Encode(notice string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(notice))
	sig := hex.EncodeToString(mac.Sum(nil))
	return base64.RawURLEncoding.EncodeToString([]byte(notice)) + "." + sig
}

// Decode verifies token and returns the notice it carries.
func Decode(token string, secret []byte) (string, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", ErrInvalidFormat
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidFormat
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return "", ErrInvalidSignature
	}
	return string(payload), nil
}

// Store reads and writes flash cookies.
type Store struct {
	secret []byte
	secure bool
}

// NewStore creates a Store. secure marks the cookie HTTPS-only.
func NewStore(secret []byte, secure bool) *Store {
	return &Store{secret: secret, secure: secure}
}

// Set queues notice for the next request.
func (s *Store) Set(w http.ResponseWriter, notice string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    Encode(notice, s.secret),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the queued notice, if any, and clears it. Tampered cookies
// are cleared and ignored.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	notice, err := Decode(c.Value, s.secret)
	if err != nil || notice == "" {
		return "", false
	}
	return notice, true
}
