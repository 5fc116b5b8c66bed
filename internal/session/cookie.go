package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/config"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"go.uber.org/zap"
)

// Transport carries session tokens in an HTTP cookie
type Transport struct {
	codec    *Codec
	name     string
	domain   string
	secure   bool
	sameSite http.SameSite
	logger   *zap.Logger
}

// NewTransport creates a cookie transport from the cookie configuration
func NewTransport(codec *Codec, cfg config.CookieConfig, logger *zap.Logger) (*Transport, error) {
	sameSite, err := cfg.SameSiteMode()
	if err != nil {
		return nil, err
	}

	domain := strings.TrimSpace(cfg.Domain)
	if cfg.HostOnly() {
		domain = ""
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Transport{
		codec:    codec,
		name:     cfg.Name,
		domain:   domain,
		secure:   cfg.Secure,
		sameSite: sameSite,
		logger:   logger,
	}, nil
}

// cookie is the single source of the attributes shared by Attach and Clear.
// Browsers only delete a cookie whose domain, path, secure and samesite match.
func (t *Transport) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     t.name,
		Value:    value,
		Path:     "/",
		Domain:   t.domain,
		Secure:   t.secure,
		HttpOnly: true,
		SameSite: t.sameSite,
	}
}

// Attach sets the session cookie carrying token
func (t *Transport) Attach(w http.ResponseWriter, token string) {
	c := t.cookie(token)
	c.MaxAge = int(t.codec.Validity() / time.Second)
	http.SetCookie(w, c)
}

// Clear instructs the browser to drop the session cookie
func (t *Transport) Clear(w http.ResponseWriter) {
	c := t.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// Resolve returns the caller identity carried by the request's session
// cookie. A missing or invalid cookie yields false, never an error.
func (t *Transport) Resolve(r *http.Request) (domain.Identity, bool) {
	c, err := r.Cookie(t.name)
	if err != nil || c.Value == "" {
		return domain.Identity{}, false
	}

	claims, err := t.codec.Verify(c.Value)
	if err != nil {
		t.logger.Debug("session cookie rejected", zap.String("reason", reason(err)))
		return domain.Identity{}, false
	}

	return domain.Identity{ID: claims.Subject, Email: claims.Email}, true
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrIssuerMismatch):
		return "issuer_mismatch"
	case errors.Is(err, ErrAudienceMismatch):
		return "audience_mismatch"
	default:
		return "malformed"
	}
}
