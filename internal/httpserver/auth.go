// internal/httpserver/auth.go
//
// Player identity.
// Responsibilities:
//   - Sign HS256 player tokens (POST /player/token) and set them as a cookie.
//   - Optional-auth middleware: decorate requests with the token's player.
//   - Anonymous cookie for guests, so their rounds and history stay theirs.
//
// There are no passwords. A token is a signed claim to a player ID; losing
// it means starting over as a new player.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	anonCookieName     = "wordpuzzle_anon"
	defaultTokenCookie = "wordpuzzle_token"
	defaultSecret      = "dev_secret_change_me"
)

// TokenConfig controls player token signing and cookies.
type TokenConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool // Secure + SameSite=None cookies (production)
}

func (c TokenConfig) withDefaults() TokenConfig {
	if c.Secret == "" {
		c.Secret = defaultSecret
	}
	if c.TTL <= 0 {
		c.TTL = 14 * 24 * time.Hour
	}
	if c.CookieName == "" {
		c.CookieName = defaultTokenCookie
	}
	return c
}

func (c TokenConfig) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Player is placed into request context by the auth middleware.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playerClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// ctxPlayerKey is the context key type for storing *Player.
type ctxPlayerKey struct{}

func playerFrom(ctx context.Context) *Player {
	p, _ := ctx.Value(ctxPlayerKey{}).(*Player)
	return p
}

// playerID returns the token player's ID, or the guest's anonymous ID
// (setting the cookie on first use).
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if p := playerFrom(r.Context()); p != nil {
		return p.ID
	}
	return s.ensureAnonID(w, r)
}

// signToken creates an HS256 JWT for the player.
func (s *Server) signToken(p Player) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.tokens.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, playerClaims{
		Name: p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString([]byte(s.tokens.Secret))
	return ss, exp, err
}

// parseToken validates tok and returns its player.
func (s *Server) parseToken(tok string) (*Player, error) {
	claims := &playerClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.tokens.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return &Player{ID: claims.Subject, Name: claims.Name}, nil
}

// withOptionalAuth decorates requests with the player if a valid token is
// present. It never 401s.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := s.bearerOrCookie(r); tok != "" {
				if p, err := s.parseToken(tok); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the token cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.tokens.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := "anon-" + uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.tokens.Secure,
		SameSite: s.tokens.sameSite(),
		Expires:  s.clock.Now().Add(180 * 24 * time.Hour),
	})
	// visible to later reads within the same request
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

func (s *Server) setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.tokens.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.tokens.Secure,
		SameSite: s.tokens.sameSite(),
		Expires:  exp,
	})
}

// validateName enforces basic display-name rules.
func validateName(n string) error {
	if len(n) < 3 || len(n) > 24 {
		return errors.New("name must be 3-24 chars")
	}
	for _, r := range n {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("name: letters, numbers, underscore only")
		}
	}
	return nil
}

type tokenReq struct {
	Name string `json:"name"`
}

type tokenRes struct {
	Player
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handlePlayerToken issues a token for a new player, or re-issues one for
// the caller's current identity. A guest keeps their anonymous ID so rounds
// already played carry over.
func (s *Server) handlePlayerToken(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if !decodeOptional(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = "guest"
	} else if err := validateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := Player{ID: s.playerID(w, r), Name: req.Name}
	tok, exp, err := s.signToken(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setTokenCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, tokenRes{Player: p, Token: tok, ExpiresAt: exp})
}

// handleMe returns the token's player, 401 for guests.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	if p == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
