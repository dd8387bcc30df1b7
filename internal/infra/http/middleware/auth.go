package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionClaims is the token issued by the auth provider: sub is the user
// id, role is one of admin, gestor or user.
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate verifies the Bearer token and stores the session in the
// request context. Missing or invalid tokens get 401.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeUnauthorized(w, "token ausente")
			return
		}

		session, err := a.Parse(strings.TrimSpace(token))
		if err != nil {
			slog.Debug("rejected session token", "error", err)
			writeUnauthorized(w, "token inválido")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func (a *Authenticator) Parse(token string) (*entity.Session, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, errors.New("sub claim is required")
	}

	return &entity.Session{
		UserID: claims.Subject,
		Email:  strings.ToLower(claims.Email),
		Role:   entity.Role(claims.Role),
	}, nil
}

// Issue signs a session token. Used by tests and the seed tooling.
func (a *Authenticator) Issue(session entity.Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: session.Email,
		Role:  string(session.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func WithSession(ctx context.Context, s *entity.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (*entity.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*entity.Session)
	return s, ok && s != nil
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "UNAUTHORIZED",
		"message": msg,
	})
}
