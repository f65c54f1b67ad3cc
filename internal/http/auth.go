package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/runtimeconfig"
)

var (
	ErrAuthSecretRequired = errors.New("http: auth secret is required")
	errBearerMissing      = errors.New("bearer token required")
)

// SignAdminToken issues an HS256 token accepted by the admin routes.
func SignAdminToken(cfg runtimeconfig.AuthConfig, subject string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return "", ErrAuthSecretRequired
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   cfg.Issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

func parseAdminToken(cfg runtimeconfig.AuthConfig, raw string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errBearerMissing
	}
	return strings.TrimSpace(token), nil
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}
		raw, err := bearerToken(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="padel-admin"`)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: err.Error()})
			return
		}
		claims, err := parseAdminToken(s.auth, raw)
		if err != nil {
			s.loggerFor(r).Warn("http.admin.token_rejected", "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="padel-admin", error="invalid_token"`)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "invalid token"})
			return
		}
		ctx := logging.ContextWithFields(r.Context(), map[string]any{"subject": claims.Subject})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
