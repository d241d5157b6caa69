package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const subjectKey contextKey = "auth.subject"

// SubjectFromContext returns the authenticated caller's profile ID, as
// placed there by BearerAuth.
func SubjectFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(subjectKey).(uuid.UUID)
	return id, ok
}

// WithSubject returns a context carrying the given profile ID. Exposed so
// handler tests can bypass token minting.
func WithSubject(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, subjectKey, id)
}

// BearerAuth returns middleware that verifies an HMAC-signed bearer token
// and stores its subject (a profile UUID) in the request context.
// Requests without a valid token get 401. Role checks happen downstream;
// this layer only establishes identity.
//
// When issuer is non-empty the token's iss claim must match it.
func BearerAuth(secret, issuer string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				slog.Warn("auth: missing bearer token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				unauthorized(w, "missing bearer token")
				return
			}

			opts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			}
			if issuer != "" {
				opts = append(opts, jwt.WithIssuer(issuer))
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				return key, nil
			}, opts...)
			if err != nil || !token.Valid {
				slog.Warn("auth: invalid bearer token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				unauthorized(w, "invalid bearer token")
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				unauthorized(w, "token has no subject")
				return
			}

			id, err := uuid.Parse(sub)
			if err != nil {
				unauthorized(w, "token subject is not a valid id")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), id)))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": "AUTH_REQUIRED"})
}
