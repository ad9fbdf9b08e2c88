package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const ClientTokenHeader = "X-WORKOUTLOG-TOKEN"

type AuthMiddlewareHandler struct {
	clientSecret string
	// paths readable without the token
	allowedPaths map[string]bool
}

// NewAuthMiddlewareHandler guards every path, except the always allowed ones, with the client secret.
// An empty secret disables the check.
func NewAuthMiddlewareHandler(clientSecret string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		clientSecret: clientSecret,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/session": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.clientSecret == "" || (r.Method == http.MethodGet && h.allowedPaths[r.URL.Path]) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get(ClientTokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(authToken), []byte(h.clientSecret)) != 1 {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-auth-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
