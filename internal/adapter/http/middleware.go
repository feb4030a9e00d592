package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

type contextKey string

const actorKey contextKey = "actor"

func LoggingMiddleware(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := fmt.Sprintf("req-%d", time.Now().UnixNano())

			logger.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			next.ServeHTTP(w, r)

			duration := time.Since(start)
			logger.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"duration_ms": duration.Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered", "Panic recovered", "", nil, fmt.Errorf("%v", err))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware resolves the bearer credential to an actor. A failed
// verification is a session error: the response is 401 so clients drop
// the stored credential and force re-authentication.
func AuthMiddleware(verifier interfaces.TokenVerifier, logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondError(w, domain.NewSessionError(fmt.Errorf("missing bearer token")))
				return
			}

			actor, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn("auth_failed", "Token verification failed", "", map[string]interface{}{
					"path": r.URL.Path,
				})
				respondError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFrom(r *http.Request) (domain.Actor, bool) {
	actor, ok := r.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}
