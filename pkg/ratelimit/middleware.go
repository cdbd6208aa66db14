package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"task-manager/internal/dto"
)

const codeRateLimited = "RATE_LIMITED"

// Middleware rejects requests over the limit with 429. Requests are keyed by
// client IP, so chimiddleware.RealIP should run first.
func Middleware(limiter Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := limiter.Allow(r.Context(), scope+":"+clientIP(r))
			if decision.Limit > 0 {
				remaining := decision.Limit - decision.Count
				if remaining < 0 {
					remaining = 0
				}
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}

			if !decision.Allowed {
				retryAfter := int(time.Until(decision.WindowEnd).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				if err := json.NewEncoder(w).Encode(dto.ErrorResponse{
					Error: dto.ErrorDetail{Code: codeRateLimited, Message: "too many requests, retry later"},
				}); err != nil {
					slog.Warn("failed to encode JSON response", "error", err)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return host
}
