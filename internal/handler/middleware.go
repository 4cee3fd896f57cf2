package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/auth"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type claimsKey struct{}

// ClaimsFrom returns the caller's claims, or nil for anonymous requests.
func ClaimsFrom(ctx context.Context) *model.Claims {
	c, _ := ctx.Value(claimsKey{}).(*model.Claims)
	return c
}

// WithClaims stores claims on ctx.
func WithClaims(ctx context.Context, c *model.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// Authenticate decodes the bearer credential once per request. Invalid or
// missing credentials leave the request anonymous; RequireRoles decides
// what that means.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if claims := tokens.Decode(strings.TrimSpace(token)); claims != nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles admits callers holding one of roles, or any authenticated
// caller when roles is empty. The decision is made before the handler runs.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := auth.NewGuard(roles...).Resolve(ClaimsFrom(r.Context()))
			if err := d.Err(); err != nil {
				if d.Redirect == auth.RedirectLogin {
					writeError(w, http.StatusUnauthorized, err.Error())
				} else {
					writeError(w, http.StatusForbidden, msgForbidden)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Logger writes one structured access log line per request, levelled by
// status class.
func Logger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.Int("status", status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("body_size", ww.BytesWritten()),
			}
			if c := ClaimsFrom(r.Context()); c != nil {
				fields = append(fields, zap.String("user_id", c.UserID))
			}

			switch {
			case status >= 500:
				log.Error("server error", fields...)
			case status >= 400:
				log.Warn("client error", fields...)
			default:
				log.Info("request completed", fields...)
			}
		})
	}
}

// CORS allows browser clients served from origin.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-Id")
			h.Set("Access-Control-Max-Age", "300")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
