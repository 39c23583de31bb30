package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheodrd/httphelper/handler"
	"golang.org/x/time/rate"

	"github.com/daniosoriov/todo-manager/internal/token"
)

type AuthError struct {
	Error string `json:"error"`
}

var unauthorized = &AuthError{Error: "Unauthorized"}
var tooManyRequests = &AuthError{Error: "Too many requests, please try again later."}

type contextKey string

// identityKey holds the *token.Claims of the verified caller.
const identityKey contextKey = "identity"

func IdentityFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(identityKey).(*token.Claims)
	return claims, ok
}

// AuthMiddleware is the access gate: it extracts the bearer token, verifies it
// against the access secret and attaches the decoded identity to the request
// context. Any verification failure stops the chain with a 401.
func (s *Server) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				s.reject(w, unauthorized)
				return
			}

			bearer := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := token.Verify(bearer, s.Config.JwtSecret)
			if err != nil {
				s.reject(w, unauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RefreshAuthMiddleware is the refresh gate. The presented refresh token comes
// from the request body, not the header, and is verified against the refresh
// secret. The body is restored afterwards for the handler.
func (s *Server) RefreshAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := readBody(r)
			if err != nil {
				s.reject(w, unauthorized)
				return
			}

			var payload struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(body, &payload); err != nil || payload.Token == "" {
				s.reject(w, unauthorized)
				return
			}

			claims, err := token.Verify(payload.Token, s.Config.JwtRefreshSecret)
			if err != nil {
				s.reject(w, unauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters tracks one rate limiter per client IP. Entries idle for a
// full window are swept out so the table cannot grow without bound under
// address-cycling clients.
type clientLimiters struct {
	mu        sync.Mutex
	window    time.Duration
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newClientLimiters(window time.Duration) *clientLimiters {
	return &clientLimiters{
		window:    window,
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
	}
}

func (c *clientLimiters) get(ip string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) >= c.window {
		for addr, client := range c.clients {
			if now.Sub(client.lastSeen) >= c.window {
				delete(c.clients, addr)
			}
		}
		c.lastSweep = now
	}

	client, ok := c.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Every(c.window/10), 10)}
		c.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

func (c *clientLimiters) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// RateLimitMiddleware allows 10 requests per 15 minutes per client IP.
func (s *Server) RateLimitMiddleware() func(http.Handler) http.Handler {
	limiters := newClientLimiters(15 * time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiters.get(ip, time.Now()).Allow() {
				if err := handler.Encode(tooManyRequests, http.StatusTooManyRequests, w); err != nil {
					s.log.Error("Error encoding response", "err", err)
					w.WriteHeader(http.StatusInternalServerError)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// LogRequestMiddleware logs every request with a generated request id.
func (s *Server) LogRequestMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			s.log.Info("request",
				"id", uuid.NewString(),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

func (s *Server) reject(w http.ResponseWriter, authErr *AuthError) {
	if err := handler.Encode(authErr, http.StatusUnauthorized, w); err != nil {
		s.log.Error("Error encoding response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// readBody drains the request body and puts a rewound copy back so the next
// reader sees the full payload.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}
