package renderserver

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/metrics"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

// Middleware chains trace-id injection, bearer auth and per-IP rate
// limiting in front of the protected handlers. /health stays outside the
// chain; auth is optional there by contract.
type Middleware struct {
	token   string
	limiter *IPRateLimiter
	logger  *logger_i.Logger
}

func NewMiddleware(token string) *Middleware {
	m := &Middleware{
		token:   token,
		limiter: NewIPRateLimiter(),
		logger:  logger_i.NewLogger("Middleware"),
	}
	if token == "" {
		m.logger.Warn("No auth token configured, accepting all callers")
	}
	return m
}

func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		r = injectTrace(r)
		log := m.logger.With("traceId", r.Context().Value(config.TRACE_ID_KEY))

		if !m.authorized(r.Header.Get("Authorization")) {
			log.Warn("Unauthorized request", "path", r.URL.Path, "ip", r.RemoteAddr)
			writeError(rec, http.StatusUnauthorized, "Unauthorized", "")
		} else if !m.limiter.Allow(callerIP(r)) {
			log.Warn("Rate limit exceeded", "ip", r.RemoteAddr)
			writeError(rec, http.StatusTooManyRequests, "Rate limit exceeded", "")
		} else {
			next(rec, r)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func injectTrace(r *http.Request) *http.Request {
	trace := r.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = uuid.New().String()
	}
	r.Header.Set("X-Trace-Id", trace)
	ctx := context.WithValue(r.Context(), config.TRACE_ID_KEY, trace)
	return r.WithContext(ctx)
}

func (m *Middleware) authorized(authHeader string) bool {
	if m.token == "" {
		return true
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	presented := strings.TrimPrefix(authHeader, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(presented), []byte(m.token)) == 1
}

func callerIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
