package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"catalog/internal/auth"
	"catalog/internal/errors"
	"catalog/internal/logging"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	requestIDKey  contextKey = "requestID"
	renderNoteKey contextKey = "renderNote"
)

// renderNote is filled in by the render path so the access log can say what
// was served.
type renderNote struct {
	dataset string
	format  string
	cached  bool
	set     bool
}

// noteRender records the rendered document on the request, if the request
// goes through LoggingMiddleware.
func noteRender(ctx context.Context, dataset, format string, cached bool) {
	if n, ok := ctx.Value(renderNoteKey).(*renderNote); ok {
		*n = renderNote{dataset: dataset, format: format, cached: cached, set: true}
	}
}

// LoggingMiddleware writes one access line per request: status, size and,
// for rendered documents, the dataset, format and cache outcome. Server
// errors log at error level and client errors at warn.
func LoggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			note := &renderNote{}
			wrapped := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), renderNoteKey, note)))

			status := wrapped.status()
			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				"status":             status,
				"bytes":              wrapped.written,
				"durationMs":         time.Since(start).Milliseconds(),
				logging.KeyRequestID: GetRequestID(r.Context()),
			}
			if note.set {
				fields[logging.KeyDataset] = note.dataset
				fields[logging.KeyFormat] = note.format
				fields["cached"] = note.cached
			} else if f := r.URL.Query().Get("format"); f != "" {
				fields[logging.KeyFormat] = f
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("HTTP request failed", fields)
			case status >= http.StatusBadRequest:
				logger.Warn("HTTP request rejected", fields)
			default:
				logger.Info("HTTP request", fields)
			}
		})
	}
}

// RecoveryMiddleware turns a handler panic into a 500 INTERNAL_ERROR. The
// panic value and stack go to the log only.
func RecoveryMiddleware(logger *logging.Logger, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("Panic recovered", map[string]interface{}{
						"method":             r.Method,
						"path":               r.URL.Path,
						"error":              fmt.Sprintf("%v", p),
						"stack":              string(debug.Stack()),
						logging.KeyRequestID: GetRequestID(r.Context()),
					})
					if metrics != nil {
						metrics.RecordError(string(errors.InternalError))
					}
					WriteCatalogError(w, errors.New(errors.InternalError, "internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware rejects requests without a valid bearer token when auth is
// enabled. The health check stays public for probes.
func AuthMiddleware(a *auth.Authenticator, logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !a.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}
			if err := a.Authenticate(r.Header.Get("Authorization")); err != nil {
				logger.Warn("Rejected unauthenticated request", map[string]interface{}{
					"path":               r.URL.Path,
					logging.KeyRequestID: GetRequestID(r.Context()),
				})
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
				WriteCatalogError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// compressionMinSize is the smallest body worth compressing.
const compressionMinSize = 256

// CompressionMiddleware gzips responses for clients that accept it.
func CompressionMiddleware() func(http.Handler) http.Handler {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(compressionMinSize))
	if err != nil {
		// Only reachable with invalid static options.
		panic(err)
	}
	return func(next http.Handler) http.Handler {
		return wrap(next)
	}
}

// CORSMiddleware allows read-only cross-origin use of the API. Browsers
// may read the request id and the CSV attachment name.
func CORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, X-Request-ID")
				h.Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// maxRequestIDLen bounds client-supplied request ids.
const maxRequestIDLen = 64

// RequestIDMiddleware propagates X-Request-ID, replacing missing or
// malformed client ids with a fresh UUID.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if !validRequestID(reqID) {
				reqID = uuid.NewString()
			}

			w.Header().Set("X-Request-ID", reqID)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, reqID)))
		})
	}
}

// validRequestID accepts ids made of letters, digits, '-', '_' and '.'.
// Anything else could forge log lines.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// responseWriter records the status and the number of body bytes written.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.statusCode == 0 {
		rw.statusCode = statusCode
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(data)
	rw.written += int64(n)
	return n, err
}

func (rw *responseWriter) status() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
