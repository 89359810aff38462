package routes

import (
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/httputil"
	"github.com/gorilla/mux"
)

/*
 * CORSMiddleware handles CORS headers for all requests.
 * It configures cross-origin resource sharing from the loaded settings.
 *
 * Configuration:
 *   - ORIGIN is sent as Access-Control-Allow-Origin
 *   - CREDENTIALS controls Access-Control-Allow-Credentials
 *
 * Preflight (OPTIONS) requests are answered with 200 and never reach the handler.
 */
func CORSMiddleware(cors config.CORSSettings) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			debug.Debug("Processing CORS for %s %s from origin %s", r.Method, r.URL.Path, r.Header.Get("Origin"))

			w.Header().Set("Access-Control-Allow-Origin", cors.Origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Origin")
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Add("Vary", "Origin")
			if cors.Credentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				debug.Debug("Handling OPTIONS preflight request for path: %s", r.URL.Path)
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs every request with its status and duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// For OPTIONS requests, just log minimally
		if r.Method == http.MethodOptions {
			debug.Debug("OPTIONS request received: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		debug.Info("Request received: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		// Create a response wrapper to capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		debug.Info("Request completed: %s %s - Status: %d - Duration: %v",
			r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// BodyLimitMiddleware caps request bodies at limit bytes. Reads past the limit
// fail, and the handler reading the body reports the failure.
func BodyLimitMiddleware(limit int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParameterLimitMiddleware rejects url-encoded form bodies carrying more than
// limit parameters. Query strings and other body types pass through.
func ParameterLimitMiddleware(limit int) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || !isURLEncodedForm(r) {
				next.ServeHTTP(w, r)
				return
			}

			if err := r.ParseForm(); err != nil {
				debug.Warning("Failed to parse form body for %s %s: %v", r.Method, r.URL.Path, err)
				next.ServeHTTP(w, r)
				return
			}

			count := 0
			for _, values := range r.PostForm {
				count += len(values)
			}
			if count > limit {
				debug.Warning("Rejecting %s %s: %d parameters exceed limit %d", r.Method, r.URL.Path, count, limit)
				httputil.RespondWithError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("Too many parameters (limit %d)", limit))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isURLEncodedForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}
