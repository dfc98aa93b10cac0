package logging

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// requestIDLength is the number of uuid characters kept for the correlation id.
const requestIDLength = 8

// HTTPMiddleware wraps each request in a fresh logging context and logs the
// request boundary:
//   - on entry: generates a short correlation id, sets the ambient context with
//     method/path extras, and logs "request started"
//   - on normal completion: updates the context with the response status and logs
//     "request completed"
//   - on panic: logs "request failed" with the captured exception, then re-panics;
//     the hook observes and logs, it never swallows
//
// Exactly one terminal record is produced per request.
func HTTPMiddleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := generateRequestID()

			ctx := logger.SetContext(r.Context(),
				WithRequestID(requestID),
				WithContextExtra(map[string]interface{}{
					FieldMethod: r.Method,
					FieldPath:   r.URL.Path,
				}),
			)
			r = r.WithContext(ctx)

			logger.Infof(ctx, "request started - %s %s", r.Method, r.URL.Path)

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					logger.Error(ctx,
						fmt.Sprintf("request failed - %s %s - %v", r.Method, r.URL.Path, err),
						Err(err),
					)
					panic(rec)
				}
			}()

			next.ServeHTTP(wrapped, r)

			ctx = logger.SetContext(ctx,
				WithRequestID(requestID),
				WithContextExtra(map[string]interface{}{
					FieldMethod:     r.Method,
					FieldPath:       r.URL.Path,
					FieldStatusCode: wrapped.statusCode,
				}),
			)

			logger.Infof(ctx, "request completed - %s %s - status: %d",
				r.Method, r.URL.Path, wrapped.statusCode)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// generateRequestID returns a short opaque correlation id.
func generateRequestID() string {
	return uuid.NewString()[:requestIDLength]
}
