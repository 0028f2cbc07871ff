package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger writes one structured log line per request. The level
// follows the response status.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			var event *zerolog.Event
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}

			if requestID := middleware.GetReqID(r.Context()); requestID != "" {
				event = event.Str("request_id", requestID)
			}

			event.
				Dur("latency", time.Since(start)).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Str("ip", r.RemoteAddr).
				Msg("request")
		})
	}
}
