package server

import (
	"net/http"
	"runtime"
	"time"
)

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// logRequests logs method, path, status and latency of every request and recovers panics.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]
				s.log.Errorf("panic serving %s: %v\n%s", r.URL.Path, err, buf)

				// Only effective if the handler has not written the header yet.
				if rec.status == 0 {
					s.writeJSON(rec, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
				}
			}

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			s.log.Infof("%s %s %d %s", r.Method, r.URL.Path, status, time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}

// limitRate rejects requests above the configured rate.
func (s *Server) limitRate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			if s.metrics != nil {
				s.metrics.RateLimited()
			}
			w.Header().Set("Retry-After", "1")
			s.writeError(w, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody bounds the request body size.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		next.ServeHTTP(w, r)
	})
}
