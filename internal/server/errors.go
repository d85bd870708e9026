package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vearutop/photoenhance"
	"github.com/vearutop/photoenhance/internal/metrics"
	"github.com/vearutop/photoenhance/internal/store"
)

var errRateLimited = errors.New("too many requests, try again later")

type requestError struct {
	err error
}

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return requestError{err: fmt.Errorf(format, args...)}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps an error to an HTTP status code.
func statusOf(err error) int {
	var (
		maxBytes *http.MaxBytesError
		reqErr   requestError
	)

	switch {
	case errors.As(err, &maxBytes), errors.Is(err, photoenhance.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, photoenhance.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, photoenhance.ErrEmptyImage), errors.Is(err, photoenhance.ErrCorruptImage):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func outcomeOf(err error) string {
	if statusOf(err) < http.StatusInternalServerError {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		s.log.Errorf("request failed: %s", err)
		msg = http.StatusText(status)
	} else {
		s.log.Debugf("request rejected: %s", err)
	}

	s.writeJSON(w, status, errorResponse{Error: msg})
}
