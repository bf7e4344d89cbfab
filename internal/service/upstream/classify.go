// Package upstream holds the live data clients and maps their failures onto the
// UpstreamError kinds.
package upstream

import (
	"context"
	"errors"
	"net"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	xhttp "FinDash/pkg/http"
)

// Classify wraps err into a *models.UpstreamError. Already classified errors pass through.
func Classify(source string, err error) error {
	if err == nil {
		return nil
	}
	var ue *models.UpstreamError
	if errors.As(err, &ue) {
		return err
	}

	out := &models.UpstreamError{Source: source, Err: err}

	var statusErr *xhttp.StatusError
	var decodeErr *xhttp.DecodeError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		out.Kind = models.ErrUpstreamHTTP
		out.Status = statusErr.StatusCode
	case errors.As(err, &decodeErr):
		out.Kind = models.ErrMalformedResponse
	case errors.Is(err, context.DeadlineExceeded):
		out.Kind = models.ErrUpstreamTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		out.Kind = models.ErrUpstreamTimeout
	default:
		out.Kind = models.ErrUpstreamUnreachable
	}
	return out
}

// Malformed reports a response that decoded but lacks the fields we need.
func Malformed(source, reason string) error {
	return &models.UpstreamError{Kind: models.ErrMalformedResponse, Source: source, Err: errors.New(reason)}
}

// Observe records one upstream call on m.
func Observe(m drepo.Metrics, source string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = models.KindOf(err)
	}
	m.RecordUpstream(source, result, time.Since(start).Seconds())
}
