package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"offerwatch/pkg/contextx"
	"offerwatch/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// LoggingRoundTripper executes HTTP requests and logs method, URL, status
// and duration. Bodies are deliberately not dumped: scraped pages run to
// hundreds of kilobytes.
type LoggingRoundTripper struct {
	next http.RoundTripper
}

// NewLoggingRoundTripper returns a new logging RoundTripper instance.
func NewLoggingRoundTripper(next http.RoundTripper) LoggingRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return LoggingRoundTripper{next: next}
}

// RoundTrip implements http.RoundTripper.
func (rt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := xid.New().String()

	logger(ctx).Info(
		"http request",
		slog.String(logx.FieldRequestID, requestID),
		slog.String(logx.FieldHTTPMethod, req.Method),
		slog.String(logx.FieldURL, req.URL.String()),
	)

	start := time.Now()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		logger(ctx).Error(
			"http request failed",
			slog.String(logx.FieldRequestID, requestID),
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
			logx.Error(err),
		)

		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	logger(ctx).Info(
		"http response",
		slog.String(logx.FieldRequestID, requestID),
		slog.Int(logx.FieldHTTPStatus, resp.StatusCode),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return resp, nil
}
