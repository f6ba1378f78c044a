package repo

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"social-dashboard/internal/core/trace"
)

// HeaderRequestID is forwarded upstream so remote calls can be matched to the page request.
const HeaderRequestID = "X-Request-ID"

// loggingRoundTripper logs every outbound call at debug level and failures at warn.
type loggingRoundTripper struct {
	inner http.RoundTripper
	log   *zap.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	if rid := trace.RequestID(req.Context()); rid != "" {
		req = req.Clone(req.Context())
		req.Header.Set(HeaderRequestID, rid)
	}

	resp, err := l.inner.RoundTrip(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Duration("latency", time.Since(start)),
		zap.String("rid", req.Header.Get(HeaderRequestID)),
	}
	if err != nil {
		l.log.Warn("remote request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	l.log.Debug("remote request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

// NewHTTPClient builds the client used against the remote API. Timeout 0 means 10s.
func NewHTTPClient(timeout time.Duration, log *zap.Logger) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport, log: log},
	}
}
