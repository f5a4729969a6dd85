// Package gateway is the single choke point for outbound REST traffic: it
// attaches the stored bearer token to every request and watches every
// response for an authentication rejection.
package gateway

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yeohaeng/travel-client/credentials"
)

// Transport is an http.RoundTripper wrapping a base transport.
//
// Request phase: when the credential store holds an access token it is sent
// as an Authorization bearer header; unauthenticated requests pass through
// unchanged. Response phase: a 401 triggers the registered unauthorized
// handler, which owns session teardown and is idempotent under concurrent
// 401s. Every other response and transport error is the caller's business.
type Transport struct {
	base   http.RoundTripper
	creds  credentials.Store
	logger zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

var _ http.RoundTripper = (*Transport)(nil)

// TransportOption modifies the Transport during construction.
type TransportOption func(*Transport)

// WithBase sets the underlying round tripper (http.DefaultTransport otherwise).
func WithBase(rt http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = rt
	}
}

// WithLogger sets the logger used by the transport.
func WithLogger(l zerolog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = l
	}
}

// New creates a Transport reading bearer tokens from creds.
func New(creds credentials.Store, options ...TransportOption) *Transport {
	t := &Transport{
		base:   http.DefaultTransport,
		creds:  creds,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// SetUnauthorizedHandler registers the forced-logout hook. Registered after
// construction because the session manager and the transport reference each
// other across the HTTP client between them.
func (t *Transport) SetUnauthorizedHandler(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUnauthorized = fn
}

// Client returns an http.Client routed through this transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec, err := t.creds.Read()
	if err != nil {
		t.logger.Warn().Err(err).Msg("credential read failed, sending request without bearer token")
	}
	if rec != nil && rec.AccessToken != "" {
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+rec.AccessToken)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.mu.RLock()
		fn := t.onUnauthorized
		t.mu.RUnlock()
		if fn != nil {
			t.logger.Info().Str("url", req.URL.Path).Msg("request rejected as unauthenticated")
			fn()
		}
	}
	return resp, nil
}
