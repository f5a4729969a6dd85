// Package oauthcallback reconciles the browser redirect that ends a social
// login: it pulls the provider and the one-time authorization code out of
// the callback URL and drives the session manager to complete the exchange.
package oauthcallback

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yeohaeng/travel-client/auth"
)

// State of one callback navigation.
type State int

const (
	StatePending State = iota
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

const (
	// MsgCodeNotFound is shown when the redirect carries no code; the
	// backend is never contacted in that case.
	MsgCodeNotFound = "authorization code not found"
	// MsgExchangeFailed is the fallback when the exchange fails without a
	// server-provided message.
	MsgExchangeFailed = "Social login failed. Please try again."

	// How long the failure screen is held before returning to login.
	failureRedirectDelay = 3 * time.Second
)

// SocialLoginer is the slice of the session manager the reconciler drives.
type SocialLoginer interface {
	SocialLogin(ctx context.Context, provider, code string) error
}

// Reconciler handles exactly one callback navigation. Authorization codes
// are single-use server-side, so a duplicate Handle call must not attempt
// a second exchange.
type Reconciler struct {
	sessions  SocialLoginer
	navigator auth.Navigator
	delay     time.Duration
	newTimer  auth.TimerFactory
	logger    zerolog.Logger

	mu      sync.Mutex
	state   State
	message string
	handled bool
}

// Option modifies the Reconciler during construction.
type Option func(*Reconciler)

// WithRedirectDelay overrides the failure-screen hold time.
func WithRedirectDelay(d time.Duration) Option {
	return func(r *Reconciler) {
		r.delay = d
	}
}

// WithTimerFactory sets the timer factory (primarily for testing).
func WithTimerFactory(f auth.TimerFactory) Option {
	return func(r *Reconciler) {
		r.newTimer = f
	}
}

// WithLogger sets the logger used by the reconciler.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// New creates a Reconciler for a single callback navigation.
func New(sessions SocialLoginer, navigator auth.Navigator, options ...Option) *Reconciler {
	r := &Reconciler{
		sessions:  sessions,
		navigator: navigator,
		delay:     failureRedirectDelay,
		newTimer:  auth.StdTimerFactory,
		logger:    log.Logger,
		state:     StatePending,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// State returns the current state of the callback flow.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Message returns the failure message, empty unless the flow failed.
func (r *Reconciler) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

// Handle runs the callback flow for u, a URL of the form
// /oauth/{provider}/callback?code={authCode}, and returns the resulting
// state. Success navigates home immediately; failure holds the failure
// state and navigates to the login route after a fixed delay. Calling
// Handle again on the same Reconciler returns the settled state without
// touching the backend.
func (r *Reconciler) Handle(ctx context.Context, u *url.URL) State {
	r.mu.Lock()
	if r.handled {
		state := r.state
		r.mu.Unlock()
		return state
	}
	r.handled = true
	r.mu.Unlock()

	provider := providerFromPath(u.Path)
	code := u.Query().Get("code")
	if code == "" {
		r.logger.Warn().Str("provider", provider).Msg("callback arrived without an authorization code")
		return r.fail(MsgCodeNotFound)
	}

	if err := r.sessions.SocialLogin(ctx, provider, code); err != nil {
		r.logger.Warn().Err(err).Str("provider", provider).Msg("authorization code exchange failed")
		return r.fail(exchangeFailureMessage(err))
	}

	r.mu.Lock()
	r.state = StateSuccess
	r.mu.Unlock()
	r.navigator.NavigateTo(auth.HomeRoute)
	return StateSuccess
}

// fail parks the flow in the failed state and schedules the return to the
// login route. Display only; no retry is attempted.
func (r *Reconciler) fail(message string) State {
	r.mu.Lock()
	r.state = StateFailed
	r.message = message
	r.mu.Unlock()

	r.newTimer(r.delay, func() {
		r.navigator.NavigateTo(auth.LoginRoute)
	})
	return StateFailed
}

// providerFromPath extracts the provider segment from
// /oauth/{provider}/callback.
func providerFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "oauth" {
		return ""
	}
	return parts[1]
}

func exchangeFailureMessage(err error) string {
	var sm interface{ ServerMessage() string }
	if stderrors.As(err, &sm) && sm.ServerMessage() != "" {
		return sm.ServerMessage()
	}
	return MsgExchangeFailed
}
