// Package auth owns the client-side session: the in-memory record of the
// authenticated member, the credential store it is persisted to, and the
// fixed-duration expiry timer that ends it.
package auth

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yeohaeng/travel-client/credentials"
	"github.com/yeohaeng/travel-client/member"
)

// DefaultSessionTTL is how long a session may live on this client before it
// is forcibly ended, independent of server-side token expiry.
const DefaultSessionTTL = time.Hour

// User-facing messages. Forced logout (server rejected a request) and timed
// expiry use distinct wording so the two paths can be told apart.
const (
	MsgLoginExpired   = "Your login has expired. Please log in again."
	MsgSessionTimeout = "Your login time has run out. Please log in again."
	MsgLoginFailed    = "A problem occurred during login. Please try again."
)

// Subscriber is notified synchronously on every session transition.
// It receives the new user, or nil when the session ended.
type Subscriber func(*member.User)

// Manager is the single source of truth for the authenticated session.
// Exactly one session is alive at a time; establishing a new one always
// replaces the previous one and cancels its timer.
type Manager struct {
	creds     credentials.Store
	backend   Backend
	notifier  Notifier
	navigator Navigator

	ttl      time.Duration
	newTimer TimerFactory
	logger   zerolog.Logger

	mu          sync.Mutex
	user        *member.User
	sessionID   string // identity of the current session; armed timers are bound to it
	timer       Timer
	formEmail   string
	formPass    string
	subscribers []Subscriber
}

// ManagerOption modifies the Manager during construction.
type ManagerOption func(*Manager)

// WithSessionTTL overrides the fixed client-side session lifetime.
func WithSessionTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithTimerFactory sets the timer factory (primarily for testing).
func WithTimerFactory(f TimerFactory) ManagerOption {
	return func(m *Manager) {
		m.newTimer = f
	}
}

// WithLogger sets the logger used by the manager.
func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager initialises the session manager and performs the optimistic
// restore: if the credential store holds a triple, the member is considered
// logged in without contacting the server, and a fresh full-length expiry
// timer is armed. Server-side validity is discovered lazily by the first
// authenticated request.
func NewManager(creds credentials.Store, backend Backend, notifier Notifier, navigator Navigator, options ...ManagerOption) (*Manager, error) {
	if creds == nil {
		return nil, errors.New("[NewManager] credentials store is required")
	}
	if backend == nil {
		return nil, errors.New("[NewManager] backend is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewManager] notifier is required")
	}
	if navigator == nil {
		return nil, errors.New("[NewManager] navigator is required")
	}

	m := &Manager{
		creds:     creds,
		backend:   backend,
		notifier:  notifier,
		navigator: navigator,
		ttl:       DefaultSessionTTL,
		newTimer:  StdTimerFactory,
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(m)
	}

	rec, err := m.creds.Read()
	if err != nil {
		m.logger.Warn().Err(err).Msg("credential restore failed, starting logged out")
		return m, nil
	}
	if rec != nil && rec.User != nil {
		m.mu.Lock()
		user := *rec.User
		m.user = &user
		m.armTimerLocked()
		m.mu.Unlock()
		m.logger.Info().Int64("memberId", user.MemberID).Msg("session restored from credential store")
	}
	return m, nil
}

// User returns a copy of the current user, or nil when logged out.
func (m *Manager) User() *member.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// Subscribe registers fn for synchronous notification on every transition.
func (m *Manager) Subscribe(fn Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// SetFormInput records the transient login-form state. It is cleared on a
// successful login and on any logout; a rejected login clears the password
// but keeps the email.
func (m *Manager) SetFormInput(email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formEmail = email
	m.formPass = password
}

// FormInput returns the transient login-form state.
func (m *Manager) FormInput() (email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.formEmail, m.formPass
}

// Login authenticates against the backend. On success the credential triple
// is persisted, the user is set, the expiry timer is armed and navigation to
// home is triggered. On failure the session is left untouched, the
// server-provided message (falling back to a generic one) is surfaced via
// the notifier, and the error is returned for callers that want it.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	res, err := m.backend.Login(ctx, email, password)
	if err != nil {
		m.mu.Lock()
		m.formPass = "" // keep the email, drop the password
		m.mu.Unlock()
		m.notifier.Alert(failureMessage(err))
		return errors.Wrap(err, "[Manager.Login] backend.Login")
	}

	m.establish(res)
	m.navigator.NavigateTo(HomeRoute)
	return nil
}

// SocialLogin exchanges a one-time authorization code for a session. It
// fails closed: any exchange error leaves the session state untouched and is
// returned to the caller, which owns the UI behaviour (see oauthcallback).
func (m *Manager) SocialLogin(ctx context.Context, provider, code string) error {
	res, err := m.backend.ExchangeAuthCode(ctx, provider, code)
	if err != nil {
		return errors.Wrapf(err, "[Manager.SocialLogin] exchange with provider %q", provider)
	}

	m.establish(res)
	return nil
}

// Logout ends the session: cancels the timer, clears the credential store,
// clears the user and form state, and navigates to the entry route. It is
// idempotent; calling it while logged out only repeats the navigation.
func (m *Manager) Logout() {
	m.mu.Lock()
	had := m.user != nil
	m.teardownLocked()
	m.mu.Unlock()

	if had {
		m.publish(nil)
	}
	m.navigator.NavigateTo(EntryRoute)
}

// ForceLogout is the gateway's 401 path: the server rejected a request as
// unauthenticated, so the session is over regardless of what the member was
// doing. Safe under concurrent invocation: whichever call observes a live
// session tears it down and alerts exactly once; later calls are no-ops.
func (m *Manager) ForceLogout() {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	m.teardownLocked()
	m.mu.Unlock()

	m.logger.Info().Msg("session ended by server-side rejection")
	m.publish(nil)
	m.notifier.Alert(MsgLoginExpired)
	m.navigator.NavigateTo(EntryRoute)
}

// establish replaces whatever session existed with the one described by res:
// persist the triple, set the user, rotate the session identity and arm a
// fresh timer. A failed persist is logged and tolerated; the in-memory
// session still exists for the remainder of the process lifetime.
func (m *Manager) establish(res *LoginResult) {
	user := &member.User{
		MemberID: res.MemberID,
		Name:     res.MemberName,
		Nickname: res.Nickname,
		Email:    res.Email,
	}

	m.mu.Lock()
	if err := m.creds.Write(credentials.Record{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         user,
	}); err != nil {
		m.logger.Warn().Err(err).Msg("credential persist failed, session is memory-only")
	}
	m.user = user
	m.formEmail = ""
	m.formPass = ""
	m.armTimerLocked()
	m.mu.Unlock()

	m.logger.Info().Int64("memberId", user.MemberID).Msg("session established")
	m.publish(user)
}

// armTimerLocked cancels any previous timer and arms a new one bound to a
// fresh session identity. A timer that outlives its session finds the
// identity rotated and does nothing, so a stale timer can never end a
// successor session. Callers must hold m.mu.
func (m *Manager) armTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	id := uuid.New().String()
	m.sessionID = id
	m.timer = m.newTimer(m.ttl, func() {
		m.expire(id)
	})
}

// expire is the timer callback for the session identified by id.
func (m *Manager) expire(id string) {
	m.mu.Lock()
	if m.sessionID != id {
		// A session this timer does not belong to; it was replaced
		// before cancellation could win the race.
		m.mu.Unlock()
		return
	}
	m.teardownLocked()
	m.mu.Unlock()

	m.logger.Info().Msg("session ended by client-side expiry")
	m.publish(nil)
	m.notifier.Alert(MsgSessionTimeout)
	m.navigator.NavigateTo(EntryRoute)
}

// teardownLocked clears every piece of session state. Callers must hold m.mu.
func (m *Manager) teardownLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.sessionID = ""
	m.user = nil
	m.formEmail = ""
	m.formPass = ""
	if err := m.creds.Clear(); err != nil {
		m.logger.Warn().Err(err).Msg("credential clear failed")
	}
}

// publish notifies subscribers outside the lock so they may call back in.
func (m *Manager) publish(user *member.User) {
	m.mu.Lock()
	subs := make([]Subscriber, len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}

// failureMessage picks the most specific message for a failed login: the
// server-provided one when the error carries it, a generic one otherwise.
func failureMessage(err error) string {
	var sm interface{ ServerMessage() string }
	if stderrors.As(err, &sm) && sm.ServerMessage() != "" {
		return sm.ServerMessage()
	}
	return MsgLoginFailed
}
