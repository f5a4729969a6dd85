// Package authfakes holds test doubles for the session layer: a scriptable
// backend, spy notifier/navigator, and a hand-driven timer scheduler.
package authfakes

import (
	"context"
	"sync"
	"time"

	"github.com/yeohaeng/travel-client/auth"
)

var _ auth.Backend = (*FakeBackend)(nil)

// FakeBackend is an auth.Backend driven by function fields. Calls are
// counted so tests can assert how often the network was touched.
type FakeBackend struct {
	LoginFn    func(ctx context.Context, email, password string) (*auth.LoginResult, error)
	ExchangeFn func(ctx context.Context, provider, code string) (*auth.LoginResult, error)

	lock          sync.Mutex
	LoginCalls    int
	ExchangeCalls int
}

func (b *FakeBackend) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	b.lock.Lock()
	b.LoginCalls++
	b.lock.Unlock()
	return b.LoginFn(ctx, email, password)
}

func (b *FakeBackend) ExchangeAuthCode(ctx context.Context, provider, code string) (*auth.LoginResult, error) {
	b.lock.Lock()
	b.ExchangeCalls++
	b.lock.Unlock()
	return b.ExchangeFn(ctx, provider, code)
}

var _ auth.Notifier = (*SpyNotifier)(nil)

// SpyNotifier records every alert.
type SpyNotifier struct {
	lock   sync.Mutex
	alerts []string
}

func (n *SpyNotifier) Alert(message string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *SpyNotifier) Alerts() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	out := make([]string, len(n.alerts))
	copy(out, n.alerts)
	return out
}

var _ auth.Navigator = (*SpyNavigator)(nil)

// SpyNavigator records every navigation.
type SpyNavigator struct {
	lock   sync.Mutex
	routes []string
}

func (n *SpyNavigator) NavigateTo(route string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.routes = append(n.routes, route)
}

func (n *SpyNavigator) Routes() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	out := make([]string, len(n.routes))
	copy(out, n.routes)
	return out
}

// FakeTimer is an armed callback a test fires by hand. Fire runs the
// callback even after Stop, which is exactly what the stale-timer guard in
// the session manager must survive.
type FakeTimer struct {
	Duration time.Duration
	fn       func()

	lock    sync.Mutex
	stopped bool
}

func (t *FakeTimer) Stop() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

func (t *FakeTimer) Stopped() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.stopped
}

// Fire invokes the callback regardless of Stop.
func (t *FakeTimer) Fire() {
	t.fn()
}

// FakeScheduler hands out FakeTimers and remembers them in order.
type FakeScheduler struct {
	lock   sync.Mutex
	timers []*FakeTimer
}

// Factory is the auth.TimerFactory to inject via auth.WithTimerFactory.
func (s *FakeScheduler) Factory(d time.Duration, f func()) auth.Timer {
	t := &FakeTimer{Duration: d, fn: f}
	s.lock.Lock()
	s.timers = append(s.timers, t)
	s.lock.Unlock()
	return t
}

// Timers returns every timer armed so far, oldest first.
func (s *FakeScheduler) Timers() []*FakeTimer {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]*FakeTimer, len(s.timers))
	copy(out, s.timers)
	return out
}
