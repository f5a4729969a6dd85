package auth

import "time"

// Timer is a cancellation handle for an armed expiry callback.
// Stop reports whether the callback was prevented from running.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules f to run once after d and returns its handle.
// Injectable so tests can drive expiry without waiting (see WithTimerFactory).
type TimerFactory func(d time.Duration, f func()) Timer

type stdTimer struct {
	t *time.Timer
}

func (s *stdTimer) Stop() bool {
	return s.t.Stop()
}

// StdTimerFactory is the production TimerFactory, backed by time.AfterFunc.
func StdTimerFactory(d time.Duration, f func()) Timer {
	return &stdTimer{t: time.AfterFunc(d, f)}
}
