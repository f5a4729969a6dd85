package config

import "time"

type SessionConfig interface {
	GetSessionTTL() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionTTL is the fixed client-side session lifetime. Independent of
// server token expiry; the session ends when this runs out.
func (Session) GetSessionTTL() time.Duration {
	return 1 * time.Hour
}
