// Package credentials defines the durable credential store: the place where
// the bearer tokens and the member snapshot survive process restarts.
package credentials

import "github.com/yeohaeng/travel-client/member"

// Record is the credential triple persisted on login. The three fields are
// always written and cleared together; the store never holds a partial set.
type Record struct {
	AccessToken  string
	RefreshToken string
	User         *member.User
}

// Store is a synchronous key-value store for the credential triple.
// Read returns nil when no credentials are stored. Write failures
// (e.g. storage exhaustion) are reported but treated as non-fatal by
// callers: the in-memory session outlives a failed write.
type Store interface {
	Write(rec Record) error
	Read() (*Record, error)
	Clear() error
}
