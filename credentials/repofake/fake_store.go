package fakecredentialstore

import (
	"sync"

	"github.com/yeohaeng/travel-client/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store for tests. WriteErr, when set,
// is returned from Write to simulate storage exhaustion.
type FakeStore struct {
	rec      *credentials.Record
	WriteErr error
	lock     sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (s *FakeStore) Write(rec credentials.Record) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.rec = &rec
	return nil
}

func (s *FakeStore) Read() (*credentials.Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.rec == nil {
		return nil, nil
	}
	rec := *s.rec
	return &rec, nil
}

func (s *FakeStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rec = nil
	return nil
}
