package credentials

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/yeohaeng/travel-client/member"
	"go.etcd.io/bbolt"
)

const bucketName = "credentials"

// Entry keys inside the credentials bucket. Three independent entries,
// but every mutation touches all of them inside one transaction.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserSnapshot = "user_snapshot"
)

// BoltStore is a Store backed by a bbolt database file, so credentials
// survive restarts of the client process.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore wraps an already opened bbolt database.
func NewBoltStore(db *bbolt.DB) *BoltStore {
	return &BoltStore{db: db}
}

// OpenBoltStore opens (or creates) a bbolt database at path and returns a
// store backed by it.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[OpenBoltStore] bbolt.Open")
	}
	return NewBoltStore(db), nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Write persists the full credential triple in a single transaction.
func (s *BoltStore) Write(rec Record) error {
	snapshot, err := json.Marshal(rec.User)
	if err != nil {
		return errors.Wrap(err, "[BoltStore.Write] marshal user snapshot")
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(keyAccessToken), []byte(rec.AccessToken)); err != nil {
			return err
		}
		if err := b.Put([]byte(keyRefreshToken), []byte(rec.RefreshToken)); err != nil {
			return err
		}
		return b.Put([]byte(keyUserSnapshot), snapshot)
	})
	return errors.Wrap(err, "[BoltStore.Write] db.Update")
}

// Read returns the stored triple, or nil when no credentials are stored.
func (s *BoltStore) Read() (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		access := b.Get([]byte(keyAccessToken))
		if access == nil {
			return nil
		}
		var user member.User
		if snapshot := b.Get([]byte(keyUserSnapshot)); snapshot != nil {
			if err := json.Unmarshal(snapshot, &user); err != nil {
				return errors.Wrap(err, "unmarshal user snapshot")
			}
		}
		rec = &Record{
			AccessToken:  string(access),
			RefreshToken: string(b.Get([]byte(keyRefreshToken))),
			User:         &user,
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "[BoltStore.Read] db.View")
	}
	return rec, nil
}

// Clear removes all three entries in a single transaction. Clearing an
// already empty store is a no-op.
func (s *BoltStore) Clear() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		if err := b.Delete([]byte(keyAccessToken)); err != nil {
			return err
		}
		if err := b.Delete([]byte(keyRefreshToken)); err != nil {
			return err
		}
		return b.Delete([]byte(keyUserSnapshot))
	})
	return errors.Wrap(err, "[BoltStore.Clear] db.Update")
}
