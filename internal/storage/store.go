package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	bolt "go.etcd.io/bbolt"
)

var (
	listsBucket   = []byte("lists")
	usersBucket   = []byte("users")
	emailsBucket  = []byte("user_emails")
	sessionBucket = []byte("session")

	currentSessionKey = []byte("current")
)

// ErrNotFound is returned when a user or session does not exist.
var ErrNotFound = errors.New("not found")

// Options tune how the database file is opened.
type Options struct {
	Timeout      time.Duration
	OpenAttempts uint
}

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithOptions(dbPath, Options{})
}

// NewStoreWithOptions opens the database, retrying while another process
// holds the file lock.
func NewStoreWithOptions(dbPath string, opts Options) (*Store, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 1 * time.Second
	}
	if opts.OpenAttempts == 0 {
		opts.OpenAttempts = 3
	}

	var db *bolt.DB
	err := retry.Do(
		func() error {
			var openErr error
			db, openErr = bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: opts.Timeout})
			return openErr
		},
		retry.Attempts(opts.OpenAttempts),
		retry.Delay(100*time.Millisecond),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, bolt.ErrTimeout)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{listsBucket, usersBucket, emailsBucket, sessionBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetDocument returns the raw stored bytes for key, or nil if absent.
func (s *Store) GetDocument(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(listsBucket).Get([]byte(key))
		if data != nil {
			// bbolt memory is only valid for the life of the transaction
			out = append([]byte(nil), data...)
		}
		return nil
	})
	return out, err
}

// PutDocument overwrites the whole document stored under key.
func (s *Store) PutDocument(key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(listsBucket).Put([]byte(key), data)
	})
}

func (s *Store) DeleteDocument(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(listsBucket).Delete([]byte(key))
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SaveUser stores the user and indexes it by email.
func (s *Store) SaveUser(user *User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := tx.Bucket(usersBucket).Put([]byte(user.ID), data); err != nil {
			return err
		}
		return tx.Bucket(emailsBucket).Put([]byte(normalizeEmail(user.Email)), []byte(user.ID))
	})
}

func (s *Store) GetUser(id string) (*User, error) {
	var user User
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(usersBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*User, error) {
	var id []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(emailsBucket).Get([]byte(normalizeEmail(email)))
		if v == nil {
			return fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		id = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(string(id))
}

func (s *Store) SetSession(session *Session) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return tx.Bucket(sessionBucket).Put(currentSessionKey, data)
	})
}

func (s *Store) GetSession() (*Session, error) {
	var session Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get(currentSessionKey)
		if data == nil {
			return fmt.Errorf("session: %w", ErrNotFound)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(currentSessionKey)
	})
}
