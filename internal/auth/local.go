package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/storage"
	"github.com/pders01/flix/internal/validation"
)

const providerLocal = "local"

// UserStore is the persistence LocalProvider needs.
type UserStore interface {
	SaveUser(user *storage.User) error
	GetUser(id string) (*storage.User, error)
	GetUserByEmail(email string) (*storage.User, error)
	SetSession(session *storage.Session) error
	GetSession() (*storage.Session, error)
	ClearSession() error
}

type LocalOption func(*LocalProvider)

// WithCost sets the bcrypt cost; tests use bcrypt.MinCost.
func WithCost(cost int) LocalOption {
	return func(p *LocalProvider) { p.cost = cost }
}

func WithClock(now func() time.Time) LocalOption {
	return func(p *LocalProvider) { p.now = now }
}

// LocalProvider keeps accounts and the current session in the local
// database, with bcrypt password hashes.
type LocalProvider struct {
	store UserStore
	cost  int
	now   func() time.Time

	mu          sync.Mutex
	current     *storage.User
	nextSubID   int
	subscribers map[int]func(*storage.User)
}

// NewLocalProvider restores the persisted session, if any.
func NewLocalProvider(store UserStore, opts ...LocalOption) (*LocalProvider, error) {
	p := &LocalProvider{
		store:       store,
		cost:        bcrypt.DefaultCost,
		now:         time.Now,
		subscribers: make(map[int]func(*storage.User)),
	}
	for _, opt := range opts {
		opt(p)
	}

	session, err := store.GetSession()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return p, nil
	case err != nil:
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	user, err := store.GetUser(session.UserID)
	if err != nil {
		debuglog.Warnf("dropping session for missing user %s: %v", session.UserID, err)
		if clearErr := store.ClearSession(); clearErr != nil {
			return nil, fmt.Errorf("clearing stale session: %w", clearErr)
		}
		return p, nil
	}
	p.current = user
	return p, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*storage.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, p.fail(emailCode(err), err)
	}
	if password == "" {
		return nil, p.fail(CodeMissingPassword, nil)
	}

	user, err := p.store.GetUserByEmail(normalized)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, p.fail(CodeUserNotFound, nil)
	}
	if err != nil {
		return nil, p.fail(CodeInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, p.fail(CodeWrongPassword, nil)
	}

	if err := p.startSession(user); err != nil {
		return nil, err
	}
	debuglog.WithFields(map[string]any{"user": user.ID}).Infof("signed in")
	return copyUser(user), nil
}

func (p *LocalProvider) SignUp(ctx context.Context, name, email, password string) (*storage.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := validation.NormalizeName(name)
	if err != nil {
		return nil, p.fail(CodeMissingName, err)
	}
	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, p.fail(emailCode(err), err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		if errors.Is(err, validation.ErrEmptyPassword) {
			return nil, p.fail(CodeMissingPassword, nil)
		}
		return nil, p.fail(CodeWeakPassword, err)
	}

	if _, err := p.store.GetUserByEmail(normalized); err == nil {
		return nil, p.fail(CodeEmailAlreadyInUse, nil)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, p.fail(CodeInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, p.fail(CodeInternal, err)
	}

	user := &storage.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		AuthProvider: providerLocal,
		CreatedAt:    p.now(),
	}
	if err := p.store.SaveUser(user); err != nil {
		return nil, p.fail(CodeInternal, err)
	}

	if err := p.startSession(user); err != nil {
		return nil, err
	}
	debuglog.WithFields(map[string]any{"user": user.ID}).Infof("signed up")
	return copyUser(user), nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.store.ClearSession(); err != nil {
		return p.fail(CodeInternal, err)
	}
	p.setCurrent(nil)
	return nil
}

func (p *LocalProvider) CurrentUser() *storage.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyUser(p.current)
}

func (p *LocalProvider) Subscribe(fn func(*storage.User)) func() {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	current := copyUser(p.current)
	p.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

func (p *LocalProvider) startSession(user *storage.User) error {
	session := &storage.Session{UserID: user.ID, CreatedAt: p.now()}
	if err := p.store.SetSession(session); err != nil {
		return p.fail(CodeInternal, err)
	}
	p.setCurrent(user)
	return nil
}

func (p *LocalProvider) setCurrent(user *storage.User) {
	p.mu.Lock()
	p.current = copyUser(user)
	subs := make([]func(*storage.User), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(copyUser(user))
	}
}

func (p *LocalProvider) fail(code string, cause error) error {
	log := debuglog.WithFields(map[string]any{"code": code})
	if cause != nil {
		log.Warnf("auth failure: %v", cause)
	} else {
		log.Warnf("auth failure")
	}
	return newError(code, cause)
}

func emailCode(err error) string {
	if errors.Is(err, validation.ErrEmptyEmail) {
		return CodeMissingEmail
	}
	return CodeInvalidEmail
}

func copyUser(u *storage.User) *storage.User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = nil
	return &c
}
