package coursehub

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// SessionState is the authentication state of an admin session.
type SessionState int

const (
	Unauthenticated SessionState = iota
	Authenticated
)

func (s SessionState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// CredentialVerifier decides whether a username/password pair may log in.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// FixedCredentials accepts exactly one plain-text username/password pair.
// It is a placeholder, not a security model.
type FixedCredentials struct {
	Username string
	Password string
}

// Verify compares both values in constant time. An unset pair accepts nothing.
func (f FixedCredentials) Verify(_ context.Context, username, password string) (bool, error) {
	if f.Username == "" || f.Password == "" {
		return false, nil
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(f.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(f.Password)) == 1
	return userOK && passOK, nil
}

// BcryptCredentials accepts one username whose password matches a bcrypt hash.
type BcryptCredentials struct {
	Username string
	Hash     []byte
}

func (b BcryptCredentials) Verify(_ context.Context, username, password string) (bool, error) {
	if b.Username == "" {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(b.Username)) != 1 {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword(b.Hash, []byte(password))
	switch err {
	case nil:
		return true, nil
	case bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, fmt.Errorf("coursehub: verify password: %w", err)
	}
}

// FlagStore persists the single "authenticated" flag of a session.
type FlagStore interface {
	Load() (bool, error)
	Save(authenticated bool) error
}

// MemoryFlags is a FlagStore kept in process memory.
type MemoryFlags struct {
	mu   sync.Mutex
	flag bool
}

func (m *MemoryFlags) Load() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flag, nil
}

func (m *MemoryFlags) Save(authenticated bool) error {
	m.mu.Lock()
	m.flag = authenticated
	m.mu.Unlock()
	return nil
}

// SessionGuard gates the admin area. A new guard is loading until Init
// has read the persisted flag.
type SessionGuard struct {
	verifier CredentialVerifier
	flags    FlagStore
	state    SessionState
	loading  bool
}

// NewSessionGuard returns a guard in the loading state.
func NewSessionGuard(verifier CredentialVerifier, flags FlagStore) *SessionGuard {
	return &SessionGuard{verifier: verifier, flags: flags, loading: true}
}

// Init reads the persisted flag and leaves the loading state. A flag
// that cannot be read counts as logged out.
func (g *SessionGuard) Init() error {
	defer func() { g.loading = false }()
	ok, err := g.flags.Load()
	if err != nil {
		g.state = Unauthenticated
		return fmt.Errorf("coursehub: load session flag: %w", err)
	}
	if ok {
		g.state = Authenticated
	} else {
		g.state = Unauthenticated
	}
	return nil
}

// State returns the current authentication state.
func (g *SessionGuard) State() SessionState { return g.state }

// Loading reports whether Init has not completed yet.
func (g *SessionGuard) Loading() bool { return g.loading }

// RequiresLogin reports whether guarded views must send the user to the login page.
func (g *SessionGuard) RequiresLogin() bool {
	return !g.loading && g.state == Unauthenticated
}

// Login authenticates and persists the flag iff the verifier accepts the
// credentials. A rejected attempt leaves the state unchanged and returns false.
func (g *SessionGuard) Login(ctx context.Context, username, password string) (bool, error) {
	ok, err := g.verifier.Verify(ctx, username, password)
	if err != nil || !ok {
		return false, err
	}
	if err := g.flags.Save(true); err != nil {
		return false, fmt.Errorf("coursehub: save session flag: %w", err)
	}
	g.state = Authenticated
	return true, nil
}

// Logout clears the persisted flag.
func (g *SessionGuard) Logout() error {
	g.state = Unauthenticated
	if err := g.flags.Save(false); err != nil {
		return fmt.Errorf("coursehub: clear session flag: %w", err)
	}
	return nil
}
