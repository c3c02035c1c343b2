package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps session users in process. Useful for local development
// and tests; it does not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[sessionID] = user
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[sessionID]
	if !ok {
		return nil, nil
	}
	copy := user
	return &copy, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, sessionID)
	return nil
}

// StaticUsers is an in-process user service seeded with accounts. It stands
// in for the real account backend; passwords are compared in plain text and
// must never be used outside development.
type StaticUsers struct {
	mu        sync.Mutex
	byEmail   map[string]User
	passwords map[string]string
}

// NewStaticUsers seeds the service with email/password/name triples.
func NewStaticUsers() *StaticUsers {
	return &StaticUsers{
		byEmail:   make(map[string]User),
		passwords: make(map[string]string),
	}
}

// Seed adds an account, overwriting any existing one for the email.
func (s *StaticUsers) Seed(name, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	s.byEmail[key] = User{ID: uuid.NewString(), Name: name, Email: email}
	s.passwords[key] = password
}

func (s *StaticUsers) Authenticate(_ context.Context, email, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	user, ok := s.byEmail[key]
	if !ok || s.passwords[key] != password {
		return nil, ErrInvalidCredentials
	}
	copy := user
	return &copy, nil
}

func (s *StaticUsers) Register(_ context.Context, name, email, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return nil, fmt.Errorf("%w", ErrEmailTaken)
	}
	user := User{ID: uuid.NewString(), Name: name, Email: email}
	s.byEmail[key] = user
	s.passwords[key] = password
	copy := user
	return &copy, nil
}
