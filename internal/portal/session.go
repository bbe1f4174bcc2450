package portal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Role selects which view a session unlocks.
type Role string

const (
	RoleStudent Role = "student"
	RoleSociety Role = "society"
)

// ParseRole maps user input onto a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "st", "1":
		return RoleStudent, nil
	case "society", "admin", "society admin", "so", "2":
		return RoleSociety, nil
	}
	return "", fmt.Errorf("unknown role %q (want society or student)", s)
}

// Session gates a view behind a non-empty identity. There is no logout and
// no credential check; the gate lives for one process.
type Session struct {
	role  Role
	store *Store

	mu            sync.RWMutex
	authenticated bool
	identity      string
}

// NewSession creates an unauthenticated session for role over store.
func NewSession(role Role, store *Store) *Session {
	return &Session{role: role, store: store}
}

// Role returns the session's role.
func (s *Session) Role() Role {
	return s.role
}

// Login opens the gate for identity. Student sessions populate the store
// once from the backend; a failed listing still opens the gate with no
// events.
func (s *Session) Login(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		msg := "Please enter your college email!"
		if s.role == RoleSociety {
			msg = "Enter society email!"
		}
		return &ValidationError{Field: "email", Message: msg}
	}

	s.mu.Lock()
	if s.authenticated {
		s.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	s.authenticated = true
	s.identity = identity
	s.mu.Unlock()

	log.Printf("[portal][session] %s logged in as %s", identity, s.role)

	if s.role == RoleStudent && s.store != nil {
		if err := s.store.Load(ctx); err != nil {
			log.Printf("[portal][session] initial event load failed: %v", err)
		}
	}
	return nil
}

// Authenticated reports whether Login succeeded.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Identity returns the logged-in identity, or "" before Login.
func (s *Session) Identity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Require returns ErrNotAuthenticated until Login succeeds.
func (s *Session) Require() error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}
