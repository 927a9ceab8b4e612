package auth

import (
	"encoding/json"
	"log"
	"os"
	"sync"

	cerrors "civiclens/internal/errors"
)

// SessionStore persists the signed-in user to a JSON file so a restart
// keeps the citizen signed in.
//
// Thread-safety: all methods lock; the HTTP layer may sign in and out
// concurrently.
type SessionStore struct {
	mu   sync.Mutex
	file string
	user *User
}

// NewSessionStore opens the session file and restores any saved user.
// A missing or unreadable file starts a signed-out session.
func NewSessionStore(file string) *SessionStore {
	s := &SessionStore{file: file}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("📋 No existing session file found. Starting signed out.")
		} else {
			log.Printf("⚠️  Failed to read session file: %v", err)
		}
		return s
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		log.Printf("⚠️  Failed to parse session file: %v", err)
		return s
	}
	if u.Email != "" {
		s.user = &u
		log.Printf("📚 Restored session for %s", u.Email)
	}
	return s
}

// Current returns the signed-in user, if any.
func (s *SessionStore) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Save stores the user as the active session.
func (s *SessionStore) Save(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return cerrors.NewStorageError("marshal session", err)
	}
	if err := os.WriteFile(s.file, data, 0644); err != nil {
		return cerrors.NewStorageError("write session", err)
	}
	s.user = &u
	return nil
}

// Clear signs the citizen out and removes the session file.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := os.Remove(s.file); err != nil && !os.IsNotExist(err) {
		return cerrors.NewStorageError("remove session", err)
	}
	return nil
}
