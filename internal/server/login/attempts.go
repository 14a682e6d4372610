package login

import (
	"sync"
	"time"

	"github.com/dpetukhov/srpvault/internal/server/models"
)

const cleanupInterval = 1 * time.Minute

// AttemptStore keeps in-flight login attempts between the prepare and login
// phases. It is safe for concurrent use.
//
// One attempt per user: Put overwrites any earlier attempt, so the last
// prepare wins and a login computed against an older ephemeral fails on the
// matcher check. Take removes the attempt whether or not the subsequent
// validation succeeds, which retires the private ephemeral after one use.
type AttemptStore struct {
	mu     sync.Mutex
	byUser map[string]*models.LoginAttempt
	ttl    time.Duration
	stopCh chan struct{}
}

// NewAttemptStore creates a store whose attempts expire after ttl and
// starts the background cleanup loop.
func NewAttemptStore(ttl time.Duration) *AttemptStore {
	s := &AttemptStore{
		byUser: make(map[string]*models.LoginAttempt),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Put stores the attempt for its user, replacing any prior attempt and
// stamping the expiry.
func (s *AttemptStore) Put(a *models.LoginAttempt) {
	now := time.Now()
	a.CreatedAt = now
	a.ExpiresAt = now.Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[a.UserID] = a
}

// Take removes and returns the attempt for userID. Expired or absent
// attempts report false.
func (s *AttemptStore) Take(userID string) (*models.LoginAttempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byUser[userID]
	if !ok {
		return nil, false
	}
	delete(s.byUser, userID)

	if a.Expired() {
		return nil, false
	}
	return a, true
}

// Count returns the number of stored attempts, for monitoring and tests.
func (s *AttemptStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser)
}

// Close stops the cleanup loop.
func (s *AttemptStore) Close() {
	close(s.stopCh)
}

func (s *AttemptStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *AttemptStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.byUser {
		if a.Expired() {
			delete(s.byUser, id)
		}
	}
}
