package infrastructure

import (
	"context"
	"sync"
	"time"

	"project_armada/internal/entities"
)

// UserSession tracks the chosen category for one chat
type UserSession struct {
	ChatID    int64
	Category  string
	UpdatedAt time.Time
}

// SessionManager keeps conversation state in process memory
type SessionManager struct {
	sessions map[int64]*UserSession
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

// NewSessionManager creates an in-memory state store.
// Sessions idle longer than ttl read back as empty; ttl 0 keeps them forever.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*UserSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the chat's session, or an empty one if none is live
func (sm *SessionManager) Get(_ context.Context, chatID int64) (entities.Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[chatID]
	if !ok || sm.expired(s) {
		return entities.Session{ChatID: chatID}, nil
	}
	return entities.Session{ChatID: s.ChatID, Category: s.Category, UpdatedAt: s.UpdatedAt}, nil
}

// Set records the chosen category, creating the session on first use
func (sm *SessionManager) Set(_ context.Context, chatID int64, category string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[chatID]
	if !ok {
		s = &UserSession{ChatID: chatID}
		sm.sessions[chatID] = s
	}
	s.Category = category
	s.UpdatedAt = sm.now()
	return nil
}

// Clear forgets the chat's category
func (sm *SessionManager) Clear(_ context.Context, chatID int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, chatID)
	return nil
}

// Len returns the number of tracked sessions, live or not
func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Cleanup removes sessions past their TTL
func (sm *SessionManager) Cleanup() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for chatID, s := range sm.sessions {
		if sm.expired(s) {
			delete(sm.sessions, chatID)
			removed++
		}
	}
	return removed
}

// RunCleanup calls Cleanup every interval until ctx is done
func (sm *SessionManager) RunCleanup(ctx context.Context, interval time.Duration) {
	if sm.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.Cleanup()
		}
	}
}

func (sm *SessionManager) expired(s *UserSession) bool {
	return sm.ttl > 0 && sm.now().Sub(s.UpdatedAt) > sm.ttl
}
