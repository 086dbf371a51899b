package whatsapp

import (
	"sync"
	"time"
)

// recentPerSender bounds the message ids remembered for each sender.
const recentPerSender = 20

// session is what we remember about one sender between webhook calls.
type session struct {
	recent   []string
	lastSeen time.Time
}

// SessionManager tracks recently handled message ids per sender so webhook
// redeliveries are not executed twice.
type SessionManager struct {
	sessions map[string]*session
	mu       sync.Mutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session),
	}
}

// Seen records messageID for sender and reports whether it was already handled.
func (sm *SessionManager) Seen(sender, messageID string, now time.Time) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[sender]
	if !ok {
		s = &session{}
		sm.sessions[sender] = s
	}
	s.lastSeen = now

	if messageID == "" {
		return false
	}
	for _, id := range s.recent {
		if id == messageID {
			return true
		}
	}
	s.recent = append(s.recent, messageID)
	if len(s.recent) > recentPerSender {
		s.recent = s.recent[len(s.recent)-recentPerSender:]
	}
	return false
}

// Expire drops senders idle since before cutoff and returns how many were dropped.
func (sm *SessionManager) Expire(cutoff time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	n := 0
	for sender, s := range sm.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(sm.sessions, sender)
			n++
		}
	}
	return n
}

// ClearSession removes a sender's session.
func (sm *SessionManager) ClearSession(sender string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, sender)
}
