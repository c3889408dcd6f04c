package whatsapp

import "sync"

// recentPerSender bounds how many message ids are remembered for each keeper.
const recentPerSender = 32

// SessionManager remembers the message ids recently handled per sender.
// Meta redelivers webhooks it considers unacknowledged, and a redelivered
// /done must not be answered twice.
type SessionManager struct {
	sessions map[string][]string
	mu       sync.Mutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string][]string),
	}
}

// MarkHandled records messageID for sender and reports whether it was new.
func (sm *SessionManager) MarkHandled(sender, messageID string) bool {
	if messageID == "" {
		return true
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	recent := sm.sessions[sender]
	for _, id := range recent {
		if id == messageID {
			return false
		}
	}

	recent = append(recent, messageID)
	if len(recent) > recentPerSender {
		recent = recent[len(recent)-recentPerSender:]
	}
	sm.sessions[sender] = recent
	return true
}

// ClearSession forgets everything about a sender.
func (sm *SessionManager) ClearSession(sender string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, sender)
}
