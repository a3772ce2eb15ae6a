package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SourceLocal tags replies produced by the local intent router. Remote
// replies carry the provider name instead.
const SourceLocal = "local"

// Message is one entry in the visible transcript.
type Message struct {
	ID        string
	Role      string
	Content   string
	Code      string // optional code payload
	Persona   string // persona key that produced an assistant message
	Source    string // "local" or the remote provider name
	Timestamp time.Time
}

// NewMessage builds a message with a fresh ID.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Transcript is the append-only, capped message history.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	cap      int
}

// NewTranscript creates a transcript retaining at most capN messages.
// Zero means the default of 500.
func NewTranscript(capN int) *Transcript {
	if capN <= 0 {
		capN = 500
	}
	return &Transcript{cap: capN}
}

// Append adds a message, evicting the oldest entries beyond the cap.
func (t *Transcript) Append(msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	if overflow := len(t.messages) - t.cap; overflow > 0 {
		t.messages = t.messages[overflow:]
	}
}

// Len returns the number of retained messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Recent returns up to n most recent messages, oldest first.
func (t *Transcript) Recent(n int) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n > len(t.messages) {
		n = len(t.messages)
	}
	out := make([]Message, n)
	copy(out, t.messages[len(t.messages)-n:])
	return out
}

// All returns a copy of the retained messages, oldest first.
func (t *Transcript) All() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
