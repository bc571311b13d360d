// Package domain holds the core types shared across LeadPilot.
package domain

import "time"

// Message roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Source is a citation attached to an assistant reply. The backend emits
// sources as plain strings; they are passed through untouched.
type Source string

// ChatMessage is a single entry in the conversation history. Messages are
// immutable once appended, except the trailing bot message while it is
// being revealed.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "bot"
	Text      string    `json:"text"`
	Sources   []Source  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationContext is opaque state threaded between turns to give the
// backend conversational memory. LeadPilot never inspects its contents,
// it only merges and echoes it.
type ConversationContext map[string]any

// Clone returns a shallow copy. Values are shared; the context is treated
// as read-only pass-through data.
func (c ConversationContext) Clone() ConversationContext {
	if c == nil {
		return nil
	}
	out := make(ConversationContext, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
