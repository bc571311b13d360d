// Package chat owns the conversational session: its state, the turn
// dispatch cycle against the lead-generation backend, and the timed
// reveal of assistant replies.
package chat

import (
	"github.com/leadpilot/leadpilot/internal/domain"
)

// Session is the aggregate state of one conversation. It is owned by a
// Controller and mutated only behind the controller's lock; everything
// handed out crosses the boundary as a copy.
type Session struct {
	History    []domain.ChatMessage
	Context    domain.ConversationContext
	ActiveLead *domain.Supplier
	Leads      []domain.Lead
	Sending    bool
}

// NewSession creates an empty session, optionally seeded with a supplier
// persisted from a previous run.
func NewSession(seed *domain.Supplier) *Session {
	return &Session{
		Context:    domain.ConversationContext{},
		ActiveLead: seed,
	}
}

// Snapshot is a deep copy of session state safe to hand to observers.
type Snapshot struct {
	History    []domain.ChatMessage       `json:"history"`
	Context    domain.ConversationContext `json:"context"`
	ActiveLead *domain.Supplier           `json:"activeLead,omitempty"`
	Leads      []domain.Lead              `json:"leads"`
	Sending    bool                       `json:"sending"`
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		History: make([]domain.ChatMessage, len(s.History)),
		Leads:   make([]domain.Lead, len(s.Leads)),
		Context: s.Context.Clone(),
		Sending: s.Sending,
	}
	copy(snap.History, s.History)
	copy(snap.Leads, s.Leads)
	if s.ActiveLead != nil {
		lead := *s.ActiveLead
		snap.ActiveLead = &lead
	}
	return snap
}
