// Package backend is the client side of the lead-generation service.
//
// The service is an opaque collaborator: one POST per conversational
// turn, answered with either a lead batch or an assistant message. The
// response shape is resolved here, once, into a tagged Reply so the
// session controller never re-inspects raw payloads.
package backend

import (
	"context"
	"errors"

	"github.com/leadpilot/leadpilot/internal/domain"
)

// TurnRequest is the outbound payload for one turn. ActiveLead is nil
// unless a supplier has been selected for lead generation.
type TurnRequest struct {
	UserInput  string                     `json:"user_input"`
	Context    domain.ConversationContext `json:"context"`
	ActiveLead *domain.Supplier           `json:"active_lead"`
}

// ReplyKind discriminates the backend's two success shapes. When a
// response carries both leads and a message, leads win.
type ReplyKind int

const (
	// KindEmpty is a success response carrying neither leads nor a
	// message. The controller decides what to do with it.
	KindEmpty ReplyKind = iota

	// KindMessage is a conversational reply: message text, optional
	// sources, and a partial context to merge.
	KindMessage

	// KindLeads is a lead batch that replaces the session's current set.
	KindLeads
)

func (k ReplyKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindLeads:
		return "leads"
	default:
		return "empty"
	}
}

// Reply is the classified outcome of a successful turn.
type Reply struct {
	Kind    ReplyKind
	Leads   []domain.Lead
	Message string
	Sources []domain.Source
	Context domain.ConversationContext
}

// ErrNoResponse indicates the service could not be reached at all
// (connection refused, timeout, DNS failure). Wrapped by transport
// implementations; match with errors.Is.
var ErrNoResponse = errors.New("no response from backend")

// ServerError is an error payload reported by the service itself.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return "backend: server error"
	}
	return "backend: " + e.Message
}

// Transport performs one request/response turn against the service.
type Transport interface {
	Chat(ctx context.Context, req TurnRequest) (*Reply, error)
}
