package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
)

// Fixed user-facing strings. These are part of the widget's contract and
// match the backend's reply conventions.
const (
	msgLeadsGenerated   = "Leads generated successfully and updated in the sidebar."
	msgGeneratingLeads  = "Generating leads for the selected supplier..."
	msgServerErrPrefix  = "Server error: "
	msgServerErrGeneric = "Please try again later."
	msgNoResponse       = "No response from server. Check your internet connection."
	msgUnexpected       = "Unexpected error occurred. Please try again."
)

// Listener observes session mutations, e.g. to push them to the widget.
// Callbacks run with the session lock held; implementations must not call
// back into the controller.
type Listener interface {
	// MessageAppended fires for every new history entry.
	MessageAppended(index int, msg domain.ChatMessage)

	// MessageRevealed fires on every reveal tick with the partial text.
	MessageRevealed(index int, text string)

	// LeadsReplaced fires when a lead batch replaces the current set.
	LeadsReplaced(leads []domain.Lead)

	// SessionReset fires when the history is cleared.
	SessionReset()
}

type nopListener struct{}

func (nopListener) MessageAppended(int, domain.ChatMessage) {}
func (nopListener) MessageRevealed(int, string)             {}
func (nopListener) LeadsReplaced([]domain.Lead)             {}
func (nopListener) SessionReset()                           {}

// Config configures a Controller.
type Config struct {
	// RevealInterval is the delay between revealed characters.
	// Zero means DefaultRevealInterval.
	RevealInterval time.Duration

	// Seed is an active supplier persisted from a previous session.
	Seed *domain.Supplier
}

// Controller drives the conversation: it serializes turns against the
// in-flight guard, calls the backend, classifies replies, and keeps the
// session consistent. It manages exactly one session.
type Controller struct {
	session   *Session
	transport backend.Transport
	reveal    *Reveal
	listener  Listener
	log       *logging.Logger

	// mu guards session. Lock order: mu first, then the reveal engine's
	// internal lock, never the other way around.
	mu sync.Mutex
}

// NewController creates a controller over a fresh session.
func NewController(transport backend.Transport, cfg Config, lis Listener, log *logging.Logger) *Controller {
	if lis == nil {
		lis = nopListener{}
	}
	return &Controller{
		session:   NewSession(cfg.Seed),
		transport: transport,
		reveal:    NewReveal(cfg.RevealInterval),
		listener:  lis,
		log:       log.Sub("chat"),
	}
}

// SubmitUserTurn runs one chat turn for user-typed text. Empty input and
// turns submitted while another is in flight are dropped silently; the
// return value reports whether the turn was accepted. The call returns
// once the backend reply settles; the reveal drains asynchronously.
func (c *Controller) SubmitUserTurn(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	if c.session.Sending {
		c.mu.Unlock()
		c.log.Debug().Msg("turn dropped: another turn is in flight")
		return false
	}
	c.session.Sending = true
	c.appendLocked(domain.ChatMessage{Role: domain.RoleUser, Text: text, CreatedAt: time.Now()})
	req := backend.TurnRequest{
		UserInput:  text,
		Context:    c.session.Context.Clone(),
		ActiveLead: c.session.ActiveLead,
	}
	c.mu.Unlock()

	reply, err := c.transport.Chat(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Sending = false
	if err != nil {
		c.appendBotLocked(failureMessage(err))
		return true
	}
	c.applyReplyLocked(reply)
	return true
}

// SubmitLeadGeneration runs a lead-generation turn for the selected
// supplier. Unlike the text path this is not blocked by the in-flight
// guard: the chat box locks while sending, a sidebar selection does not.
func (c *Controller) SubmitLeadGeneration(ctx context.Context, supplier domain.Supplier) {
	c.mu.Lock()
	lead := supplier
	c.session.ActiveLead = &lead
	c.appendBotLocked(msgGeneratingLeads)
	req := backend.TurnRequest{
		UserInput:  "",
		Context:    c.session.Context.Clone(),
		ActiveLead: &lead,
	}
	c.mu.Unlock()

	reply, err := c.transport.Chat(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.appendBotLocked(failureMessage(err))
		return
	}
	c.applyReplyLocked(reply)
}

// Reset clears the history for a new chat. Context, leads, and the
// active supplier survive; only the transcript starts over.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reveal.Cancel()
	c.session.History = nil
	c.listener.SessionReset()
}

// Snapshot returns a deep copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.snapshot()
}

// Sending reports whether a text turn is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Sending
}

// RevealState exposes the reveal engine's lifecycle state.
func (c *Controller) RevealState() RevealState {
	return c.reveal.State()
}

func (c *Controller) applyReplyLocked(reply *backend.Reply) {
	switch reply.Kind {
	case backend.KindLeads:
		c.session.Leads = append([]domain.Lead(nil), reply.Leads...)
		c.listener.LeadsReplaced(c.session.Leads)
		c.appendBotLocked(msgLeadsGenerated)

	case backend.KindMessage:
		c.session.Context = MergeContext(c.session.Context, reply.Context)
		c.startRevealLocked(reply.Message, reply.Sources)

	default:
		// The reference behavior swallows these; surface the gap in the
		// logs rather than the conversation.
		c.log.Warn().Msg("backend reply carried neither leads nor a message")
	}
}

// startRevealLocked appends an empty bot message and begins disclosing
// text into it. The previous reveal is cancelled first so its pending
// ticks fail the token check before the new one mutates anything.
func (c *Controller) startRevealLocked(fullText string, sources []domain.Source) {
	c.reveal.Cancel()
	c.appendLocked(domain.ChatMessage{
		Role:      domain.RoleBot,
		Sources:   sources,
		CreatedAt: time.Now(),
	})
	idx := len(c.session.History) - 1

	c.reveal.Start(fullText, func(tok RevealToken, partial string) bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !tok.Valid() || idx >= len(c.session.History) {
			return false
		}
		c.session.History[idx].Text = partial
		c.listener.MessageRevealed(idx, partial)
		return true
	})
}

func (c *Controller) appendBotLocked(text string) {
	c.appendLocked(domain.ChatMessage{
		Role:      domain.RoleBot,
		Text:      text,
		Sources:   []domain.Source{},
		CreatedAt: time.Now(),
	})
}

func (c *Controller) appendLocked(msg domain.ChatMessage) {
	c.session.History = append(c.session.History, msg)
	c.listener.MessageAppended(len(c.session.History)-1, msg)
}

// failureMessage maps a transport error onto the fixed display string for
// its kind: server-reported, connectivity, or unclassified.
func failureMessage(err error) string {
	var se *backend.ServerError
	switch {
	case errors.As(err, &se):
		msg := se.Message
		if msg == "" {
			msg = msgServerErrGeneric
		}
		return msgServerErrPrefix + msg
	case errors.Is(err, backend.ErrNoResponse):
		return msgNoResponse
	default:
		return msgUnexpected
	}
}
