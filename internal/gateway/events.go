package gateway

import (
	"sync/atomic"

	"github.com/leadpilot/leadpilot/internal/domain"
)

// clientListener pushes session mutations to the owning widget as event
// frames. Send errors are swallowed; a dead socket is torn down by the
// read loop.
type clientListener struct {
	client *Client
	seq    *atomic.Int64
}

func (l *clientListener) emit(event string, payload any) {
	l.client.SendEvent(event, payload, l.seq.Add(1))
}

func (l *clientListener) MessageAppended(index int, msg domain.ChatMessage) {
	l.emit("chat.message", map[string]any{"index": index, "message": msg})
}

func (l *clientListener) MessageRevealed(index int, text string) {
	l.emit("chat.delta", map[string]any{"index": index, "text": text})
}

func (l *clientListener) LeadsReplaced(leads []domain.Lead) {
	l.emit("leads.updated", map[string]any{"leads": leads})
}

func (l *clientListener) SessionReset() {
	l.emit("session.reset", map[string]any{})
}
