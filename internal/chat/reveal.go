package chat

import (
	"sync"
	"time"
)

// DefaultRevealInterval is the delay between revealed characters.
const DefaultRevealInterval = 30 * time.Millisecond

// RevealState tracks the engine's lifecycle.
type RevealState int

const (
	RevealIdle RevealState = iota
	RevealRevealing
	RevealDone
)

// Reveal discloses an already-complete assistant message one character at
// a time, so the user perceives progressive generation. At most one
// reveal is active: starting a new one invalidates the previous token,
// and a stale tick must never mutate history.
type Reveal struct {
	interval time.Duration

	mu    sync.Mutex
	gen   uint64
	state RevealState
}

// NewReveal creates an engine ticking at the given interval.
// Non-positive intervals fall back to DefaultRevealInterval.
func NewReveal(interval time.Duration) *Reveal {
	if interval <= 0 {
		interval = DefaultRevealInterval
	}
	return &Reveal{interval: interval}
}

// RevealToken identifies one reveal run. A token goes stale as soon as
// the engine is cancelled or restarted.
type RevealToken struct {
	r   *Reveal
	gen uint64
}

// Valid reports whether this token still owns the engine.
func (t RevealToken) Valid() bool {
	if t.r == nil {
		return false
	}
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	return t.r.gen == t.gen
}

// Start invalidates any in-flight reveal and begins disclosing fullText
// rune by rune on a new goroutine. apply is called once per tick with
// the token and the text revealed so far; the caller must re-check the
// token under the lock guarding its history slot and return false to
// stop. Start never blocks.
func (r *Reveal) Start(fullText string, apply func(tok RevealToken, partial string) bool) RevealToken {
	r.mu.Lock()
	r.gen++
	tok := RevealToken{r: r, gen: r.gen}
	r.state = RevealRevealing
	r.mu.Unlock()

	runes := []rune(fullText)
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for i := 1; i <= len(runes); i++ {
			<-ticker.C
			if !tok.Valid() {
				return
			}
			if !apply(tok, string(runes[:i])) {
				return
			}
		}
		r.finish(tok)
	}()
	return tok
}

// Cancel invalidates the current token. In-flight ticks see the stale
// token before touching state and stop.
func (r *Reveal) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state = RevealIdle
}

// State returns the engine's current lifecycle state.
func (r *Reveal) State() RevealState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Reveal) finish(tok RevealToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen == tok.gen {
		r.state = RevealDone
	}
}
