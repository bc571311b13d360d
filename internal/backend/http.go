package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
)

const chatPath = "/api/chat/"

// wireResponse mirrors the service's response JSON. Leads and message are
// mutually exclusive in interpretation but may both appear on the wire.
type wireResponse struct {
	Leads   []domain.Lead              `json:"leads"`
	Message string                     `json:"message"`
	Sources []domain.Source            `json:"sources"`
	Context domain.ConversationContext `json:"context"`
	Error   string                     `json:"error"`
}

// HTTPTransport talks to the lead-generation service over HTTP.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewHTTPTransport creates a transport for the service at baseURL.
// A zero timeout disables the client-side deadline; the session layer
// deliberately imposes none of its own.
func NewHTTPTransport(baseURL string, timeout time.Duration, log *logging.Logger) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.Sub("backend"),
	}
}

// Chat posts one turn and classifies the response.
func (t *HTTPTransport) Chat(ctx context.Context, req TurnRequest) (*Reply, error) {
	if req.Context == nil {
		req.Context = domain.ConversationContext{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding turn request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building turn request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.log.Warn().Err(err).Msg("backend unreachable")
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.log.Warn().
			Int("status", resp.StatusCode).
			Str("error", wire.Error).
			Msg("backend reported an error")
		msg := wire.Error
		if msg == "" {
			msg = wire.Message
		}
		return nil, &ServerError{Message: msg}
	}

	reply := classify(wire)

	t.log.Debug().
		Str("kind", reply.Kind.String()).
		Int("leads", len(reply.Leads)).
		Dur("duration", time.Since(start)).
		Msg("turn completed")

	return reply, nil
}

// classify resolves the duck-typed wire shape into a tagged Reply.
// Leads take priority over a message when both are present.
func classify(wire wireResponse) *Reply {
	if len(wire.Leads) > 0 {
		return &Reply{
			Kind:    KindLeads,
			Leads:   wire.Leads,
			Context: wire.Context,
		}
	}
	if wire.Message != "" {
		return &Reply{
			Kind:    KindMessage,
			Message: wire.Message,
			Sources: wire.Sources,
			Context: wire.Context,
		}
	}
	return &Reply{Kind: KindEmpty, Context: wire.Context}
}
