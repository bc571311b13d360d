package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/internal/store"
)

const testToken = "test-token"

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.Gateway.Auth.Token = testToken
	cfg.Gateway.AllowedOrigins = []string{"https://widget.example.com"}
	cfg.Session.RevealIntervalMs = 1
	return cfg
}

// newTestGateway spins up the gateway on an httptest server and returns
// it together with the WebSocket URL.
func newTestGateway(t *testing.T, transport backend.Transport, opts ...ServerOption) (*Server, string) {
	t.Helper()
	log := logging.New(io.Discard, "silent")
	s := New(testConfig(), transport, log, opts...)

	mux := http.NewServeMux()
	s.registerHTTPRoutes(mux)
	ts := httptest.NewServer(withMiddleware(mux, s.log, s.cfg.Gateway.AllowedOrigins))
	t.Cleanup(ts.Close)

	return s, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

// wsConn wraps a dialed connection, buffering event frames while waiting
// for responses.
type wsConn struct {
	t      *testing.T
	conn   *websocket.Conn
	events []Frame
}

func (w *wsConn) read() Frame {
	w.t.Helper()
	w.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f Frame
	require.NoError(w.t, w.conn.ReadJSON(&f))
	return f
}

// call sends a request and reads until its response arrives, stashing
// any events seen on the way.
func (w *wsConn) call(id, method string, params any) Frame {
	w.t.Helper()
	req, err := NewRequest(id, method, params)
	require.NoError(w.t, err)
	require.NoError(w.t, w.conn.WriteJSON(req))
	return w.waitResponse(id)
}

func (w *wsConn) waitResponse(id string) Frame {
	w.t.Helper()
	for {
		f := w.read()
		if f.Type == FrameTypeEvent {
			w.events = append(w.events, f)
			continue
		}
		if f.ID == id {
			return f
		}
	}
}

func (w *wsConn) eventsNamed(name string) []Frame {
	var out []Frame
	for _, f := range w.events {
		if f.Event == name {
			out = append(out, f)
		}
	}
	return out
}

// dialWidget connects and completes the handshake.
func dialWidget(t *testing.T, url, token string) *wsConn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	w := &wsConn{t: t, conn: conn}

	challenge := w.read()
	require.Equal(t, FrameTypeEvent, challenge.Type)
	require.Equal(t, "connect.challenge", challenge.Event)

	resp := w.call("c1", "connect", ConnectParams{
		MinProtocol: 1,
		MaxProtocol: 1,
		Client:      ClientInfo{ID: "widget-test", Version: "0.0.1"},
		Auth:        &ConnectAuth{Token: token},
	})
	require.NotNil(t, resp.OK)
	require.True(t, *resp.OK, "handshake failed: %+v", resp.Error)

	var hello HelloOK
	require.NoError(t, json.Unmarshal(resp.Payload, &hello))
	assert.Equal(t, ProtocolVersion, hello.Protocol)
	assert.Contains(t, hello.Features.Methods, "chat.send")
	return w
}

func TestHandshakeRejectsBadToken(t *testing.T) {
	_, url := newTestGateway(t, &backend.Mock{})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	w := &wsConn{t: t, conn: conn}
	w.read() // challenge

	req, err := NewRequest("c1", "connect", ConnectParams{
		Client: ClientInfo{ID: "widget-test"},
		Auth:   &ConnectAuth{Token: "wrong"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(req))

	resp := w.read()
	require.NotNil(t, resp.OK)
	assert.False(t, *resp.OK)
	assert.Equal(t, "unauthorized", resp.Error.Code)
}

func TestHealthEndpointAndRPC(t *testing.T) {
	_, url := newTestGateway(t, &backend.Mock{})

	httpURL := "http" + strings.TrimPrefix(strings.TrimSuffix(url, "/ws"), "ws")
	res, err := http.Get(httpURL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	w := dialWidget(t, url, testToken)
	resp := w.call("h1", "health", nil)
	require.True(t, *resp.OK)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Payload, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Clients)
}

func TestChatSendStreamsReveal(t *testing.T) {
	mock := &backend.Mock{}
	mock.Queue(&backend.Reply{
		Kind:    backend.KindMessage,
		Message: "Hello there",
		Sources: []domain.Source{"crm"},
		Context: domain.ConversationContext{"intent": "greeting"},
	}, nil)
	_, url := newTestGateway(t, mock)
	w := dialWidget(t, url, testToken)

	resp := w.call("m1", "chat.send", map[string]string{"message": "hi"})
	require.True(t, *resp.OK)
	var result struct {
		Accepted bool `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal(resp.Payload, &result))
	assert.True(t, result.Accepted)

	// The reveal drains after the response settles; poll the snapshot
	// until the bot message is fully disclosed.
	require.Eventually(t, func() bool {
		state := w.call("s1", "session.state", nil)
		var snap struct {
			History []domain.ChatMessage `json:"history"`
			Sending bool                 `json:"sending"`
		}
		if err := json.Unmarshal(state.Payload, &snap); err != nil {
			return false
		}
		return len(snap.History) == 2 &&
			snap.History[1].Text == "Hello there" &&
			!snap.Sending
	}, 5*time.Second, 20*time.Millisecond)

	// Both history appends were pushed as events, and the reveal
	// produced at least one delta.
	appended := w.eventsNamed("chat.message")
	require.GreaterOrEqual(t, len(appended), 2)
	assert.NotEmpty(t, w.eventsNamed("chat.delta"))
}

func TestChatSendRejectsEmptyMessage(t *testing.T) {
	_, url := newTestGateway(t, &backend.Mock{})
	w := dialWidget(t, url, testToken)

	resp := w.call("m1", "chat.send", map[string]string{})
	require.NotNil(t, resp.OK)
	assert.False(t, *resp.OK)
	assert.Equal(t, "invalid_params", resp.Error.Code)
}

func TestLeadsGenerateWithStores(t *testing.T) {
	db, err := store.Open(":memory:", logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	suppliers := store.NewSupplierStore(db)
	state := store.NewStateStore(db)

	sup := &domain.Supplier{CompanyName: "Acme", ProductName: "Widget"}
	require.NoError(t, suppliers.Create(sup))

	mock := &backend.Mock{}
	mock.Queue(&backend.Reply{
		Kind: backend.KindLeads,
		Leads: []domain.Lead{
			{CompanyName: "Prospect A", Email: "a@example.com"},
			{CompanyName: "Prospect B", Email: "b@example.com"},
		},
	}, nil)

	_, url := newTestGateway(t, mock, WithSuppliers(suppliers), WithState(state))
	w := dialWidget(t, url, testToken)

	resp := w.call("g1", "leads.generate", map[string]string{"supplierId": sup.ID})
	require.True(t, *resp.OK)

	var result struct {
		Leads []domain.Lead `json:"leads"`
	}
	require.NoError(t, json.Unmarshal(resp.Payload, &result))
	assert.Len(t, result.Leads, 2)

	assert.NotEmpty(t, w.eventsNamed("leads.updated"))

	// The selection is persisted for future sessions.
	saved, err := state.Get(store.StateActiveSupplier)
	require.NoError(t, err)
	assert.Equal(t, sup.ID, saved)

	// The turn went out with the supplier as active lead and no text.
	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].UserInput)
	require.NotNil(t, reqs[0].ActiveLead)
	assert.Equal(t, "Acme", reqs[0].ActiveLead.CompanyName)
}

func TestLeadsGenerateUnknownSupplier(t *testing.T) {
	db, err := store.Open(":memory:", logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, url := newTestGateway(t, &backend.Mock{}, WithSuppliers(store.NewSupplierStore(db)))
	w := dialWidget(t, url, testToken)

	resp := w.call("g1", "leads.generate", map[string]string{"supplierId": "nope"})
	assert.False(t, *resp.OK)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestSuppliersList(t *testing.T) {
	db, err := store.Open(":memory:", logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	suppliers := store.NewSupplierStore(db)
	require.NoError(t, suppliers.Create(&domain.Supplier{CompanyName: "Acme", ProductName: "Widget"}))

	_, url := newTestGateway(t, &backend.Mock{}, WithSuppliers(suppliers))
	w := dialWidget(t, url, testToken)

	resp := w.call("l1", "suppliers.list", nil)
	require.True(t, *resp.OK)

	var result struct {
		Suppliers []domain.Supplier `json:"suppliers"`
	}
	require.NoError(t, json.Unmarshal(resp.Payload, &result))
	require.Len(t, result.Suppliers, 1)
	assert.Equal(t, "Acme", result.Suppliers[0].CompanyName)
}

func TestSuppliersListWithoutStore(t *testing.T) {
	_, url := newTestGateway(t, &backend.Mock{})
	w := dialWidget(t, url, testToken)

	resp := w.call("l1", "suppliers.list", nil)
	assert.False(t, *resp.OK)
	assert.Equal(t, "unavailable", resp.Error.Code)
}

func TestChatResetEmitsEvent(t *testing.T) {
	mock := &backend.Mock{}
	mock.Queue(&backend.Reply{Kind: backend.KindMessage, Message: "hi"}, nil)
	_, url := newTestGateway(t, mock)
	w := dialWidget(t, url, testToken)

	w.call("m1", "chat.send", map[string]string{"message": "hello"})

	resp := w.call("r1", "chat.reset", nil)
	require.True(t, *resp.OK)

	state := w.call("s1", "session.state", nil)
	var snap struct {
		History []domain.ChatMessage `json:"history"`
	}
	require.NoError(t, json.Unmarshal(state.Payload, &snap))
	assert.Empty(t, snap.History)
	assert.NotEmpty(t, w.eventsNamed("session.reset"))
}

func TestUnknownMethod(t *testing.T) {
	_, url := newTestGateway(t, &backend.Mock{})
	w := dialWidget(t, url, testToken)

	resp := w.call("x1", "no.such.method", nil)
	assert.False(t, *resp.OK)
	assert.Equal(t, "method_not_found", resp.Error.Code)
}

func TestOriginCheck(t *testing.T) {
	_, url := newTestGateway(t, &backend.Mock{})

	// A disallowed browser origin is refused at upgrade time.
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, res, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	if res != nil {
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	}

	// The configured origin is accepted.
	header = http.Header{"Origin": []string{"https://widget.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}
