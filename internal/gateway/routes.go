package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/store"
)

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

// registerRPCHandlers sets up all RPC method handlers.
func (s *Server) registerRPCHandlers() {
	s.Handle("health", s.rpcHealth)
	s.Handle("chat.send", s.rpcChatSend)
	s.Handle("chat.reset", s.rpcChatReset)
	s.Handle("leads.generate", s.rpcLeadsGenerate)
	s.Handle("suppliers.list", s.rpcSuppliersList)
	s.Handle("session.state", s.rpcSessionState)
}

func (s *Server) rpcHealth(rc *RequestContext) {
	rc.Respond(HealthResponse{
		Status:  "ok",
		Version: s.version,
		Clients: s.clients.Count(),
	})
}

type chatSendParams struct {
	Message string `json:"message"`
}

// rpcChatSend runs one chat turn. The response settles when the backend
// reply lands; reveal progress streams as chat.delta events meanwhile.
// A turn arriving while another is in flight responds accepted=false.
func (s *Server) rpcChatSend(rc *RequestContext) {
	var p chatSendParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.Message == "" {
		rc.RespondError("invalid_params", "message is required")
		return
	}

	// Run off the read loop so the widget can keep talking to us while
	// the backend thinks.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout())
		defer cancel()

		accepted := rc.Client.Controller.SubmitUserTurn(ctx, p.Message)
		rc.Respond(map[string]any{"accepted": accepted})
	}()
}

func (s *Server) rpcChatReset(rc *RequestContext) {
	rc.Client.Controller.Reset()
	rc.Respond(map[string]any{"reset": true})
}

type leadsGenerateParams struct {
	SupplierID string `json:"supplierId,omitempty"`

	// Supplier carries the full record when the widget is not backed by
	// the supplier store.
	Supplier *domain.Supplier `json:"supplier,omitempty"`
}

// rpcLeadsGenerate runs a lead-generation turn for the selected supplier
// and persists the selection for future sessions.
func (s *Server) rpcLeadsGenerate(rc *RequestContext) {
	var p leadsGenerateParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	sup := p.Supplier
	if sup == nil {
		if p.SupplierID == "" {
			rc.RespondError("invalid_params", "supplierId or supplier is required")
			return
		}
		if s.suppliers == nil {
			rc.RespondError("unavailable", "supplier store not configured")
			return
		}
		found, err := s.suppliers.Get(p.SupplierID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rc.RespondError("not_found", "unknown supplier: "+p.SupplierID)
			} else {
				rc.RespondError("storage_error", err.Error())
			}
			return
		}
		sup = found
	}

	if s.state != nil && sup.ID != "" {
		if err := s.state.Set(store.StateActiveSupplier, sup.ID); err != nil {
			s.log.Warn().Err(err).Msg("persisting active supplier")
		}
	}

	supplier := *sup
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout())
		defer cancel()

		rc.Client.Controller.SubmitLeadGeneration(ctx, supplier)
		snap := rc.Client.Controller.Snapshot()
		rc.Respond(map[string]any{"leads": snap.Leads})
	}()
}

func (s *Server) rpcSuppliersList(rc *RequestContext) {
	if s.suppliers == nil {
		rc.RespondError("unavailable", "supplier store not configured")
		return
	}
	sups, err := s.suppliers.List()
	if err != nil {
		rc.RespondError("storage_error", err.Error())
		return
	}
	if sups == nil {
		sups = []domain.Supplier{}
	}
	rc.Respond(map[string]any{"suppliers": sups})
}

// rpcSessionState returns a full snapshot so a reconnecting widget can
// repaint without replaying events.
func (s *Server) rpcSessionState(rc *RequestContext) {
	snap := rc.Client.Controller.Snapshot()
	rc.Respond(map[string]any{
		"history":    snap.History,
		"context":    snap.Context,
		"activeLead": snap.ActiveLead,
		"leads":      snap.Leads,
		"sending":    snap.Sending,
	})
}
