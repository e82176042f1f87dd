// Package ws serves live fitting sessions over WebSocket: each client frame
// is a fit request and each reply carries the full fit response.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/HerbHall/curvefit/internal/auth"
	"github.com/HerbHall/curvefit/internal/server"
	"github.com/HerbHall/curvefit/pkg/curve"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Fitter runs one fit batch. Satisfied by *fitting.Service.
type Fitter interface {
	Fit(ctx context.Context, req curve.FitRequest) (*curve.FitResponse, error)
}

// Handler provides the WebSocket fitting endpoint.
type Handler struct {
	hub       *Hub
	fitter    Fitter
	tokens    *auth.TokenService
	readLimit int64
	logger    *zap.Logger

	writeTimeout time.Duration
	drainTimeout time.Duration
}

var _ server.SimpleRouteRegistrar = (*Handler)(nil)

// NewHandler creates a WebSocket handler. A nil tokens disables the token
// query-parameter check. readLimit caps a single client frame in bytes.
func NewHandler(fitter Fitter, tokens *auth.TokenService, readLimit int64, logger *zap.Logger) *Handler {
	return &Handler{
		hub:       NewHub(logger),
		fitter:    fitter,
		tokens:    tokens,
		readLimit: readLimit,
		logger:    logger,

		writeTimeout: defaultWriteTimeout,
		drainTimeout: time.Second,
	}
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/fit", h.handleFitSession)
}

// Sessions returns the number of open sessions.
func (h *Handler) Sessions() int {
	return h.hub.ClientCount()
}

// Shutdown notifies open sessions and closes them once their send queues
// drain, waiting at most drainTimeout or until ctx is done. Hijacked
// connections are not closed by http.Server.Shutdown, so the server calls
// this first.
func (h *Handler) Shutdown(ctx context.Context) {
	h.hub.Broadcast(Message{
		Type:      MessageServerShutdown,
		Timestamp: time.Now().UTC(),
		Data:      ShutdownData{Reason: "server shutting down"},
	})

	drainCtx, cancel := context.WithTimeout(ctx, h.drainTimeout)
	defer cancel()
	h.hub.Drain(drainCtx)

	h.hub.CloseAll(websocket.StatusGoingAway, "server shutting down")
}

// handleFitSession upgrades the connection and serves fit requests until the
// client disconnects or sends something that is not a JSON fit request.
func (h *Handler) handleFitSession(w http.ResponseWriter, r *http.Request) {
	subject := "anonymous"
	opts := &websocket.AcceptOptions{}
	if h.tokens != nil {
		// Browsers cannot set headers on WebSocket requests.
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token parameter", http.StatusUnauthorized)
			return
		}
		claims, err := h.tokens.ValidateAccessToken(token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		subject = claims.Subject
		// The token already proves the caller; allow cross-origin pages.
		opts.InsecureSkipVerify = true
	}

	// Sessions outlive the server's per-request read and write timeouts.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := newClient(conn, subject, h.logger)
	h.hub.Register(client)

	client.writeTimeout = h.writeTimeout

	// A writer that gives up (stalled peer, write error) cancels the session
	// so readPump cannot block on a full send queue.
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		client.writePump(ctx)
	}()

	code, reason := client.readPump(ctx, h.fitter)

	// Unregister closes send; writePump flushes queued replies and exits.
	h.hub.Unregister(client)
	<-done
	_ = conn.Close(code, reason)
}
