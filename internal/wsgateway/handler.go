package wsgateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/meerski/arakh/internal/engine"
	"github.com/meerski/arakh/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin allow-listing belongs to the reverse proxy in front of this
		// service; the gateway itself trusts whatever reaches it.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades authenticated HTTP connections to the owner session
// protocol, grounded on the teacher's websocket.Handler.
type Handler struct {
	Tokens  *session.TokenManager
	Manager *session.Manager
	Engine  *engine.Engine
}

// NewHandler wires a gateway handler to its session manager and engine.
func NewHandler(tokens *session.TokenManager, mgr *session.Manager, eng *engine.Engine) *Handler {
	return &Handler{Tokens: tokens, Manager: mgr, Engine: eng}
}

// ServeHTTP authenticates the bearer token, registers a session, upgrades
// to a websocket, and starts the client's read/write pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	ownerID, err := h.Tokens.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sess, outbox, err := h.Manager.RegisterSession(r.Context(), ownerID)
	if err != nil {
		conn.Close()
		return
	}

	client := NewClient(conn, sess, outbox, h.Engine, h.Manager)

	ctx, cancel := context.WithCancel(r.Context())
	go func() {
		client.ReadPump(ctx)
		cancel()
	}()
	go client.WritePump(ctx)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
