package relay

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/taskbooking/taskbooking-api/internal/service/auth"
)

// WSHandler upgrades authenticated HTTP requests to websocket
// connections and attaches them to the hub.
type WSHandler struct {
	hub        *Hub
	jwtService auth.JWTService
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewWSHandler creates the websocket upgrade handler.
func NewWSHandler(hub *Hub, jwtService auth.JWTService, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		logger:     log.With("component", "ws_handler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect cross-origin from the web app.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP authenticates the request, upgrades it and starts the
// client's read and write pumps. The token comes from the Authorization
// header or, for browser websocket clients that cannot set headers, the
// token query parameter.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		http.Error(w, "missing authentication token", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid authentication token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Debug("websocket upgrade failed", "error", err, "user_id", claims.UserID)
		return
	}

	client := newClient(h.hub, conn, claims.UserID)
	h.hub.register <- client

	// The request context dies when ServeHTTP returns; the pumps outlive
	// it on the hijacked connection.
	go client.writePump()
	go client.readPump(context.Background())
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
