package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"corpride/internal/general/jwt"
	"corpride/internal/general/logger"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Notifier pushes ride status updates to connected requesters. One requester
// may hold at most one live connection; a newer connection replaces the old.
type Notifier struct {
	logger *logger.Logger
	jwtMgr *jwt.Manager

	mu    sync.RWMutex
	conns map[string]*conn // requesterID -> connection
}

type conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

// NewNotifier creates a requester notification hub.
func NewNotifier(log *logger.Logger, jwtMgr *jwt.Manager) *Notifier {
	return &Notifier{
		logger: log,
		jwtMgr: jwtMgr,
		conns:  make(map[string]*conn),
	}
}

// Connect upgrades GET /ws/rides and keeps the connection registered until it
// closes. The token arrives via header or query parameter; the subject claim
// identifies the requester.
func (n *Notifier) Connect(w http.ResponseWriter, r *http.Request) {
	raw, err := jwt.FromAuthorization(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	_, claims, err := n.jwtMgr.ParseAndValidate(raw)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	requesterID := claims.Subject

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.logger.Error(r.Context(), "websocket_upgrade_failed", "Failed to upgrade to WebSocket", err, nil)
		return
	}

	c := &conn{ws: ws}
	n.register(requesterID, c)
	defer n.unregister(requesterID, c)
	defer ws.Close()

	n.logger.Info(r.Context(), "ws_connected", "Requester WebSocket connected",
		map[string]any{"requester_id": requesterID})

	ws.SetReadLimit(1 << 20) // 1 MiB
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(_ string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	stop := make(chan struct{})
	defer close(stop)
	go n.pingLoop(c, stop)

	// read loop: clients only listen, inbound frames are drained for control handling
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				n.logger.Error(r.Context(), "ws_unexpected_close", "Requester connection closed unexpectedly", err,
					map[string]any{"requester_id": requesterID})
			}
			return
		}
	}
}

// NotifyRequester sends one JSON message to a requester's live connection.
// A requester without a connection is not an error; the update is simply dropped.
func (n *Notifier) NotifyRequester(requesterID string, payload any) error {
	n.mu.RLock()
	c, ok := n.conns[requesterID]
	n.mu.RUnlock()
	if !ok {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, body)
}

func (n *Notifier) pingLoop(c *conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				_ = c.ws.Close() // unblocks the reader
				return
			}
		}
	}
}

func (n *Notifier) register(requesterID string, c *conn) {
	n.mu.Lock()
	old := n.conns[requesterID]
	n.conns[requesterID] = c
	n.mu.Unlock()

	if old != nil {
		_ = old.ws.Close()
	}
}

func (n *Notifier) unregister(requesterID string, c *conn) {
	n.mu.Lock()
	if n.conns[requesterID] == c {
		delete(n.conns, requesterID)
	}
	n.mu.Unlock()
}
