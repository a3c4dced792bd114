package host

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jonwraymond/gridrun/code"
)

// NewWebSocketConnection wraps an established WebSocket. Each message is
// one text frame.
func NewWebSocketConnection(conn *websocket.Conn) Connection {
	read := func() ([]byte, error) {
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return nil, err
			}
			if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
				return data, nil
			}
		}
	}
	write := func(data []byte) error {
		return conn.WriteMessage(websocket.TextMessage, data)
	}
	closeFn := func() error {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		return conn.Close()
	}
	return newFramedConnection(nil, read, write, closeFn)
}

// DialWebSocket connects to a Handler at url.
func DialWebSocket(ctx context.Context, url string) (Connection, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocketConnection(conn), nil
}

// Handler serves one Worker per WebSocket. Each socket gets its own
// engine, so execution contexts never share interpreter state.
type Handler struct {
	// NewEngine creates the engine for a new socket.
	NewEngine func() Runtime

	// Worker holds the settings applied to every Worker. Its Runtime
	// field is ignored.
	Worker WorkerConfig

	upgrader websocket.Upgrader
}

// NewHandler creates a Handler that accepts any origin.
func NewHandler(newEngine func() Runtime, cfg WorkerConfig) *Handler {
	return &Handler{
		NewEngine: newEngine,
		Worker:    cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs a Worker until the socket closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger().Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn := NewWebSocketConnection(ws)
	defer conn.Close()

	cfg := h.Worker
	cfg.Runtime = h.NewEngine()
	worker, err := NewWorker(conn, cfg)
	if err != nil {
		h.logger().Error("worker setup failed", "err", err)
		return
	}
	h.logger().Info("execution context opened", "remote", r.RemoteAddr)
	if err := worker.Serve(r.Context()); err != nil {
		h.logger().Info("execution context closed", "remote", r.RemoteAddr, "reason", err)
	}
}

func (h *Handler) logger() code.Logger {
	if h.Worker.Logger != nil {
		return h.Worker.Logger
	}
	return nopLogger{}
}
