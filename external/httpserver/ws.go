package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/signwavelab/glossa/internal/stream"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 8 * 1024,
	// Browser clients connect from arbitrary origins.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsConn adapts a gorilla websocket connection to stream.Conn. One session
// goroutine owns the connection; reads and writes are never concurrent.
type wsConn struct {
	ws *websocket.Conn
}

func (c *wsConn) ReceiveFrame(ctx context.Context) (stream.Frame, error) {
	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := c.ws.SetReadDeadline(deadline); err != nil {
		return stream.Frame{}, err
	}

	messageType, data, err := c.ws.ReadMessage()
	if err != nil {
		var netErr net.Error
		switch {
		case errors.As(err, &netErr) && netErr.Timeout():
			return stream.Frame{}, context.DeadlineExceeded
		case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
			return stream.Frame{}, stream.ErrClosed
		case errors.Is(err, net.ErrClosed):
			return stream.Frame{}, stream.ErrClosed
		default:
			return stream.Frame{}, err
		}
	}

	switch messageType {
	case websocket.BinaryMessage:
		return stream.Frame{Type: stream.FrameBinary, Data: data}, nil
	case websocket.TextMessage:
		return stream.Frame{Type: stream.FrameText, Text: string(data)}, nil
	default:
		// Control frames are handled by gorilla internally; anything else is
		// treated as an ignorable text frame.
		return stream.Frame{Type: stream.FrameText, Text: ""}, nil
	}
}

func (c *wsConn) SendJSON(v any) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

func (s *Server) handleAudioStream(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer func() {
		_ = ws.Close()
	}()

	modelTag := r.URL.Query().Get("model")
	s.manager.HandleConnection(r.Context(), &wsConn{ws: ws}, modelTag)
}
