// Package stream abstracts the duplex client channel a session runs over,
// keeping the session logic independent of the websocket transport.
package stream

import (
	"context"
	"errors"
)

// ErrClosed is returned by ReceiveFrame once the peer has gone away.
var ErrClosed = errors.New("stream closed by peer")

type FrameType int

const (
	FrameBinary FrameType = iota + 1
	FrameText
)

// Frame is one inbound client message: either a binary audio chunk or a text
// control message.
type Frame struct {
	Type FrameType
	Data []byte
	Text string
}

// Conn is one client connection. ReceiveFrame blocks until a frame arrives,
// the context is done, or the peer disconnects.
type Conn interface {
	ReceiveFrame(ctx context.Context) (Frame, error)
	SendJSON(v any) error
}
