package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/signwavelab/glossa/internal/stream"
)

// Aggregation is the outcome of one receive phase. Audio is owned by the
// caller once Run returns; no other goroutine holds a reference to it.
type Aggregation struct {
	Audio     []byte
	Completed bool

	// IgnoredFrames counts text frames that were not the end control.
	IgnoredFrames int
}

// Aggregator accumulates binary frames into one contiguous buffer until the
// "end" control arrives. Limits are first-class: exceeding MaxBytes or going
// IdleTimeout without a frame terminates the session with a typed failure.
type Aggregator struct {
	MaxBytes    int64
	IdleTimeout time.Duration
}

// Run consumes frames in arrival order. Binary payloads append to the
// buffer; a text frame whose trimmed lower-cased value is "end" completes the
// phase; any other text frame is ignored. A peer disconnect before "end"
// yields Completed=false with whatever was collected, and no failure.
func (a *Aggregator) Run(ctx context.Context, conn stream.Conn) (Aggregation, *Failure) {
	var buf []byte
	var ignored int
	for {
		recvCtx, cancel := context.WithTimeout(ctx, a.IdleTimeout)
		frame, err := conn.ReceiveFrame(recvCtx)
		cancel()
		if err != nil {
			switch {
			case errors.Is(err, stream.ErrClosed):
				return Aggregation{Audio: buf, Completed: false, IgnoredFrames: ignored}, nil
			case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
				return Aggregation{}, newFailure(FailureIdleTimeout, err)
			default:
				// Unexpected channel state mid-receive: log and abandon, the
				// same as a disconnect.
				slog.Error("receive failed mid-session", "error", err)
				return Aggregation{Audio: buf, Completed: false, IgnoredFrames: ignored}, nil
			}
		}

		switch frame.Type {
		case stream.FrameBinary:
			if int64(len(buf))+int64(len(frame.Data)) > a.MaxBytes {
				return Aggregation{}, newFailure(FailureLimitExceeded, nil)
			}
			buf = append(buf, frame.Data...)
		case stream.FrameText:
			if strings.ToLower(strings.TrimSpace(frame.Text)) == controlEnd {
				return Aggregation{Audio: buf, Completed: true, IgnoredFrames: ignored}, nil
			}
			// Other text frames are not an error.
			ignored++
		}
	}
}
