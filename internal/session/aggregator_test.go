package session

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/signwavelab/glossa/internal/stream"
)

// scriptedConn replays a fixed frame sequence. Once exhausted it either
// reports a peer close or blocks until the receive context expires.
type scriptedConn struct {
	frames []stream.Frame
	block  bool
	sent   []any
}

func (c *scriptedConn) ReceiveFrame(ctx context.Context) (stream.Frame, error) {
	if len(c.frames) > 0 {
		f := c.frames[0]
		c.frames = c.frames[1:]
		return f, nil
	}
	if c.block {
		<-ctx.Done()
		return stream.Frame{}, ctx.Err()
	}
	return stream.Frame{}, stream.ErrClosed
}

func (c *scriptedConn) SendJSON(v any) error {
	c.sent = append(c.sent, v)
	return nil
}

func binaryFrame(data []byte) stream.Frame {
	return stream.Frame{Type: stream.FrameBinary, Data: data}
}

func textFrame(text string) stream.Frame {
	return stream.Frame{Type: stream.FrameText, Text: text}
}

func newTestAggregator() *Aggregator {
	return &Aggregator{MaxBytes: 1 << 20, IdleTimeout: time.Second}
}

func TestAggregator_ConcatenatesChunksInOrder(t *testing.T) {
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	// The same payload split at several arbitrary chunk boundaries must
	// always reassemble identically.
	splits := [][]int{
		{1000},
		{1, 999},
		{333, 333, 334},
		{500, 250, 125, 125},
		{999, 1},
	}
	for _, sizes := range splits {
		var frames []stream.Frame
		off := 0
		for _, n := range sizes {
			frames = append(frames, binaryFrame(payload[off:off+n]))
			off += n
		}
		frames = append(frames, textFrame("end"))

		agg, failure := newTestAggregator().Run(context.Background(), &scriptedConn{frames: frames})
		if failure != nil {
			t.Fatalf("chunks %v: unexpected failure: %v", sizes, failure)
		}
		if !agg.Completed {
			t.Fatalf("chunks %v: expected completed aggregation", sizes)
		}
		if !bytes.Equal(agg.Audio, payload) {
			t.Fatalf("chunks %v: reassembled audio differs from payload", sizes)
		}
	}
}

func TestAggregator_EndControlNormalization(t *testing.T) {
	for _, control := range []string{"end", "END", " end ", "End", "\tEnD\n"} {
		frames := []stream.Frame{
			binaryFrame([]byte{1, 2, 3}),
			textFrame(control),
		}
		agg, failure := newTestAggregator().Run(context.Background(), &scriptedConn{frames: frames})
		if failure != nil {
			t.Fatalf("control %q: unexpected failure: %v", control, failure)
		}
		if !agg.Completed {
			t.Fatalf("control %q: expected completed aggregation", control)
		}
	}
}

func TestAggregator_OtherTextFramesIgnored(t *testing.T) {
	frames := []stream.Frame{
		textFrame("stop"),
		binaryFrame([]byte{1}),
		textFrame("ping"),
		binaryFrame([]byte{2}),
		textFrame("end"),
	}
	agg, failure := newTestAggregator().Run(context.Background(), &scriptedConn{frames: frames})
	if failure != nil {
		t.Fatalf("unexpected failure: %v", failure)
	}
	if !agg.Completed {
		t.Fatal("expected completed aggregation")
	}
	if !bytes.Equal(agg.Audio, []byte{1, 2}) {
		t.Fatalf("expected audio [1 2], got %v", agg.Audio)
	}
	if agg.IgnoredFrames != 2 {
		t.Fatalf("expected 2 ignored frames, got %d", agg.IgnoredFrames)
	}
}

func TestAggregator_DisconnectBeforeEnd(t *testing.T) {
	frames := []stream.Frame{
		binaryFrame([]byte{1, 2}),
	}
	agg, failure := newTestAggregator().Run(context.Background(), &scriptedConn{frames: frames})
	if failure != nil {
		t.Fatalf("unexpected failure: %v", failure)
	}
	if agg.Completed {
		t.Fatal("expected incomplete aggregation after disconnect")
	}
	if !bytes.Equal(agg.Audio, []byte{1, 2}) {
		t.Fatalf("expected collected audio to be returned, got %v", agg.Audio)
	}
}

func TestAggregator_MaxBytesExceeded(t *testing.T) {
	a := &Aggregator{MaxBytes: 4, IdleTimeout: time.Second}
	frames := []stream.Frame{
		binaryFrame([]byte{1, 2, 3}),
		binaryFrame([]byte{4, 5}),
		textFrame("end"),
	}
	_, failure := a.Run(context.Background(), &scriptedConn{frames: frames})
	if failure == nil {
		t.Fatal("expected limit failure")
	}
	if failure.Kind != FailureLimitExceeded {
		t.Fatalf("expected %s failure, got %s", FailureLimitExceeded, failure.Kind)
	}
}

func TestAggregator_IdleTimeout(t *testing.T) {
	a := &Aggregator{MaxBytes: 1 << 20, IdleTimeout: 10 * time.Millisecond}
	_, failure := a.Run(context.Background(), &scriptedConn{block: true})
	if failure == nil {
		t.Fatal("expected idle timeout failure")
	}
	if failure.Kind != FailureIdleTimeout {
		t.Fatalf("expected %s failure, got %s", FailureIdleTimeout, failure.Kind)
	}
}
