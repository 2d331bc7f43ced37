package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"lingobuddy/internal/integrations/gateway"
)

// relayReader passes the upstream SSE bytes through unmodified while
// teeing them into an accumulator, so the server can log the assembled
// reply and the extracted tip without buffering the stream.
type relayReader struct {
	ctx      context.Context
	upstream io.ReadCloser
	tee      io.Reader
	acc      *gateway.Accumulator
	logged   bool
}

func newRelayReader(ctx context.Context, upstream io.ReadCloser) *relayReader {
	acc := &gateway.Accumulator{}
	return &relayReader{
		ctx:      ctx,
		upstream: upstream,
		tee:      io.TeeReader(upstream, acc),
		acc:      acc,
	}
}

func (r *relayReader) Read(p []byte) (int, error) {
	n, err := r.tee.Read(p)
	if errors.Is(err, io.EOF) {
		r.logOutcome("complete")
	}
	return n, err
}

// Close stops reading and releases the upstream connection. Called on
// client disconnect as well as on normal completion.
func (r *relayReader) Close() error {
	r.logOutcome("closed")
	return r.upstream.Close()
}

func (r *relayReader) logOutcome(state string) {
	if r.logged {
		return
	}
	r.logged = true
	r.acc.Flush()
	_, tip := ExtractCorrection(r.acc.Text())
	slog.InfoContext(r.ctx, "chat stream finished",
		"state", state,
		"chars", len(r.acc.Text()),
		"sawDone", r.acc.Done(),
		"hadCorrection", tip != "",
	)
}
