package gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
)

// doneSentinel is the literal token closing an SSE completion stream.
const doneSentinel = "[DONE]"

// streamFrame is the minimal shape of one streamed completion chunk.
type streamFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Accumulator incrementally decodes an SSE completion stream fed through
// Write and assembles the full assistant message. Text always returns the
// latest known total, never an individual delta. It is not safe for
// concurrent use.
type Accumulator struct {
	buf  []byte
	text strings.Builder
	done bool
}

// Write feeds a chunk of the SSE byte stream. Chunk boundaries need not
// align with frame boundaries; incomplete trailing lines are buffered.
func (a *Accumulator) Write(p []byte) (int, error) {
	a.buf = append(a.buf, p...)
	for {
		i := bytes.IndexByte(a.buf, '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(a.buf[:i])
		a.buf = a.buf[i+1:]
		a.consume(line)
	}
}

// Flush processes any buffered partial line. Call once at end of stream.
func (a *Accumulator) Flush() {
	if len(a.buf) > 0 {
		line := string(a.buf)
		a.buf = nil
		a.consume(line)
	}
}

// Text returns the assistant message assembled so far.
func (a *Accumulator) Text() string {
	return a.text.String()
}

// Done reports whether the end sentinel was seen. Lines after it are
// ignored.
func (a *Accumulator) Done() bool {
	return a.done
}

func (a *Accumulator) consume(line string) {
	if a.done {
		return
	}
	line = strings.TrimSuffix(line, "\r")
	if line == "" || strings.HasPrefix(line, ":") {
		return
	}
	data, ok := strings.CutPrefix(line, "data: ")
	if !ok {
		return
	}
	data = strings.TrimSpace(data)
	if data == doneSentinel {
		a.done = true
		return
	}

	var frame streamFrame
	if err := json.Unmarshal([]byte(data), &frame); err != nil {
		// A corrupt frame must not abort the stream.
		slog.Debug("skipping malformed stream frame", "err", err)
		return
	}
	if len(frame.Choices) > 0 {
		a.text.WriteString(frame.Choices[0].Delta.Content)
	}
}
