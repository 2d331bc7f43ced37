package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feed(t *testing.T, a *Accumulator, chunks ...string) {
	t.Helper()
	for _, c := range chunks {
		n, err := a.Write([]byte(c))
		require.NoError(t, err)
		require.Equal(t, len(c), n)
	}
}

func TestAccumulator_AssemblesDeltas(t *testing.T) {
	a := &Accumulator{}
	feed(t, a,
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n",
		"data: [DONE]\n",
	)
	require.Equal(t, "Hello", a.Text())
	require.True(t, a.Done())
}

func TestAccumulator_IgnoresAfterDone(t *testing.T) {
	a := &Accumulator{}
	feed(t, a,
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n",
		"data: [DONE]\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\" there\"}}]}\n",
	)
	require.Equal(t, "Hi", a.Text())
}

func TestAccumulator_SkipsCommentsAndBlanks(t *testing.T) {
	a := &Accumulator{}
	feed(t, a,
		": heartbeat\n",
		"\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n",
	)
	require.Equal(t, "ok", a.Text())
	require.False(t, a.Done())
}

func TestAccumulator_SkipsMalformedFrame(t *testing.T) {
	a := &Accumulator{}
	feed(t, a,
		"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n",
		"data: {not json}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n",
	)
	require.Equal(t, "ab", a.Text())
}

func TestAccumulator_HandlesSplitChunks(t *testing.T) {
	a := &Accumulator{}
	feed(t, a,
		"data: {\"choices\":[{\"del",
		"ta\":{\"content\":\"split\"}}]}\n",
	)
	require.Equal(t, "split", a.Text())
}

func TestAccumulator_StripsCarriageReturn(t *testing.T) {
	a := &Accumulator{}
	feed(t, a, "data: {\"choices\":[{\"delta\":{\"content\":\"crlf\"}}]}\r\n")
	require.Equal(t, "crlf", a.Text())
}

func TestAccumulator_SkipsNonDataLines(t *testing.T) {
	a := &Accumulator{}
	feed(t, a,
		"event: message\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n",
	)
	require.Equal(t, "x", a.Text())
}

func TestAccumulator_FlushHandlesUnterminatedLine(t *testing.T) {
	a := &Accumulator{}
	feed(t, a, "data: {\"choices\":[{\"delta\":{\"content\":\"tail\"}}]}")
	require.Equal(t, "", a.Text())
	a.Flush()
	require.Equal(t, "tail", a.Text())
}

func TestAccumulator_EmptyChoices(t *testing.T) {
	a := &Accumulator{}
	feed(t, a, "data: {\"choices\":[]}\n")
	require.Equal(t, "", a.Text())
}
