package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenWithPayload(t *testing.T, payload string) string {
	t.Helper()
	enc := base64.RawURLEncoding.EncodeToString
	header := enc([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + enc([]byte(payload)) + "." + enc([]byte("sig"))
}

func TestSubject_HappyPath(t *testing.T) {
	token := tokenWithPayload(t, `{"sub":"user-123","role":"authenticated"}`)
	sub, err := Subject("Bearer " + token)
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)
}

func TestSubject_MissingHeader(t *testing.T) {
	for _, header := range []string{"", "   "} {
		_, err := Subject(header)
		require.ErrorIs(t, err, ErrMissingHeader)
	}
}

func TestSubject_TwoSegments(t *testing.T) {
	_, err := Subject("Bearer abc.def")
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestSubject_GarbagePayload(t *testing.T) {
	_, err := Subject("Bearer a.%%%.c")
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestSubject_NoSubClaim(t *testing.T) {
	token := tokenWithPayload(t, `{"role":"authenticated"}`)
	_, err := Subject("Bearer " + token)
	require.ErrorIs(t, err, ErrMissingSubject)
}

func TestSubject_EmptySubClaim(t *testing.T) {
	token := tokenWithPayload(t, `{"sub":""}`)
	_, err := Subject("Bearer " + token)
	require.ErrorIs(t, err, ErrMissingSubject)
}

func TestSubject_WithoutBearerPrefix(t *testing.T) {
	// The original edge functions strip "Bearer " when present but accept a
	// bare token too.
	token := tokenWithPayload(t, `{"sub":"user-456"}`)
	sub, err := Subject(token)
	require.NoError(t, err)
	require.Equal(t, "user-456", sub)
}
