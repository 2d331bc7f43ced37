package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lingobuddy/internal/domain"
)

type stubGateway struct {
	chatOut   string
	chatErr   error
	chatCalls int
	lastMsgs  []domain.ChatMessage
	lastModel string

	streamOut   string
	streamErr   error
	streamCalls int
}

func (s *stubGateway) Chat(_ context.Context, model string, messages []domain.ChatMessage) (string, error) {
	s.chatCalls++
	s.lastModel = model
	s.lastMsgs = messages
	return s.chatOut, s.chatErr
}

func (s *stubGateway) ChatStream(_ context.Context, model string, messages []domain.ChatMessage) (io.ReadCloser, error) {
	s.streamCalls++
	s.lastModel = model
	s.lastMsgs = messages
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	return io.NopCloser(strings.NewReader(s.streamOut)), nil
}

type statusError struct{ status int }

func (e *statusError) Error() string       { return fmt.Sprintf("status %d", e.status) }
func (e *statusError) HTTPStatusCode() int { return e.status }

type stubParams struct {
	val string
	err error
}

func (s *stubParams) GetParameter(_ context.Context, _ string) (string, error) {
	return s.val, s.err
}

func newTestService(t *testing.T, gw *stubGateway, ledger *fakeLedger) *Service {
	t.Helper()
	gate, err := NewQuotaGate(ledger, 50)
	require.NoError(t, err)
	svc, err := NewService(gw, gate, &stubParams{val: "google/gemini-2.5-flash"}, "/lingobuddy")
	require.NoError(t, err)
	return svc
}

func TestNewService_Validation(t *testing.T) {
	gate, err := NewQuotaGate(&fakeLedger{}, 50)
	require.NoError(t, err)

	_, err = NewService(nil, gate, &stubParams{}, "/p")
	require.Error(t, err)
	_, err = NewService(&stubGateway{}, nil, &stubParams{}, "/p")
	require.Error(t, err)
	_, err = NewService(&stubGateway{}, gate, nil, "/p")
	require.Error(t, err)
	_, err = NewService(&stubGateway{}, gate, &stubParams{}, " ")
	require.Error(t, err)
}

func TestTalk_EndToEnd(t *testing.T) {
	gw := &stubGateway{chatOut: "Nice! That sounds like a fun trip.\n💡 Say 'I went'"}
	ledger := &fakeLedger{total: 10}
	svc := newTestService(t, gw, ledger)

	out, err := svc.Talk(context.Background(), "user-1", TalkRequest{Message: "I goes to market yesterday"})
	require.NoError(t, err)
	require.Equal(t, "Nice! That sounds like a fun trip.", out.Message)
	require.Equal(t, "Say 'I went'", out.Correction)
	require.Equal(t, 1, ledger.incCalls, "ledger increment must be invoked exactly once")
	require.Equal(t, domain.FeatureTalk, ledger.lastFeature)

	require.Len(t, gw.lastMsgs, 2)
	require.Equal(t, domain.RoleSystem, gw.lastMsgs[0].Role)
	require.Equal(t, "I goes to market yesterday", gw.lastMsgs[1].Content)
}

func TestTalk_InvalidInputMakesNoCalls(t *testing.T) {
	gw := &stubGateway{}
	ledger := &fakeLedger{}
	svc := newTestService(t, gw, ledger)

	_, err := svc.Talk(context.Background(), "user-1", TalkRequest{Message: ""})
	requireCode(t, err, ErrorInvalidInput)
	require.Zero(t, gw.chatCalls, "invalid input must be rejected before any network call")
	require.Zero(t, ledger.totalCalls)
	require.Zero(t, ledger.incCalls)
}

func TestTalk_QuotaDenied(t *testing.T) {
	gw := &stubGateway{chatOut: "hi"}
	ledger := &fakeLedger{total: 50}
	svc := newTestService(t, gw, ledger)

	_, err := svc.Talk(context.Background(), "user-1", TalkRequest{Message: "hello"})
	requireCode(t, err, ErrorQuotaDenied)
	require.Zero(t, gw.chatCalls, "quota denial must precede the upstream call")
	require.Zero(t, ledger.incCalls)
}

func TestTalk_QuotaFailOpen(t *testing.T) {
	gw := &stubGateway{chatOut: "hello there"}
	ledger := &fakeLedger{totalErr: errors.New("ledger down")}
	svc := newTestService(t, gw, ledger)

	out, err := svc.Talk(context.Background(), "user-1", TalkRequest{Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, "hello there", out.Message)
}

func TestTalk_EmptyCompletionFallback(t *testing.T) {
	svc := newTestService(t, &stubGateway{chatOut: "  "}, &fakeLedger{})
	out, err := svc.Talk(context.Background(), "user-1", TalkRequest{Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, emptyTalkReply, out.Message)
	require.Empty(t, out.Correction)
}

func TestTalk_UpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"rate limited", &statusError{429}, ErrorRateLimited},
		{"payment required", &statusError{402}, ErrorPaymentRequired},
		{"server error", &statusError{500}, ErrorUpstream},
		{"bad request", &statusError{400}, ErrorUpstream},
		{"network", errors.New("dial tcp: timeout"), ErrorUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			svc := newTestService(t, &stubGateway{chatErr: tc.err}, ledger)
			_, err := svc.Talk(context.Background(), "user-1", TalkRequest{Message: "hello"})
			requireCode(t, err, tc.code)
			require.Zero(t, ledger.incCalls, "failed completions must not count against the quota")
		})
	}
}

func TestChat_StreamsPassthrough(t *testing.T) {
	const sse = "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
		"data: [DONE]\n"
	gw := &stubGateway{streamOut: sse}
	ledger := &fakeLedger{total: 5}
	svc := newTestService(t, gw, ledger)

	out, err := svc.Chat(context.Background(), "user-1", domain.PersonalityFun,
		ChatRequest{Messages: []domain.ChatMessage{userMsg("hi")}})
	require.NoError(t, err)
	defer func() { _ = out.Body.Close() }()

	got, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	require.Equal(t, sse, string(got), "stream bytes must pass through unaltered and in order")
	require.Equal(t, 1, ledger.incCalls)
	require.Equal(t, domain.FeatureChat, ledger.lastFeature)

	// System prompt prepended, caller turns preserved after it.
	require.Equal(t, domain.RoleSystem, gw.lastMsgs[0].Role)
	require.Contains(t, gw.lastMsgs[0].Content, "playful")
	require.Equal(t, "hi", gw.lastMsgs[1].Content)
}

func TestChat_QuotaDeniedBeforeStream(t *testing.T) {
	gw := &stubGateway{streamOut: "data: [DONE]\n"}
	svc := newTestService(t, gw, &fakeLedger{total: 50})

	_, err := svc.Chat(context.Background(), "user-1", domain.PersonalityFriendly,
		ChatRequest{Messages: []domain.ChatMessage{userMsg("hi")}})
	requireCode(t, err, ErrorQuotaDenied)
	require.Zero(t, gw.streamCalls)
}

func TestChat_UpstreamRateLimited(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(t, &stubGateway{streamErr: &statusError{429}}, ledger)

	_, err := svc.Chat(context.Background(), "user-1", domain.PersonalityFriendly,
		ChatRequest{Messages: []domain.ChatMessage{userMsg("hi")}})
	requireCode(t, err, ErrorRateLimited)
	require.Zero(t, ledger.incCalls)
}

func TestListenGenerate_EndToEnd(t *testing.T) {
	gw := &stubGateway{chatOut: "Person A: Hi!\nPerson B: Hello!"}
	ledger := &fakeLedger{}
	svc := newTestService(t, gw, ledger)

	out, err := svc.ListenGenerate(context.Background(), "user-1", ListenGenerateRequest{Topic: "travel", Mode: "voice"})
	require.NoError(t, err)
	require.Equal(t, "Person A: Hi!\nPerson B: Hello!", out.Conversation)
	require.Equal(t, domain.FeatureListen, ledger.lastFeature)
	require.Contains(t, gw.lastMsgs[0].Content, "read aloud", "voice mode must switch the style line")
}

func TestListenRespond_NoQuotaNoIncrement(t *testing.T) {
	gw := &stubGateway{chatOut: "That's a good point! I might say..."}
	ledger := &fakeLedger{total: 50}
	svc := newTestService(t, gw, ledger)

	out, err := svc.ListenRespond(context.Background(), ListenRespondRequest{
		Conversation: "Person A: Hi!",
		UserResponse: "I agree with he",
	})
	require.NoError(t, err)
	require.Equal(t, "That's a good point! I might say...", out.Response)
	require.Zero(t, ledger.totalCalls, "follow-up turns are not quota-gated")
	require.Zero(t, ledger.incCalls, "follow-up turns are not counted")
}

func TestReadGenerate_ContractJSON(t *testing.T) {
	gw := &stubGateway{chatOut: `{"content":"Oceans cover the planet.","difficult_words":["phenomenon"],"definitions":{"phenomenon":"observable event"}}`}
	ledger := &fakeLedger{}
	svc := newTestService(t, gw, ledger)

	out, err := svc.ReadGenerate(context.Background(), "user-1", ReadGenerateRequest{Topic: "oceans"})
	require.NoError(t, err)
	require.Equal(t, "Oceans cover the planet.", out.Content)
	require.Equal(t, []string{"phenomenon"}, out.DifficultWords)
	require.Equal(t, domain.FeatureRead, ledger.lastFeature)
}

func TestReadGenerate_FallbackPath(t *testing.T) {
	gw := &stubGateway{chatOut: "Magnificent landscapes stretched endlessly."}
	svc := newTestService(t, gw, &fakeLedger{})

	out, err := svc.ReadGenerate(context.Background(), "user-1", ReadGenerateRequest{Topic: "landscapes"})
	require.NoError(t, err)
	require.Equal(t, "Magnificent landscapes stretched endlessly.", out.Content)
	require.Contains(t, out.DifficultWords, "magnificent")
	require.Empty(t, out.Definitions)
}

func TestResolveModel_FallsBackToDefault(t *testing.T) {
	gate, err := NewQuotaGate(&fakeLedger{}, 50)
	require.NoError(t, err)
	svc, err := NewService(&stubGateway{chatOut: "x"}, gate, &stubParams{err: errors.New("ssm down")}, "/p")
	require.NoError(t, err)

	require.Equal(t, DefaultModel, svc.resolveModel(context.Background()))
}

func TestResolveModel_ReadsParameterOnce(t *testing.T) {
	gw := &stubGateway{chatOut: "x"}
	gate, err := NewQuotaGate(&fakeLedger{}, 50)
	require.NoError(t, err)
	svc, err := NewService(gw, gate, &stubParams{val: " custom/model \n"}, "/p")
	require.NoError(t, err)

	require.Equal(t, "custom/model", svc.resolveModel(context.Background()))
	require.Equal(t, "custom/model", svc.resolveModel(context.Background()))
}

func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, code, uerr.Code)
}
