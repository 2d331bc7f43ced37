// Package usecase implements the shared feature pipeline: validate the
// request, check the daily quota, relay the completion call, shape the
// response, and record the use. The four features run through one
// parameterized service instead of four diverging handler copies.
package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"lingobuddy/internal/domain"
)

// DefaultModel is used when the model parameter is absent or unreadable.
const DefaultModel = "google/gemini-2.5-flash"

// Reply fallbacks when the upstream returns an empty completion.
const (
	emptyTalkReply    = "I didn't catch that. Could you try again?"
	emptyRespondReply = "Thanks for sharing! Let's continue..."
)

type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// GatewayClient is the completion-relay surface the service depends on.
type GatewayClient interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
	ChatStream(ctx context.Context, model string, messages []domain.ChatMessage) (io.ReadCloser, error)
}

// httpStatusCoder lets the service classify upstream failures without
// depending on the gateway package's concrete error type.
type httpStatusCoder interface {
	HTTPStatusCode() int
}

type Service struct {
	gateway     GatewayClient
	gate        *QuotaGate
	params      ParamGetter
	paramPrefix string

	modelMu sync.Mutex
	model   string
}

func NewService(gw GatewayClient, gate *QuotaGate, params ParamGetter, paramPrefix string) (*Service, error) {
	if gw == nil {
		return nil, errors.New("usecase: gateway client must not be nil")
	}
	if gate == nil {
		return nil, errors.New("usecase: quota gate must not be nil")
	}
	if params == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	return &Service{
		gateway:     gw,
		gate:        gate,
		params:      params,
		paramPrefix: paramPrefix,
	}, nil
}

// TalkResult is the talk feature's shaped response.
type TalkResult struct {
	Message    string `json:"message"`
	Correction string `json:"correction"`
}

// ListenGenerateResult carries a generated listening conversation.
type ListenGenerateResult struct {
	Conversation string `json:"conversation"`
}

// ListenRespondResult continues a listening conversation.
type ListenRespondResult struct {
	Response string `json:"response"`
}

// StreamResult is the chat feature's streamed response. Body relays the
// upstream SSE bytes in order and unaltered; closing it releases the
// upstream connection.
type StreamResult struct {
	Body io.ReadCloser
}

// Chat relays a streamed completion for the running conversation. The
// correction tip stays embedded in the stream for the client to extract;
// the assembled transcript is only used for logging.
func (s *Service) Chat(ctx context.Context, userID string, personality domain.Personality, req ChatRequest) (*StreamResult, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}
	if qerr := s.gate.Check(ctx, userID); qerr != nil {
		return nil, qerr
	}

	messages := make([]domain.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: chatSystemPrompt(personality)})
	messages = append(messages, req.Messages...)

	upstream, err := s.gateway.ChatStream(ctx, s.resolveModel(ctx), messages)
	if err != nil {
		return nil, mapUpstreamError("chat", err)
	}

	// The upstream accepted the request, so the use counts even if the
	// client disconnects mid-stream.
	s.gate.RecordUse(ctx, userID, domain.FeatureChat)

	return &StreamResult{Body: newRelayReader(ctx, upstream)}, nil
}

// Talk runs one corrected conversation turn and splits the embedded tip
// out of the reply.
func (s *Service) Talk(ctx context.Context, userID string, req TalkRequest) (TalkResult, error) {
	if verr := req.Validate(); verr != nil {
		return TalkResult{}, verr
	}
	if qerr := s.gate.Check(ctx, userID); qerr != nil {
		return TalkResult{}, qerr
	}

	raw, err := s.gateway.Chat(ctx, s.resolveModel(ctx), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: talkSystemPrompt()},
		{Role: domain.RoleUser, Content: req.Message},
	})
	if err != nil {
		return TalkResult{}, mapUpstreamError("talk", err)
	}
	if strings.TrimSpace(raw) == "" {
		raw = emptyTalkReply
	}

	body, tip := ExtractCorrection(raw)
	s.gate.RecordUse(ctx, userID, domain.FeatureTalk)
	return TalkResult{Message: body, Correction: tip}, nil
}

// ListenGenerate produces a practice conversation about a topic.
func (s *Service) ListenGenerate(ctx context.Context, userID string, req ListenGenerateRequest) (ListenGenerateResult, error) {
	if verr := req.Validate(); verr != nil {
		return ListenGenerateResult{}, verr
	}
	if qerr := s.gate.Check(ctx, userID); qerr != nil {
		return ListenGenerateResult{}, qerr
	}

	conversation, err := s.gateway.Chat(ctx, s.resolveModel(ctx), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: listenGenerateSystemPrompt(req.Topic, req.Mode)},
		{Role: domain.RoleUser, Content: listenGenerateUserMessage(req.Topic)},
	})
	if err != nil {
		return ListenGenerateResult{}, mapUpstreamError("listen_generate", err)
	}

	s.gate.RecordUse(ctx, userID, domain.FeatureListen)
	return ListenGenerateResult{Conversation: conversation}, nil
}

// ListenRespond continues a listening exercise. Follow-up turns inside an
// already-counted session are neither quota-gated nor counted.
func (s *Service) ListenRespond(ctx context.Context, req ListenRespondRequest) (ListenRespondResult, error) {
	if verr := req.Validate(); verr != nil {
		return ListenRespondResult{}, verr
	}

	reply, err := s.gateway.Chat(ctx, s.resolveModel(ctx), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: listenRespondSystemPrompt(req.Conversation, req.UserResponse)},
		{Role: domain.RoleUser, Content: req.UserResponse},
	})
	if err != nil {
		return ListenRespondResult{}, mapUpstreamError("listen_respond", err)
	}
	if strings.TrimSpace(reply) == "" {
		reply = emptyRespondReply
	}
	return ListenRespondResult{Response: reply}, nil
}

// ReadGenerate produces reading content with a vocabulary list.
func (s *Service) ReadGenerate(ctx context.Context, userID string, req ReadGenerateRequest) (ReadResult, error) {
	if verr := req.Validate(); verr != nil {
		return ReadResult{}, verr
	}
	if qerr := s.gate.Check(ctx, userID); qerr != nil {
		return ReadResult{}, qerr
	}

	raw, err := s.gateway.Chat(ctx, s.resolveModel(ctx), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: readingSystemPrompt(req.Topic)},
		{Role: domain.RoleUser, Content: readingUserMessage(req.Topic)},
	})
	if err != nil {
		return ReadResult{}, mapUpstreamError("read_generate", err)
	}

	s.gate.RecordUse(ctx, userID, domain.FeatureRead)
	return parseReadingContent(raw), nil
}

// resolveModel reads the model name from the parameter store once per
// process; a missing parameter falls back to DefaultModel so a config gap
// never takes the feature down.
func (s *Service) resolveModel(ctx context.Context) string {
	s.modelMu.Lock()
	defer s.modelMu.Unlock()
	if s.model != "" {
		return s.model
	}

	val, err := s.params.GetParameter(ctx, s.paramPrefix+"/config/model")
	if err != nil || strings.TrimSpace(val) == "" {
		slog.WarnContext(ctx, "model parameter unavailable, using default", "model", DefaultModel, "err", err)
		s.model = DefaultModel
		return s.model
	}
	s.model = strings.TrimSpace(val)
	return s.model
}

// mapUpstreamError translates gateway failures into the error taxonomy.
// Raw upstream detail stays inside the wrapped error for logs; handlers
// present only a generic message.
func mapUpstreamError(op string, err error) *Error {
	var statusErr httpStatusCoder
	if errors.As(err, &statusErr) {
		switch statusErr.HTTPStatusCode() {
		case 429:
			return newError(ErrorRateLimited, op+"_rate_limited", err)
		case 402:
			return newError(ErrorPaymentRequired, op+"_credits_exhausted", err)
		default:
			return newError(ErrorUpstream, op+"_gateway_error", err)
		}
	}
	return newError(ErrorUnavailable, op+"_gateway_unreachable", err)
}
