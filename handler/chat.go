package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"lingobuddy/internal/auth"
	"lingobuddy/internal/domain"
	"lingobuddy/internal/usecase"
)

// ChatService is the slice of the feature service the chat handler needs.
type ChatService interface {
	Chat(ctx context.Context, userID string, personality domain.Personality, req usecase.ChatRequest) (*usecase.StreamResult, error)
}

// ChatHandler relays the upstream SSE stream straight through as a Lambda
// Function URL streaming response, so tokens reach the client as they
// arrive.
type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) (*ChatHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: chat service must not be nil")
	}
	return &ChatHandler{svc: svc}, nil
}

func (h *ChatHandler) Handle(ctx context.Context, req events.LambdaFunctionURLRequest) (*events.LambdaFunctionURLStreamingResponse, error) {
	if isPreflight(req) {
		pre := preflightResponse()
		return &events.LambdaFunctionURLStreamingResponse{
			StatusCode: pre.StatusCode,
			Headers:    pre.Headers,
		}, nil
	}
	corrID := correlationID(req.Headers)
	log := slog.With("feature", "chat", "correlationId", corrID)

	userID, err := auth.Subject(headerValue(req.Headers, headerAuthorization))
	if err != nil {
		log.WarnContext(ctx, "rejecting request", "err", err)
		return streamError(authErrorResponse(corrID, err)), nil
	}

	body, err := requestBody(req)
	if err != nil {
		return streamError(jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"})), nil
	}
	var in usecase.ChatRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return streamError(jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"})), nil
	}

	personality := domain.ParsePersonality(headerValue(req.Headers, headerPersonality))
	out, err := h.svc.Chat(ctx, userID, personality, in)
	if err != nil {
		log.ErrorContext(ctx, "chat stream failed", "userId", userID, "err", err)
		return streamError(errorResponse(corrID, err)), nil
	}

	return &events.LambdaFunctionURLStreamingResponse{
		StatusCode: http.StatusOK,
		Headers:    baseHeaders(corrID, contentTypeSSE),
		Body:       out.Body,
	}, nil
}

// streamError lifts a buffered error response into the streaming response
// shape the chat Lambda must always return.
func streamError(res events.LambdaFunctionURLResponse) *events.LambdaFunctionURLStreamingResponse {
	return &events.LambdaFunctionURLStreamingResponse{
		StatusCode: res.StatusCode,
		Headers:    res.Headers,
		Body:       strings.NewReader(res.Body),
	}
}
