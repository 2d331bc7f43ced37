package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"lingobuddy/internal/auth"
	"lingobuddy/internal/usecase"
)

// TalkService is the slice of the feature service the talk handler needs.
type TalkService interface {
	Talk(ctx context.Context, userID string, req usecase.TalkRequest) (usecase.TalkResult, error)
}

type TalkHandler struct {
	svc TalkService
}

func NewTalkHandler(svc TalkService) (*TalkHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: talk service must not be nil")
	}
	return &TalkHandler{svc: svc}, nil
}

func (h *TalkHandler) Handle(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	if isPreflight(req) {
		return preflightResponse(), nil
	}
	corrID := correlationID(req.Headers)
	log := slog.With("feature", "talk", "correlationId", corrID)

	userID, err := auth.Subject(headerValue(req.Headers, headerAuthorization))
	if err != nil {
		log.WarnContext(ctx, "rejecting request", "err", err)
		return authErrorResponse(corrID, err), nil
	}

	body, err := requestBody(req)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"}), nil
	}
	var in usecase.TalkRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"}), nil
	}

	out, err := h.svc.Talk(ctx, userID, in)
	if err != nil {
		log.ErrorContext(ctx, "talk turn failed", "userId", userID, "err", err)
		return errorResponse(corrID, err), nil
	}
	return jsonResponse(http.StatusOK, corrID, out), nil
}
