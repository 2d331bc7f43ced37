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

// ReadService is the slice of the feature service the read handler needs.
type ReadService interface {
	ReadGenerate(ctx context.Context, userID string, req usecase.ReadGenerateRequest) (usecase.ReadResult, error)
}

type ReadHandler struct {
	svc ReadService
}

func NewReadHandler(svc ReadService) (*ReadHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: read service must not be nil")
	}
	return &ReadHandler{svc: svc}, nil
}

func (h *ReadHandler) Handle(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	if isPreflight(req) {
		return preflightResponse(), nil
	}
	corrID := correlationID(req.Headers)
	log := slog.With("feature", "read", "correlationId", corrID)

	userID, err := auth.Subject(headerValue(req.Headers, headerAuthorization))
	if err != nil {
		log.WarnContext(ctx, "rejecting request", "err", err)
		return authErrorResponse(corrID, err), nil
	}

	body, err := requestBody(req)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"}), nil
	}
	var in usecase.ReadGenerateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"}), nil
	}

	out, err := h.svc.ReadGenerate(ctx, userID, in)
	if err != nil {
		log.ErrorContext(ctx, "read generate failed", "userId", userID, "err", err)
		return errorResponse(corrID, err), nil
	}
	return jsonResponse(http.StatusOK, corrID, out), nil
}
