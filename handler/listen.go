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
	"lingobuddy/internal/usecase"
)

// ListenService is the slice of the feature service the listen handler
// needs: topic generation plus follow-up responses.
type ListenService interface {
	ListenGenerate(ctx context.Context, userID string, req usecase.ListenGenerateRequest) (usecase.ListenGenerateResult, error)
	ListenRespond(ctx context.Context, req usecase.ListenRespondRequest) (usecase.ListenRespondResult, error)
}

// ListenHandler serves both listen operations from one Lambda, routed by
// path suffix: .../listen-buddy-generate and .../listen-buddy-respond.
type ListenHandler struct {
	svc ListenService
}

func NewListenHandler(svc ListenService) (*ListenHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: listen service must not be nil")
	}
	return &ListenHandler{svc: svc}, nil
}

func (h *ListenHandler) Handle(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	if isPreflight(req) {
		return preflightResponse(), nil
	}
	corrID := correlationID(req.Headers)
	respond := strings.HasSuffix(strings.TrimRight(req.RawPath, "/"), "respond")
	op := "generate"
	if respond {
		op = "respond"
	}
	log := slog.With("feature", "listen", "op", op, "correlationId", corrID)

	userID, err := auth.Subject(headerValue(req.Headers, headerAuthorization))
	if err != nil {
		log.WarnContext(ctx, "rejecting request", "err", err)
		return authErrorResponse(corrID, err), nil
	}

	body, err := requestBody(req)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"}), nil
	}

	if respond {
		var in usecase.ListenRespondRequest
		if err := json.Unmarshal(body, &in); err != nil {
			return jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"}), nil
		}
		out, err := h.svc.ListenRespond(ctx, in)
		if err != nil {
			log.ErrorContext(ctx, "listen respond failed", "userId", userID, "err", err)
			return errorResponse(corrID, err), nil
		}
		return jsonResponse(http.StatusOK, corrID, out), nil
	}

	var in usecase.ListenGenerateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResponse(http.StatusBadRequest, corrID, errorBody{Error: "Invalid input format"}), nil
	}
	out, err := h.svc.ListenGenerate(ctx, userID, in)
	if err != nil {
		log.ErrorContext(ctx, "listen generate failed", "userId", userID, "err", err)
		return errorResponse(corrID, err), nil
	}
	return jsonResponse(http.StatusOK, corrID, out), nil
}
