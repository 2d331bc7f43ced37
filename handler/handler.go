// Package handler adapts the feature services to Lambda Function URL
// events: CORS preflight, correlation IDs, bearer-subject extraction,
// request decoding, and uniform error mapping with generic user-facing
// messages. Upstream detail is logged here and never echoed to clients.
package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"lingobuddy/internal/auth"
	"lingobuddy/internal/usecase"
)

const (
	headerAuthorization = "authorization"
	headerPersonality   = "x-buddy-personality"
	headerCorrelation   = "x-correlation-id"

	contentTypeJSON = "application/json"
	contentTypeSSE  = "text/event-stream"
)

// corsHeaders mirror what the web client was built against.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type, x-buddy-personality, x-correlation-id",
}

type errorBody struct {
	Error string `json:"error"`
}

// headerValue does a case-insensitive lookup. Function URLs lowercase
// header names, but direct invocations and tests may not.
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// correlationID reuses the caller's id when present, otherwise mints one.
func correlationID(headers map[string]string) string {
	if id := strings.TrimSpace(headerValue(headers, headerCorrelation)); id != "" {
		return id
	}
	return uuid.NewString()
}

func isPreflight(req events.LambdaFunctionURLRequest) bool {
	return req.RequestContext.HTTP.Method == http.MethodOptions
}

// requestBody returns the raw body bytes, decoding the base64 wrapping
// Function URLs apply to binary-ish payloads.
func requestBody(req events.LambdaFunctionURLRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	return base64.StdEncoding.DecodeString(req.Body)
}

func baseHeaders(corrID, contentType string) map[string]string {
	h := make(map[string]string, len(corsHeaders)+2)
	for k, v := range corsHeaders {
		h[k] = v
	}
	h["Content-Type"] = contentType
	h["X-Correlation-Id"] = corrID
	return h
}

func preflightResponse() events.LambdaFunctionURLResponse {
	h := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		h[k] = v
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusNoContent, Headers: h}
}

func jsonResponse(status int, corrID string, v any) events.LambdaFunctionURLResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"An error occurred. Please try again."}`)
	}
	return events.LambdaFunctionURLResponse{
		StatusCode: status,
		Headers:    baseHeaders(corrID, contentTypeJSON),
		Body:       string(body),
	}
}

// authErrorResponse maps token-extraction failures to 401 with the
// message shape the client expects.
func authErrorResponse(corrID string, err error) events.LambdaFunctionURLResponse {
	msg := "Unauthorized"
	switch {
	case errors.Is(err, auth.ErrMissingHeader):
		msg = "Missing authorization header"
	case errors.Is(err, auth.ErrMalformedToken):
		msg = "Invalid token format"
	case errors.Is(err, auth.ErrMissingSubject):
		msg = "Invalid token payload"
	}
	return jsonResponse(http.StatusUnauthorized, corrID, errorBody{Error: msg})
}

// errorStatus translates a pipeline error into an HTTP status and a safe,
// generic user-facing message.
func errorStatus(err error) (int, string) {
	var uerr *usecase.Error
	if !errors.As(err, &uerr) {
		return http.StatusInternalServerError, "An error occurred. Please try again."
	}
	switch uerr.Code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest, "Invalid input format"
	case usecase.ErrorUnauthorized:
		return http.StatusUnauthorized, "Unauthorized"
	case usecase.ErrorQuotaDenied:
		return http.StatusTooManyRequests, usecase.QuotaDeniedMessage
	case usecase.ErrorRateLimited:
		return http.StatusTooManyRequests, "Rate limits exceeded, please try again later."
	case usecase.ErrorPaymentRequired:
		return http.StatusPaymentRequired, "AI credits depleted. Please add credits to continue."
	default:
		return http.StatusInternalServerError, "An error occurred. Please try again."
	}
}

func errorResponse(corrID string, err error) events.LambdaFunctionURLResponse {
	status, msg := errorStatus(err)
	return jsonResponse(status, corrID, errorBody{Error: msg})
}
