package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lingobuddy/internal/domain"
)

// Input bounds, matching the schemas the web client was built against.
const (
	maxChatMessages   = 50
	maxChatContentLen = 4000
	maxTalkMessageLen = 2000
	minTopicLen       = 3
	maxTopicLen       = 200
	maxUserRespLen    = 2000
)

// ChatRequest is the chat feature's request body.
type ChatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// TalkRequest is the talk feature's request body.
type TalkRequest struct {
	Message string `json:"message"`
}

// ListenGenerateRequest asks for a generated listening conversation.
type ListenGenerateRequest struct {
	Topic string `json:"topic"`
	Mode  string `json:"mode,omitempty"`
}

// ListenRespondRequest continues a listening conversation.
type ListenRespondRequest struct {
	Conversation string `json:"conversation"`
	UserResponse string `json:"userResponse"`
}

// ReadGenerateRequest asks for generated reading content.
type ReadGenerateRequest struct {
	Topic string `json:"topic"`
}

// Validate reports the first violated constraint, if any. It must run
// before the token decode and before any external call.
func (r *ChatRequest) Validate() *Error {
	if len(r.Messages) == 0 {
		return newError(ErrorInvalidInput, "messages_empty", nil)
	}
	if len(r.Messages) > maxChatMessages {
		return newError(ErrorInvalidInput, "messages_too_many", nil)
	}
	for i, m := range r.Messages {
		if !domain.ValidRole(m.Role) {
			return newError(ErrorInvalidInput, fmt.Sprintf("messages[%d]_invalid_role", i), nil)
		}
		if n := utf8.RuneCountInString(m.Content); n == 0 || n > maxChatContentLen {
			return newError(ErrorInvalidInput, fmt.Sprintf("messages[%d]_content_length", i), nil)
		}
	}
	return nil
}

func (r *TalkRequest) Validate() *Error {
	r.Message = strings.TrimSpace(r.Message)
	if n := utf8.RuneCountInString(r.Message); n == 0 || n > maxTalkMessageLen {
		return newError(ErrorInvalidInput, "message_length", nil)
	}
	return nil
}

func (r *ListenGenerateRequest) Validate() *Error {
	r.Topic = strings.TrimSpace(r.Topic)
	if n := utf8.RuneCountInString(r.Topic); n < minTopicLen || n > maxTopicLen {
		return newError(ErrorInvalidInput, "topic_length", nil)
	}
	return nil
}

func (r *ListenRespondRequest) Validate() *Error {
	if r.Conversation == "" {
		return newError(ErrorInvalidInput, "conversation_empty", nil)
	}
	if n := utf8.RuneCountInString(r.UserResponse); n == 0 || n > maxUserRespLen {
		return newError(ErrorInvalidInput, "userResponse_length", nil)
	}
	return nil
}

func (r *ReadGenerateRequest) Validate() *Error {
	r.Topic = strings.TrimSpace(r.Topic)
	if n := utf8.RuneCountInString(r.Topic); n < minTopicLen || n > maxTopicLen {
		return newError(ErrorInvalidInput, "topic_length", nil)
	}
	return nil
}
