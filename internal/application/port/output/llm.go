package output

import (
	"context"

	"chatsql/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// LLMProvider builds a client for the API key supplied with a request.
type LLMProvider interface {
	ForAPIKey(apiKey string) LLMPort
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
}
