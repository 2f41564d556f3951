package input

import (
	"context"

	"chatsql/internal/domain/entity"
)

type AgentResult struct {
	FinalAnswer string
	Iterations  int
	Steps       []entity.Step
}

// AgentExecutor answers a natural-language question. It receives a string,
// returns a string, and may fail.
type AgentExecutor interface {
	Execute(ctx context.Context, question string) (*AgentResult, error)
}
