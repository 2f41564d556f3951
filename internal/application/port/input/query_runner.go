package input

import (
	"context"

	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"
)

// QueryRunner is the "Run Query" action. It never returns an error: every
// failure is folded into the outcome banner.
type QueryRunner interface {
	Run(ctx context.Context, req entity.QueryRequest, progress output.ProgressPort) entity.Outcome
}
