package output

import (
	"chatsql/internal/domain/entity"

	"github.com/tmc/langchaingo/tools"
)

// ToolPort is a langchaingo tool that also describes its JSON arguments,
// so it can be offered to a function-calling model.
type ToolPort interface {
	tools.Tool
	Parameters() map[string]interface{}
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
