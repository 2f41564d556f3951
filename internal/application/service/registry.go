package service

import (
	"sort"
	"sync"

	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

type ToolRegistryImpl struct {
	mu    sync.RWMutex
	tools map[entity.ToolName]output.ToolPort
}

func NewToolRegistry(tools ...output.ToolPort) *ToolRegistryImpl {
	r := &ToolRegistryImpl{
		tools: make(map[entity.ToolName]output.ToolPort),
	}
	for _, tool := range tools {
		r.Register(tool)
	}
	return r
}

func (r *ToolRegistryImpl) Register(tool output.ToolPort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[entity.ToolName(tool.Name())] = tool
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns the tools ordered by name.
func (r *ToolRegistryImpl) All() []output.ToolPort {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]output.ToolPort, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	all := r.All()
	result := make([]entity.ToolDefinition, 0, len(all))
	for _, tool := range all {
		result = append(result, entity.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return result
}
