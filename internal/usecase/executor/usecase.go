package executor

import (
	"context"
	"fmt"
	"unicode/utf8"

	"chatsql/internal/application/port/input"
	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"
)

var _ input.AgentExecutor = (*UseCase)(nil)

const (
	DefaultMaxIterations     = 15
	DefaultMaxObservationLen = 20000
)

type Config struct {
	MaxIterations     int
	MaxObservationLen int
	Temperature       float32
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:     DefaultMaxIterations,
		MaxObservationLen: DefaultMaxObservationLen,
	}
}

// UseCase is a tool-calling agent loop: the model either asks for tools,
// whose observations are fed back, or answers in plain text.
type UseCase struct {
	llm          output.LLMPort
	tools        output.ToolRegistry
	logger       output.LoggerPort
	progress     output.ProgressPort
	systemPrompt string
	cfg          Config
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt string,
	cfg Config,
) *UseCase {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MaxObservationLen <= 0 {
		cfg.MaxObservationLen = DefaultMaxObservationLen
	}
	return &UseCase{
		llm:          llm,
		tools:        tools,
		logger:       logger,
		systemPrompt: systemPrompt,
		cfg:          cfg,
	}
}

// WithProgress reports each step to p as it happens.
func (uc *UseCase) WithProgress(p output.ProgressPort) *UseCase {
	uc.progress = p
	return uc
}

// Execute runs the loop for one question. When it fails after the loop has
// started, the returned result is still non-nil and holds the steps taken.
func (uc *UseCase) Execute(ctx context.Context, question string) (*input.AgentResult, error) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: uc.systemPrompt},
		{Role: entity.RoleUser, Content: question},
	}

	toolDefs := uc.tools.Definitions()
	result := &input.AgentResult{}

	for iteration := 1; iteration <= uc.cfg.MaxIterations; iteration++ {
		result.Iterations = iteration
		uc.logger.Debug("Starting iteration", "iteration", iteration)
		if uc.progress != nil {
			uc.progress.ShowIteration(ctx, iteration, uc.cfg.MaxIterations)
		}

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: uc.cfg.Temperature,
		})
		if err != nil {
			return result, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			result.FinalAnswer = resp.Message.Content
			return result, nil
		}

		if resp.Message.Content != "" && uc.progress != nil {
			uc.progress.ShowThinking(ctx, resp.Message.Content)
		}

		for _, tc := range resp.Message.ToolCalls {
			step := uc.executeTool(ctx, iteration, tc)
			result.Steps = append(result.Steps, step)

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    step.Observation,
			})
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	return result, fmt.Errorf("agent stopped: max iterations (%d) exceeded", uc.cfg.MaxIterations)
}

func (uc *UseCase) executeTool(ctx context.Context, iteration int, tc entity.ToolCall) entity.Step {
	step := entity.Step{
		Iteration: iteration,
		Tool:      tc.Name,
		Input:     tc.Arguments,
	}
	if uc.progress != nil {
		uc.progress.ShowToolStart(ctx, tc.Name, tc.Arguments)
	}

	tool, ok := uc.tools.Get(entity.ToolName(tc.Name))
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		step.Observation = fmt.Sprintf("Error: unknown tool '%s'", tc.Name)
		step.IsError = true
	} else {
		uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

		result, err := tool.Call(ctx, tc.Arguments)
		if err != nil {
			uc.logger.Warn("Tool execution failed", "name", tc.Name, "error", err)
			step.Observation = "Error: " + err.Error()
			step.IsError = true
		} else {
			if len(result) > uc.cfg.MaxObservationLen {
				result = cutAtRune(result, uc.cfg.MaxObservationLen) + "\n... (truncated)"
			}
			uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
			step.Observation = result
		}
	}

	if uc.progress != nil {
		uc.progress.ShowToolResult(ctx, tc.Name, step.Observation, step.IsError)
	}
	return step
}

// cutAtRune returns at most n bytes of s without splitting a UTF-8 sequence.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
