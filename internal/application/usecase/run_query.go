package usecase

import (
	"context"
	"fmt"
	"time"

	"chatsql/internal/application/port/input"
	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"

	"github.com/google/uuid"
)

var _ input.QueryRunner = (*RunQueryUseCase)(nil)

// AgentFactory builds an agent bound to one database handle and one LLM
// client. progress may be nil.
type AgentFactory func(llm output.LLMPort, db output.DatabasePort, progress output.ProgressPort) (input.AgentExecutor, error)

// URIBuilder renders credentials as a connection URI.
type URIBuilder func(c entity.Credentials) (string, error)

type RunQueryUseCase struct {
	buildURI  URIBuilder
	databases output.DatabaseProvider
	llms      output.LLMProvider
	newAgent  AgentFactory
	logger    output.LoggerPort
	now       func() time.Time
}

func NewRunQueryUseCase(
	buildURI URIBuilder,
	databases output.DatabaseProvider,
	llms output.LLMProvider,
	newAgent AgentFactory,
	logger output.LoggerPort,
) *RunQueryUseCase {
	return &RunQueryUseCase{
		buildURI:  buildURI,
		databases: databases,
		llms:      llms,
		newAgent:  newAgent,
		logger:    logger,
		now:       time.Now,
	}
}

// Run validates the request, then connects, then asks the agent. Nothing
// is opened or called when validation fails.
func (uc *RunQueryUseCase) Run(ctx context.Context, req entity.QueryRequest, progress output.ProgressPort) entity.Outcome {
	if err := req.Validate(); err != nil {
		banner, ok := entity.ValidationBanner(err)
		if !ok {
			banner = entity.ErrorBanner(err)
		}
		uc.logger.Debug("Query rejected", "reason", err)
		return entity.Outcome{Banner: banner}
	}

	log := uc.logger.WithFields(map[string]any{
		"run_id": uuid.NewString(),
		"host":   req.Credentials.Host,
		"db":     req.Credentials.Database,
	})
	start := uc.now()

	answer, steps, err := uc.run(ctx, req, progress, log)
	outcome := entity.Outcome{
		Steps:    steps,
		Duration: uc.now().Sub(start),
	}
	if err != nil {
		log.Error("Query failed", "error", err, "duration", outcome.Duration)
		outcome.Banner = entity.ErrorBanner(err)
		return outcome
	}

	log.Info("Query completed", "steps", len(steps), "duration", outcome.Duration)
	outcome.Banner = entity.Banner{Level: entity.BannerSuccess, Message: entity.SuccessMessage}
	outcome.Answer = answer
	return outcome
}

func (uc *RunQueryUseCase) run(ctx context.Context, req entity.QueryRequest, progress output.ProgressPort, log output.LoggerPort) (string, []entity.Step, error) {
	uri, err := uc.buildURI(req.Credentials)
	if err != nil {
		return "", nil, err
	}

	db, release, err := uc.databases.Acquire(ctx, uri)
	if err != nil {
		return "", nil, err
	}
	defer release()

	log.Info("Running agent", "dialect", db.Dialect(), "tables", len(db.TableNames()))

	agent, err := uc.newAgent(uc.llms.ForAPIKey(req.Credentials.APIKey), db, progress)
	if err != nil {
		return "", nil, fmt.Errorf("build agent: %w", err)
	}
	result, err := agent.Execute(ctx, req.Query)

	var steps []entity.Step
	if result != nil {
		steps = result.Steps
	}
	if err != nil {
		return "", steps, err
	}
	if result == nil {
		return "", nil, fmt.Errorf("agent returned no result")
	}
	return result.FinalAnswer, steps, nil
}
