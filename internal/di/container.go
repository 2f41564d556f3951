package di

import (
	"fmt"

	"chatsql/internal/adapter/tool"
	"chatsql/internal/application/port/input"
	"chatsql/internal/application/port/output"
	"chatsql/internal/application/service"
	"chatsql/internal/application/usecase"
	"chatsql/internal/domain/entity"
	"chatsql/internal/infrastructure/database/sqldb"
	"chatsql/internal/infrastructure/llm/openai"
	"chatsql/internal/infrastructure/logger"
	"chatsql/internal/infrastructure/prompts"
	"chatsql/internal/usecase/executor"
)

type Container struct {
	Config    Config
	Logger    output.LoggerPort
	Databases *sqldb.Cache
	LLMs      output.LLMProvider
	Queries   input.QueryRunner
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Level: cfg.LogLevel,
		JSON:  cfg.LogJSON,
		Dir:   cfg.LogDir,
		Name:  cfg.LogName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return newContainer(cfg, log, sqldb.Opener(sqldb.Options{
		SampleRows:   cfg.SampleRows,
		IgnoreTables: cfg.IgnoreTables,
	}))
}

func newContainer(cfg Config, log output.LoggerPort, open sqldb.OpenFunc) (*Container, error) {
	if _, err := sqldb.BuildURI(cfg.Dialect, entity.Credentials{}); err != nil {
		log.Close()
		return nil, fmt.Errorf("invalid DB_DIALECT %q: %w", cfg.Dialect, err)
	}

	databases := sqldb.NewCache(open, cfg.CacheTTL, log.Named("sqldb"))

	llmCfg := openai.DefaultConfig("")
	llmCfg.Model = cfg.Model
	llmCfg.BaseURL = cfg.BaseURL
	llmCfg.Timeout = cfg.LLMTimeout
	llmCfg.Logger = log.Named("openai")
	llms := openai.NewProvider(llmCfg)

	c := &Container{
		Config:    cfg,
		Logger:    log,
		Databases: databases,
		LLMs:      llms,
	}

	buildURI := func(creds entity.Credentials) (string, error) {
		return sqldb.BuildURI(cfg.Dialect, creds)
	}
	c.Queries = usecase.NewRunQueryUseCase(buildURI, databases, llms, c.newAgent, log.Named("query"))

	return c, nil
}

// newAgent wires a fresh toolkit around one database handle and LLM client.
func (c *Container) newAgent(llm output.LLMPort, db output.DatabasePort, progress output.ProgressPort) (input.AgentExecutor, error) {
	log := c.Logger.Named("agent")
	tools := service.NewToolRegistry(tool.NewSQLToolkit(db, llm, log)...)

	systemPrompt, err := prompts.GenerateAgentPrompt(prompts.SQLAgentPrompt, db.Dialect(), c.Config.TopK, tools.Definitions())
	if err != nil {
		return nil, fmt.Errorf("render agent prompt: %w", err)
	}

	cfg := executor.DefaultConfig()
	cfg.MaxIterations = c.Config.MaxIterations

	agent := executor.New(llm, tools, log, systemPrompt, cfg)
	if progress != nil {
		agent.WithProgress(progress)
	}
	return agent, nil
}

func (c *Container) Close() {
	if c.Databases != nil {
		if err := c.Databases.Close(); err != nil {
			c.Logger.Warn("Failed to close database handles", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
