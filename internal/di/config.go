package di

import (
	"strings"
	"time"

	"chatsql/internal/application/port/output"
	"chatsql/internal/infrastructure/database/sqldb"
	"chatsql/internal/infrastructure/llm/openai"
	"chatsql/internal/usecase/executor"
)

type Config struct {
	HTTPAddr       string
	RequestTimeout time.Duration

	Dialect      string
	SampleRows   int
	IgnoreTables []string
	CacheTTL     time.Duration

	Model         string
	BaseURL       string
	LLMTimeout    time.Duration
	MaxIterations int
	TopK          int

	LogLevel string
	LogJSON  bool
	LogDir   string
	LogName  string
}

// LoadConfig reads every setting from env, falling back to defaults.
func LoadConfig(env output.ConfigPort) Config {
	return Config{
		HTTPAddr:       env.GetWithDefault("HTTP_ADDR", ":8501"),
		RequestTimeout: env.GetDuration("HTTP_REQUEST_TIMEOUT", 5*time.Minute),

		Dialect:      env.GetWithDefault("DB_DIALECT", sqldb.DialectMySQL),
		SampleRows:   env.GetInt("SQL_SAMPLE_ROWS", 3),
		IgnoreTables: splitList(env.Get("SQL_IGNORE_TABLES")),
		CacheTTL:     env.GetDuration("DB_CACHE_TTL", sqldb.DefaultTTL),

		Model:         env.GetWithDefault("OPENAI_MODEL", openai.DefaultModel),
		BaseURL:       env.Get("OPENAI_BASE_URL"),
		LLMTimeout:    env.GetDuration("OPENAI_TIMEOUT", 2*time.Minute),
		MaxIterations: env.GetInt("AGENT_MAX_ITERATIONS", executor.DefaultMaxIterations),
		TopK:          env.GetInt("SQL_TOP_K", 10),

		LogLevel: env.GetWithDefault("LOG_LEVEL", "info"),
		LogJSON:  env.GetBool("LOG_JSON", false),
		LogDir:   env.Get("LOG_DIR"),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
