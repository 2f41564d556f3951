package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"
	"chatsql/internal/infrastructure/prompts"
)

var (
	_ output.ToolPort = (*ListTablesTool)(nil)
	_ output.ToolPort = (*SchemaTool)(nil)
	_ output.ToolPort = (*QueryTool)(nil)
	_ output.ToolPort = (*QueryCheckerTool)(nil)
)

// NewSQLToolkit returns the database tools offered to the agent.
func NewSQLToolkit(db output.DatabasePort, llm output.LLMPort, logger output.LoggerPort) []output.ToolPort {
	return []output.ToolPort{
		NewListTablesTool(db, logger),
		NewSchemaTool(db, logger),
		NewQueryTool(db, logger),
		NewQueryCheckerTool(db, llm, logger),
	}
}

// argument reads one string field from a function-call JSON payload. Plain
// text that is not a JSON object is taken as the value itself, which is how
// text-only agents pass tool input.
func argument(input, field string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return "", fmt.Errorf("invalid JSON input: %w", err)
	}
	switch v := args[field].(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", "), nil
	default:
		return fmt.Sprint(v), nil
	}
}

type ListTablesTool struct {
	db     output.DatabasePort
	logger output.LoggerPort
}

func NewListTablesTool(db output.DatabasePort, logger output.LoggerPort) *ListTablesTool {
	return &ListTablesTool{db: db, logger: logger}
}

func (t *ListTablesTool) Name() string { return entity.ToolSQLListTables.String() }
func (t *ListTablesTool) Description() string {
	return "Returns a comma-separated list of tables in the database. Takes no input."
}
func (t *ListTablesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *ListTablesTool) Call(ctx context.Context, input string) (string, error) {
	tables := t.db.TableNames()
	t.logger.Debug("Listing tables", "count", len(tables))
	return strings.Join(tables, ", "), nil
}

type SchemaTool struct {
	db     output.DatabasePort
	logger output.LoggerPort
}

func NewSchemaTool(db output.DatabasePort, logger output.LoggerPort) *SchemaTool {
	return &SchemaTool{db: db, logger: logger}
}

func (t *SchemaTool) Name() string { return entity.ToolSQLSchema.String() }
func (t *SchemaTool) Description() string {
	return "Returns the schema and sample rows for the given tables. " +
		"Be sure the tables exist by calling " + entity.ToolSQLListTables.String() + " first."
}
func (t *SchemaTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"tables": map[string]interface{}{
				"type":        "string",
				"description": "Comma-separated list of table names, e.g. \"customers, orders\"",
			},
		},
		"required": []string{"tables"},
	}
}

func (t *SchemaTool) Call(ctx context.Context, input string) (string, error) {
	raw, err := argument(input, "tables")
	if err != nil {
		return "", err
	}

	tables := splitTables(raw)
	if len(tables) == 0 {
		return "", fmt.Errorf("no table names given")
	}

	known := make(map[string]struct{}, len(t.db.TableNames()))
	for _, name := range t.db.TableNames() {
		known[name] = struct{}{}
	}
	var unknown []string
	for _, name := range tables {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return "", fmt.Errorf("table names %s not found in database; available tables: %s",
			strings.Join(unknown, ", "), strings.Join(t.db.TableNames(), ", "))
	}

	t.logger.Debug("Describing tables", "tables", tables)
	return t.db.TableInfo(ctx, tables)
}

func splitTables(raw string) []string {
	var tables []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.Trim(strings.TrimSpace(part), "`\"")
		if name != "" {
			tables = append(tables, name)
		}
	}
	return tables
}

type QueryTool struct {
	db     output.DatabasePort
	logger output.LoggerPort
}

func NewQueryTool(db output.DatabasePort, logger output.LoggerPort) *QueryTool {
	return &QueryTool{db: db, logger: logger}
}

func (t *QueryTool) Name() string { return entity.ToolSQLQuery.String() }
func (t *QueryTool) Description() string {
	return "Executes a SQL query against the database and returns the rows as tab-separated text. " +
		"If the query is not correct, an error message is returned; rewrite the query, check it, and try again. " +
		"If you get an unknown column error, use " + entity.ToolSQLSchema.String() + " to look up the table's columns."
}
func (t *QueryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "A detailed and correct SQL query",
			},
		},
		"required": []string{"query"},
	}
}

func (t *QueryTool) Call(ctx context.Context, input string) (string, error) {
	query, err := argument(input, "query")
	if err != nil {
		return "", err
	}
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	t.logger.Info("Running SQL", "query", query)
	result, err := t.db.Query(ctx, query)
	if err != nil {
		return "", err
	}
	// The first line is always the column header.
	if !strings.Contains(strings.TrimSuffix(result, "\n"), "\n") {
		return "(no rows)", nil
	}
	return result, nil
}

type QueryCheckerTool struct {
	db     output.DatabasePort
	llm    output.LLMPort
	logger output.LoggerPort
}

func NewQueryCheckerTool(db output.DatabasePort, llm output.LLMPort, logger output.LoggerPort) *QueryCheckerTool {
	return &QueryCheckerTool{db: db, llm: llm, logger: logger}
}

func (t *QueryCheckerTool) Name() string { return entity.ToolSQLQueryCheck.String() }
func (t *QueryCheckerTool) Description() string {
	return "Double checks whether a SQL query is correct before it is executed. " +
		"Always use this tool before running a query with " + entity.ToolSQLQuery.String() + "."
}
func (t *QueryCheckerTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The SQL query to check",
			},
		},
		"required": []string{"query"},
	}
}

func (t *QueryCheckerTool) Call(ctx context.Context, input string) (string, error) {
	query, err := argument(input, "query")
	if err != nil {
		return "", err
	}
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	prompt, err := prompts.GenerateCheckerPrompt(prompts.QueryCheckerPrompt, t.db.Dialect(), query)
	if err != nil {
		return "", fmt.Errorf("build checker prompt: %w", err)
	}

	resp, err := t.llm.Chat(ctx, output.ChatRequest{
		Messages:    []entity.Message{{Role: entity.RoleUser, Content: prompt}},
		Temperature: 0.0,
	})
	if err != nil {
		return "", fmt.Errorf("query check failed: %w", err)
	}

	checked := stripCodeFence(resp.Message.Content)
	if checked == "" {
		return query, nil
	}
	if checked != query {
		t.logger.Debug("Query rewritten by checker", "original", query, "checked", checked)
	}
	return checked, nil
}

// stripCodeFence removes a surrounding ``` or ```sql block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
