package prompts

import (
	"strings"
	"testing"

	"chatsql/internal/domain/entity"
)

func TestGenerateAgentPrompt(t *testing.T) {
	defs := []entity.ToolDefinition{
		{Name: "sql_db_list_tables", Description: "List tables"},
		{Name: "sql_db_query", Description: "Run a query"},
	}

	result, err := GenerateAgentPrompt(SQLAgentPrompt, "mysql", 10, defs)
	if err != nil {
		t.Fatalf("GenerateAgentPrompt failed: %v", err)
	}

	if !strings.Contains(result, "interact with a mysql SQL database") {
		t.Error("Result should mention the dialect")
	}

	if !strings.Contains(result, "at most 10 results") {
		t.Error("Result should contain the top_k limit")
	}

	if !strings.Contains(result, "- sql_db_list_tables: List tables") {
		t.Error("Result should list the tools")
	}

	if strings.Index(result, "sql_db_list_tables") > strings.Index(result, "sql_db_query:") {
		t.Error("Tools should keep the given order")
	}
}

func TestGenerateAgentPromptNoTools(t *testing.T) {
	result, err := GenerateAgentPrompt(SQLAgentPrompt, "pgx", 5, nil)
	if err != nil {
		t.Fatalf("GenerateAgentPrompt failed: %v", err)
	}

	if !strings.Contains(result, "DO NOT make any DML statements") {
		t.Error("Result should keep the read-only rule")
	}
}

func TestGenerateCheckerPrompt(t *testing.T) {
	result, err := GenerateCheckerPrompt(QueryCheckerPrompt, "mysql", "SELECT name FROM customers")
	if err != nil {
		t.Fatalf("GenerateCheckerPrompt failed: %v", err)
	}

	if !strings.HasPrefix(result, "SELECT name FROM customers\n") {
		t.Error("Result should start with the query")
	}

	if !strings.Contains(result, "Double check the mysql query") {
		t.Error("Result should mention the dialect")
	}
}

func TestGenerateInvalidTemplate(t *testing.T) {
	_, err := GenerateCheckerPrompt(`Test {{.InvalidField}}`, "mysql", "SELECT 1")
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}
}
