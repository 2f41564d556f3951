package userinteraction

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestConsoleProgress_Output(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	p := NewConsoleProgress(&buf)
	ctx := context.Background()

	p.ShowIteration(ctx, 2, 15)
	p.ShowThinking(ctx, "Look at the customers table")
	p.ShowToolStart(ctx, "sql_db_query", `{"query":"SELECT name\nFROM customers"}`)
	p.ShowToolResult(ctx, "sql_db_query", "name\nAda\nGrace\n", false)
	p.ShowToolResult(ctx, "sql_db_query", "Error: Unknown column", true)

	out := buf.String()
	assert.Contains(t, out, "Step 2/15")
	assert.Contains(t, out, "Thought: Look at the customers table")
	assert.Contains(t, out, "Run query")
	assert.Contains(t, out, "SELECT name FROM customers")
	assert.Contains(t, out, "2 row(s) | name")
	assert.Contains(t, out, "Error: Unknown column")
}

func TestFormatToolResult(t *testing.T) {
	assert.Equal(t, "2 table definition(s)", formatToolResult("sql_db_schema", "CREATE TABLE a ();\n\nCREATE TABLE b ();"))
	assert.Equal(t, "customers, orders", formatToolResult("sql_db_list_tables", "customers, orders"))
	assert.Equal(t, "(no rows)", formatToolResult("sql_db_query", "(no rows)"))
}

func TestGetToolDisplay_Unknown(t *testing.T) {
	icon, name := getToolDisplay("mystery")
	assert.Equal(t, "🔧", icon)
	assert.Equal(t, "mystery", name)
}

func TestFormatToolArguments_PlainText(t *testing.T) {
	assert.Equal(t, "SELECT 1", formatToolArguments("sql_db_query", " SELECT 1 "))
	assert.Equal(t, "Tables: customers", formatToolArguments("sql_db_schema", `{"tables":"customers"}`))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	got := truncate(strings.Repeat("ü", 10), 7)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ü", 3)+"...", got)
	assert.Equal(t, "short", truncate("short", 10))
}
