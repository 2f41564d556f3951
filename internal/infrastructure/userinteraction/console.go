package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

// ConsoleProgress prints agent steps for the ask command, the terminal
// counterpart of the trace shown under the answer on the web page.
type ConsoleProgress struct {
	w io.Writer
}

func NewConsoleProgress(w io.Writer) *ConsoleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleProgress{w: w}
}

func (u *ConsoleProgress) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.w, "\n━━━ Step %d/%d ━━━\n", iteration, maxIterations)
}

func (u *ConsoleProgress) ShowThinking(ctx context.Context, content string) {
	if content == "" {
		return
	}

	blue := color.New(color.FgBlue)
	blue.Fprint(u.w, "💭 Thought: ")

	dim := color.New(color.Faint)
	dim.Fprintln(u.w, truncate(content, 500))
}

func (u *ConsoleProgress) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := getToolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(u.w, "%s %s\n", icon, name)

	summary := formatToolArguments(toolName, arguments)
	if summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(u.w, "   %s\n", summary)
	}
}

func (u *ConsoleProgress) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(u.w, "❌ ")

		dim := color.New(color.Faint)
		dim.Fprintln(u.w, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(u.w, "✓ %s\n", formatToolResult(toolName, result))
}

func getToolDisplay(toolName string) (string, string) {
	displays := map[entity.ToolName][2]string{
		entity.ToolSQLListTables: {"📋", "List tables"},
		entity.ToolSQLSchema:     {"🧱", "Read schema"},
		entity.ToolSQLQuery:      {"🔎", "Run query"},
		entity.ToolSQLQueryCheck: {"🧪", "Check query"},
	}

	if display, ok := displays[entity.ToolName(toolName)]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return truncate(strings.TrimSpace(arguments), 120)
	}

	switch entity.ToolName(toolName) {
	case entity.ToolSQLSchema:
		if tables, ok := args["tables"].(string); ok {
			return fmt.Sprintf("Tables: %s", truncate(tables, 80))
		}

	case entity.ToolSQLQuery, entity.ToolSQLQueryCheck:
		if query, ok := args["query"].(string); ok {
			return oneLine(truncate(query, 120))
		}
	}

	return ""
}

func formatToolResult(toolName, result string) string {
	switch entity.ToolName(toolName) {
	case entity.ToolSQLListTables:
		return truncate(result, 150)

	case entity.ToolSQLSchema:
		n := strings.Count(strings.ToUpper(result), "CREATE TABLE")
		return fmt.Sprintf("%d table definition(s)", n)

	case entity.ToolSQLQuery:
		lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
		if len(lines) <= 1 {
			return truncate(oneLine(result), 100)
		}
		return fmt.Sprintf("%d row(s) | %s", len(lines)-1, truncate(oneLine(lines[0]), 80))

	case entity.ToolSQLQueryCheck:
		return oneLine(truncate(result, 120))
	}

	return truncate(result, 100)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
