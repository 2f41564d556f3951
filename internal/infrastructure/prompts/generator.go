package prompts

import (
	"bytes"
	"text/template"

	"chatsql/internal/domain/entity"
)

type ToolInfo struct {
	Name        string
	Description string
}

type AgentPromptData struct {
	Dialect string
	TopK    int
	Tools   []ToolInfo
}

type CheckerPromptData struct {
	Dialect string
	Query   string
}

// GenerateAgentPrompt renders the SQL agent system prompt. Tools are listed
// in the order given.
func GenerateAgentPrompt(baseTemplate, dialect string, topK int, defs []entity.ToolDefinition) (string, error) {
	infos := make([]ToolInfo, 0, len(defs))
	for _, d := range defs {
		infos = append(infos, ToolInfo{Name: d.Name, Description: d.Description})
	}

	return render("sql_agent", baseTemplate, AgentPromptData{
		Dialect: dialect,
		TopK:    topK,
		Tools:   infos,
	})
}

func GenerateCheckerPrompt(baseTemplate, dialect, query string) (string, error) {
	return render("query_checker", baseTemplate, CheckerPromptData{
		Dialect: dialect,
		Query:   query,
	})
}

func render(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
