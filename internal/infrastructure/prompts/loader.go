package prompts

import (
	_ "embed"
)

//go:embed sql_agent.txt
var SQLAgentPrompt string

//go:embed query_checker.txt
var QueryCheckerPrompt string
