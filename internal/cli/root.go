package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"chatsql/internal/application/port/output"
	"chatsql/internal/di"
	"chatsql/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. Tests swap env and the writers.
type app struct {
	env    output.ConfigPort
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand builds the chatsql command tree. A nil env loads .env
// files and the process environment.
func NewRootCommand(cfg output.ConfigPort) *cobra.Command {
	a := &app{env: cfg, stdout: os.Stdout, stderr: os.Stderr}

	root := &cobra.Command{
		Use:   "chatsql",
		Short: "Chat with a SQL database in plain language",
		Long: `chatsql forwards natural-language questions to an LLM agent that can
list tables, read schemas and run queries against a MySQL database.

Use "serve" for the web page and "ask" for one-off questions from the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.env == nil {
				a.env = env.NewEnvService()
			}
			a.stdout = cmd.OutOrStdout()
			a.stderr = cmd.ErrOrStderr()
		},
	}

	root.AddCommand(a.serveCommand(), a.askCommand())
	return root
}

// Execute runs the CLI against the process environment.
func Execute() error {
	err := NewRootCommand(nil).Execute()
	if err != nil && !errors.Is(err, errQueryFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func (a *app) container(logName string) (*di.Container, error) {
	cfg := di.LoadConfig(a.env)
	cfg.LogName = logName
	c, err := di.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return c, nil
}
