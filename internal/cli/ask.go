package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"chatsql/internal/application/port/output"
	"chatsql/internal/domain/entity"
	"chatsql/internal/infrastructure/userinteraction"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errQueryFailed reports a non-success banner that was already printed.
var errQueryFailed = errors.New("query failed")

func (a *app) askCommand() *cobra.Command {
	var (
		creds entity.Credentials
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question about the database",
		Long: `Ask a natural-language question and print the agent's answer.

Connection details come from flags or, when a flag is not given, from
MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE and OPENAI_API_KEY.

Example:
  chatsql ask "How many customers placed an order last month?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := entity.QueryRequest{
				Credentials: a.credentials(cmd, creds),
				Query:       strings.Join(args, " "),
			}

			c, err := a.container("ask " + req.Query)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			var progress output.ProgressPort
			if !quiet {
				progress = userinteraction.NewConsoleProgress(a.stderr)
			}

			outcome := c.Queries.Run(ctx, req, progress)
			a.printBanner(outcome.Banner)
			if !outcome.Succeeded() {
				return errQueryFailed
			}
			fmt.Fprintln(a.stdout, outcome.Answer)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&creds.Host, "host", "", "MySQL host (env MYSQL_HOST)")
	f.StringVar(&creds.User, "user", "", "MySQL user (env MYSQL_USER)")
	f.StringVar(&creds.Password, "password", "", "MySQL password (env MYSQL_PASSWORD)")
	f.StringVar(&creds.Database, "database", "", "MySQL database (env MYSQL_DATABASE)")
	f.StringVar(&creds.APIKey, "api-key", "", "OpenAI API key (env OPENAI_API_KEY)")
	f.BoolVarP(&quiet, "quiet", "q", false, "Do not print agent steps")
	return cmd
}

// credentials fills every flag that was not set from the environment.
func (a *app) credentials(cmd *cobra.Command, flags entity.Credentials) entity.Credentials {
	pick := func(flag, value, key string) string {
		if cmd.Flags().Changed(flag) {
			return value
		}
		return a.env.Get(key)
	}
	return entity.Credentials{
		Host:     pick("host", flags.Host, "MYSQL_HOST"),
		User:     pick("user", flags.User, "MYSQL_USER"),
		Password: pick("password", flags.Password, "MYSQL_PASSWORD"),
		Database: pick("database", flags.Database, "MYSQL_DATABASE"),
		APIKey:   pick("api-key", flags.APIKey, "OPENAI_API_KEY"),
	}
}

func (a *app) printBanner(b entity.Banner) {
	var c *color.Color
	switch b.Level {
	case entity.BannerSuccess:
		c = color.New(color.FgGreen, color.Bold)
	case entity.BannerWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	c.Fprintln(a.stderr, b.Message)
}
