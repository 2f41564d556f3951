package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chatsql/internal/infrastructure/web"

	"github.com/spf13/cobra"
)

func (a *app) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front-end",
		Long: `Start the HTTP server with the query page and the JSON API.

Routes:
  GET  /           query page
  POST /query      run a query from the page form
  POST /api/query  run a query, JSON in and out
  GET  /healthz    liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container("serve " + addr)
			if err != nil {
				return err
			}
			defer c.Close()

			if addr == "" {
				addr = c.Config.HTTPAddr
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:           addr,
				RequestTimeout: c.Config.RequestTimeout,
				LogJSON:        c.Config.LogJSON,
			}, c.Queries, c.Logger.Named("web"))
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(a.stdout, "chatsql listening on %s\n", addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default HTTP_ADDR or :8501)")
	return cmd
}
