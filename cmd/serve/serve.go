// Package serve runs the SMS ingestion HTTP API
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/api"
	"fjacquet/sms-ledger/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the SMS ingestion API",
	Long: `Serve the HTTP API that parses SMS and stores the transactions per user.

Routes:
  POST /api/sms/parse          parse and store one SMS
  GET  /api/sms/transactions   list stored transactions of the user
  GET  /api/sms/test           run the built-in sample messages
  GET  /healthz                liveness check
  GET  /metrics                Prometheus metrics

The user is taken from the X-User-ID header, or server.default_user.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().String("addr", ":8080", "Listen address")
	Cmd.Flags().String("default-user", "default", "User for requests without X-User-ID")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.MustContainer()
	if err != nil {
		return err
	}

	router, err := NewRouter(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, c, router)
}

// NewRouter wires the API handler to the container's services.
func NewRouter(c *container.Container) (http.Handler, error) {
	svc, err := c.GetIngestService()
	if err != nil {
		return nil, err
	}
	h := api.NewHandler(svc, c.GetParser(), c.GetConfig().Server.DefaultUser, c.GetLogger())
	m := c.GetMetrics()
	return api.NewRouter(h, api.RouterOptions{Metrics: m.Handler(), Observer: m}), nil
}

func run(ctx context.Context, c *container.Container, handler http.Handler) error {
	srv := api.NewServer(c.GetConfig().Server.Addr, handler, c.GetLogger())
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
