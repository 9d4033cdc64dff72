// Package serve handles the HTTP service command
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/statement-analyzer/cmd/root"
	"fjacquet/statement-analyzer/internal/api"
	"fjacquet/statement-analyzer/internal/config"
	"fjacquet/statement-analyzer/internal/logging"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve statement analysis over HTTP",
	Long: `Start the HTTP service.

Routes:
  GET  /health       liveness check
  POST /v1/analyze   analyze a page-unit document (JSON body, optional ?as_of=YYYY-MM-DD&format=json|yaml|text)
  POST /v1/extract   extract the categorized transactions of a document
  GET  /metrics      Prometheus metrics

Example:
  statement-analyzer serve --addr :8080 --date-order dmy`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from config)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	var overrides []config.Override
	if addr != "" {
		overrides = append(overrides, config.WithValue("server.addr", addr))
	}
	c, err := root.NewContainer(overrides)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, c.NewServer(), c.GetConfig().Server.Addr, c.GetLogger())
}

// Serve runs srv on listenAddr until ctx is done, then shuts it down.
func Serve(ctx context.Context, srv *api.Server, listenAddr string, logger logging.Logger) error {
	logger = logging.OrNop(logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(listenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
