package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"produce-grader/internal/api/rest"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  `Serve POST /analyze, GET /analyze/{request_id}, GET /models/info and GET /health.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, c, err := opts.openContainer(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.Printf("Error closing services: %v", err)
				}
			}()

			srv := rest.NewServer(c.AssessmentService, rest.Options{
				Addr:         cfg.HTTP.Addr,
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
				MaxUploadMB:  cfg.HTTP.MaxUploadMB,
				Pool:         c.ExtractorPool,
			})
			return runServer(ctx, srv)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default :5000)")
	opts.bind("http.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// runServer обслуживает запросы до отмены ctx, затем мягко останавливает сервер.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
