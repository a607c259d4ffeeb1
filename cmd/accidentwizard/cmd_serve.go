package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrsinham/accidentwizard/internal/docservice"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory case backend over HTTP",
		Long: `Serves /api/health/ and /api/documents/ backed by memory, so the wizard can
be pointed at it with ACCIDENT_BACKEND_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			log := a.log.With("component", "server")
			mem, err := docservice.NewMemory(
				docservice.WithDownloadDir(a.cfg.DownloadDir),
				docservice.WithLogger(log),
			)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return runServer(ctx, ln, docservice.NewServer(mem, log), log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default listen_addr)")
	return cmd
}

// runServer serves h on ln until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, ln net.Listener, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
