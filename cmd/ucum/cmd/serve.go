package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govalues/ucum/internal/api"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the unit API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			l, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return errors.Wrap(err, "listening")
			}
			return a.serve(ctx, l)
		},
	}
	cmd.Flags().String("addr", "", "address to listen on")
	a.bind(cmd, map[string]string{"server.addr": "addr"})
	return cmd
}

func (a *app) router() *mux.Router {
	router := mux.NewRouter()
	api.NewHandler(a.svc, a.log, a.collector).RegisterRoutes(router)
	if a.prom != nil {
		router.Handle("/metrics", promhttp.HandlerFor(a.prom, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return router
}

// serve runs the API on l until ctx is done, then shuts down gracefully.
func (a *app) serve(ctx context.Context, l net.Listener) error {
	server := &http.Server{
		Handler:      a.router(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", zap.Stringer("address", l.Addr()))
		errc <- server.Serve(l)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving")
	}
	return nil
}
