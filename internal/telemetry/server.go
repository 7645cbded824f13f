package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dgate-io/chi-router"
	"github.com/dgate-io/chi-router/middleware"
	"github.com/dslab/avl/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Router serves /metrics from registry and a static /healthz. With debug
// set, the pprof handlers are mounted under /debug.
func Router(version string, registry *prometheus.Registry, debug bool) *chi.Mux {
	mux := chi.NewRouter()
	healthyResp := []byte(
		`{"status":"ok","version":"` + version + `"}`,
	)
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(healthyResp)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if debug {
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

// Serve listens on conf.Host:conf.Port until ctx is done.
func Serve(
	ctx context.Context, conf *config.MetricsConfig,
	handler http.Handler, logger *zap.Logger,
) error {
	hostPort := fmt.Sprintf("%s:%d", conf.Host, conf.Port)
	ln, err := net.Listen("tcp", hostPort)
	if err != nil {
		return err
	}
	return serve(ctx, ln, conf.EnableH2C, handler, logger)
}

func serve(
	ctx context.Context, ln net.Listener, enableH2C bool,
	handler http.Handler, logger *zap.Logger,
) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Named("metrics-http")),
	}
	if enableH2C {
		h2Server := &http2.Server{}
		if err := http2.ConfigureServer(server, h2Server); err != nil {
			ln.Close()
			return err
		}
		server.Handler = h2c.NewHandler(handler, h2Server)
	}

	logger.Info("Starting metrics server on "+ln.Addr().String(),
		zap.Bool("h2c", enableH2C))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Stopping metrics server")
		return server.Shutdown(shutdownCtx)
	}
}
