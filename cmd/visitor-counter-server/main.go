package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tckz/visitor-counter/internal/backend"
	"github.com/tckz/visitor-counter/internal/config"
	"github.com/tckz/visitor-counter/internal/log"
	"github.com/tckz/visitor-counter/internal/service"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optAddr            = flag.String("addr", ":8080", "listen address")
	optLogLevel        = flag.String("log-level", "", "info|warn|error, overrides LOG_LEVEL")
	optShutdownTimeout = flag.Duration("shutdown-timeout", 5*time.Second, "grace period for in-flight requests")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if *optLogLevel != "" {
		cfg.LogLevel = *optLogLevel
	}
	logger = log.MustSugared(myName, log.WithLogLevel(cfg.LogLevel))
	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Infof("done")

	if err != nil {
		logger.Fatalf("*** config.Load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, closer, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("*** backend.Open: %v", err)
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := service.New(c, service.WithLogger(logger), service.WithMetrics(service.NewMetrics(reg)))

	mux := http.NewServeMux()
	mux.Handle("/count", svc)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	srv := &http.Server{
		Addr:         *optAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Infof("listen %s, backend=%s, table=%s", *optAddr, cfg.Backend, cfg.TableName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)

		select {
		case s := <-sig:
			logger.Infof("Received signal: %v", s)
		case <-ctx.Done():
		}

		sctx, scancel := context.WithTimeout(context.Background(), *optShutdownTimeout)
		defer scancel()
		return srv.Shutdown(sctx)
	})

	if err := eg.Wait(); err != nil {
		logger.Errorf("Wait: %v", err)
	}
}
