package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	vh "github.com/tckz/vegetahelper"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"

	"github.com/tckz/visitor-counter/internal/backend"
	"github.com/tckz/visitor-counter/internal/config"
	"github.com/tckz/visitor-counter/internal/log"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optRate = &vh.RateFlag{
		Rate: &vegeta.Rate{
			Freq: 30,
			Per:  1 * time.Second,
		}}
	optDuration = flag.Duration("duration", 10*time.Second, "Duration of the test [0 = forever]")
	optOutput   = flag.String("output", "", "/path/to/results.bin or 'stdout', results are not written if empty")
	optWorkers  = flag.Uint64("workers", vegeta.DefaultWorkers, "Number of workers")
	optLogLevel = flag.String("log-level", "info", "info|warn|error")
	optVerify   = flag.Bool("verify", true, "fail unless initial + succeeded <= final count <= initial + requests. Needs a store with no other traffic")
)

func init() {
	flag.Var(optRate, "rate", "Number of requests per time unit")
}

type nopWriteCloser struct {
	io.Writer
}

func (c nopWriteCloser) Close() error {
	return nil
}

func openResultFile(out string) (io.WriteCloser, error) {
	switch out {
	case "":
		return &nopWriteCloser{io.Discard}, nil
	case "stdout":
		return &nopWriteCloser{os.Stdout}, nil
	default:
		return os.Create(out)
	}
}

func main() {
	flag.Parse()
	logger = log.MustSugared(myName, log.WithLogLevel(*optLogLevel))
	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Infof("done")

	cfg, err := config.Load()
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

	initial, err := c.Get(ctx)
	if err != nil {
		logger.Fatalf("*** Get: %v", err)
	}
	logger.Infof("initial count=%s", humanize.Comma(initial))

	atk := vh.NewAttacker(func(ctx context.Context) (result *vh.HitResult, retErr error) {
		if _, err := c.Up(ctx); err != nil {
			return nil, err
		}
		return result, nil
	}, vh.WithWorkers(*optWorkers))
	res := atk.Attack(ctx, *optRate.Rate, *optDuration, "increment")

	out, err := openResultFile(*optOutput)
	if err != nil {
		logger.Fatal(err)
	}
	defer out.Close()
	enc := vegeta.NewEncoder(out)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)

	var metrics vegeta.Metrics
	var succeeded int64
loop:
	for {
		select {
		case s := <-sig:
			logger.Infof("Received signal: %s", s)
			cancel()
			// keep loop until 'res' is closed.
		case r, ok := <-res:
			if !ok {
				break loop
			}
			metrics.Add(r)
			if r.Error == "" {
				succeeded++
			}
			if err := enc.Encode(r); err != nil {
				logger.Errorf("*** Encode: %v", err)
				break loop
			}
		}
	}
	metrics.Close()

	logger.Infof("requests=%s, succeeded=%s, p50=%s, p99=%s, errors=%v",
		humanize.Comma(int64(metrics.Requests)), humanize.Comma(succeeded),
		metrics.Latencies.P50, metrics.Latencies.P99, metrics.Errors)

	fctx, fcancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer fcancel()
	final, err := c.Get(fctx)
	if err != nil {
		logger.Fatalf("*** Get: %v", err)
	}
	logger.Infof("final count=%s", humanize.Comma(final))

	if !*optVerify {
		return
	}
	unconfirmed, err := verifyCount(initial, final, succeeded, int64(metrics.Requests))
	if err != nil {
		logger.Fatalf("*** %v", err)
	}
	if unconfirmed > 0 {
		logger.Warnf("%d failed increments were applied by the store", unconfirmed)
	}
}
