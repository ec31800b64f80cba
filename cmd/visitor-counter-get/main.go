package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

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
	optLogLevel = flag.String("log-level", "info", "info|warn|error")
	optTimeout  = flag.Duration("timeout", 5*time.Second, "timeout of the read")
)

func init() {
	flag.Parse()

	logger = log.MustSugared(myName, log.WithLogLevel(*optLogLevel))
}

// Prints the current count without incrementing it.
func main() {
	logger.Infof("ver=%s, args=%s", version, os.Args)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("*** config.Load: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *optTimeout)
	defer cancel()

	c, closer, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("*** backend.Open: %v", err)
	}
	defer closer.Close()

	n, err := c.Get(ctx)
	if err != nil {
		logger.Errorf("Get: %v", err)
		return
	}

	fmt.Fprintf(os.Stdout, "%d\n", n)
}
