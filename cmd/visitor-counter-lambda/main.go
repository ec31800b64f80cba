package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/tckz/visitor-counter/internal/config"
	"github.com/tckz/visitor-counter/internal/service"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

func main() {
	cfg, cfgErr := config.Load()

	logger = newLogger(cfg.LogLevel)
	logger.Infof("ver=%s, backend=%s, table=%s", version, cfg.Backend, cfg.TableName)

	// The backend client lives as long as the process; lambda.Start never returns.
	c := openCounter(context.Background(), cfg, cfgErr)

	svc := service.New(c, service.WithLogger(logger))
	lambda.Start(svc.HandleAPIGateway)
}
