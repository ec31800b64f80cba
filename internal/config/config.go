// Package config reads the deployment settings of the counter from the
// environment. A .env file in the working directory is loaded first if present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"

	"github.com/tckz/visitor-counter/internal/counter"
)

const (
	BackendDynamoDB  = "dynamodb"
	BackendRedis     = "redis"
	BackendDatastore = "datastore"
	BackendMemory    = "memory"
)

var Backends = []string{BackendDynamoDB, BackendRedis, BackendDatastore, BackendMemory}

type Config struct {
	// TableName names the store: DynamoDB table, Redis key prefix or Datastore kind.
	TableName string
	Backend   string

	AWSRegion        string
	DynamoDBEndpoint string

	RedisAddr string

	ProjectID             string
	DatastoreNamespace    string
	GoogleCredentialsFile string

	LogLevel string
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	// A missing .env is the normal case in a deployed function.
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(name, def string) string {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	c := Config{
		TableName:             get("TABLE_NAME", ""),
		Backend:               strings.ToLower(get("COUNTER_BACKEND", BackendDynamoDB)),
		AWSRegion:             get("AWS_REGION", ""),
		DynamoDBEndpoint:      get("DYNAMODB_ENDPOINT", ""),
		RedisAddr:             get("REDIS_ADDR", ""),
		ProjectID:             get("PROJECT_ID", ""),
		DatastoreNamespace:    get("DATASTORE_NAMESPACE", ""),
		GoogleCredentialsFile: get("GOOGLE_CREDENTIALS_FILE", ""),
		LogLevel:              get("LOG_LEVEL", "info"),
	}
	return c, c.Validate()
}

// Validate reports every missing or unusable setting as one ConfigurationMissing error.
func (c Config) Validate() error {
	var errs []error
	if c.TableName == "" {
		errs = append(errs, errors.New("TABLE_NAME is not set"))
	}
	if !lo.Contains(Backends, c.Backend) {
		errs = append(errs, fmt.Errorf("COUNTER_BACKEND=%s, must be one of %s", c.Backend, strings.Join(Backends, "|")))
	}
	if c.Backend == BackendRedis && c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is not set"))
	}
	if c.Backend == BackendDatastore && c.ProjectID == "" {
		errs = append(errs, errors.New("PROJECT_ID is not set"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL=%s: %w", c.LogLevel, err))
	}
	if len(errs) == 0 {
		return nil
	}
	return counter.Misconfigured("config.Validate", errors.Join(errs...))
}
