// Package backend builds the counter.ReadCounter selected by config.Config.
package backend

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/tckz/visitor-counter/internal/config"
	"github.com/tckz/visitor-counter/internal/counter"
)

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

// Open returns the backend and a closer for its client. The closer is never nil.
func Open(ctx context.Context, cfg config.Config) (counter.ReadCounter, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nopCloser{}, err
	}

	switch cfg.Backend {
	case config.BackendDynamoDB:
		cl, err := NewDynamoClient(ctx, cfg)
		if err != nil {
			return nil, nopCloser{}, counter.Unavailable("backend.Open", err)
		}
		return counter.NewDynamoCounter(cl, cfg.TableName), nopCloser{}, nil
	case config.BackendRedis:
		cl := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        []string{cfg.RedisAddr},
			DialTimeout:  time.Second * 2,
			ReadTimeout:  time.Second * 2,
			WriteTimeout: time.Second * 2,
			PoolSize:     10,
			PoolTimeout:  time.Second * 5,
		})
		return counter.NewRedisCounter(cl, cfg.TableName), cl, nil
	case config.BackendDatastore:
		var opts []option.ClientOption
		if cfg.GoogleCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
		}
		cl, err := datastore.NewClient(ctx, cfg.ProjectID, opts...)
		if err != nil {
			return nil, nopCloser{}, counter.Unavailable("backend.Open", fmt.Errorf("datastore.NewClient: %w", err))
		}
		return counter.NewDatastoreCounter(cl, cfg.TableName, cfg.DatastoreNamespace), cl, nil
	case config.BackendMemory:
		return counter.NewMemoryCounter(cfg.TableName), nopCloser{}, nil
	}
	// Validate rejects unknown backends.
	return nil, nopCloser{}, counter.Misconfigured("backend.Open", fmt.Errorf("backend %s", cfg.Backend))
}

// NewDynamoClient loads the default AWS config chain. DYNAMODB_ENDPOINT points
// the client at DynamoDB Local with static dummy credentials.
func NewDynamoClient(ctx context.Context, cfg config.Config) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	if cfg.DynamoDBEndpoint != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("local", "local", "")),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("config.LoadDefaultConfig: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}
