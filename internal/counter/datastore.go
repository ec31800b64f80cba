package counter

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
)

var _ ReadCounter = (*DatastoreCounter)(nil)

// DatastoreCounter keeps the record as entity <table>/main. Up runs the
// read and the write inside one serializable transaction, which the
// datastore commits atomically or rejects on contention.
type DatastoreCounter struct {
	client *datastore.Client
	key    *datastore.Key
}

// The client retries a transaction that lost a commit race.
const txMaxAttempts = 10

type counterEntity struct {
	Count int64 `datastore:"count,noindex"`
}

func NewDatastoreCounter(client *datastore.Client, table, namespace string) *DatastoreCounter {
	key := datastore.NameKey(table, Key, nil)
	key.Namespace = namespace
	return &DatastoreCounter{client: client, key: key}
}

func (c *DatastoreCounter) Up(ctx context.Context) (int64, error) {
	var n int64
	_, err := c.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var rec counterEntity
		if err := tx.Get(c.key, &rec); err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
			return fmt.Errorf("tx.Get: %w", err)
		}
		rec.Count++
		if _, err := tx.Put(c.key, &rec); err != nil {
			return fmt.Errorf("tx.Put: %w", err)
		}
		n = rec.Count
		return nil
	}, datastore.MaxAttempts(txMaxAttempts))
	if err != nil {
		return 0, Unavailable("datastore.RunInTransaction", err)
	}
	return n, nil
}

func (c *DatastoreCounter) Get(ctx context.Context) (int64, error) {
	var rec counterEntity
	err := c.client.Get(ctx, c.key, &rec)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return 0, nil
	}
	if err != nil {
		return 0, Unavailable("datastore.Get", err)
	}
	return rec.Count, nil
}
