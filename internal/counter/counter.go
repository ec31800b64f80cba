package counter

import (
	"context"
)

// Key identifies the single counter record of a deployment.
const Key = "main"

// Counter performs the store-native atomic increment of the record under Key
// and returns the value after the update. A missing record counts as 0.
type Counter interface {
	Up(ctx context.Context) (int64, error)
}

// Reader returns the current value without modifying it, 0 if no record exists.
// Only operator tools use it.
type Reader interface {
	Get(ctx context.Context) (int64, error)
}

// ReadCounter is a backend that can both increment and read the record.
type ReadCounter interface {
	Counter
	Reader
}

var _ Counter = (*failing)(nil)

type failing struct {
	err error
}

// Failing returns a Counter whose every Up fails with err. It lets a process
// that could not build its real backend keep answering with the failure response.
func Failing(err error) Counter {
	return &failing{err: err}
}

func (c *failing) Up(ctx context.Context) (int64, error) {
	return 0, c.err
}
