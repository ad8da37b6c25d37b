package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

// RemoteError marks a failure of the backing store itself (connection,
// query, decode), as opposed to a missing record.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemote reports whether err came from the backing store.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return &RemoteError{Op: op, Err: err}
}

// TimeLayout sorts lexically in time order.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

func stamp() string { return time.Now().UTC().Format(TimeLayout) }
