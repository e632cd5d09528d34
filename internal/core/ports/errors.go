package ports

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is returned when the user abandoned the flow on the
	// key-management service. It must never surface as a user-visible error:
	// callers unwind without mutating state and without notifying.
	ErrCanceled = errors.New("request canceled by user")
	// ErrMigrationRequired is returned by the listing operation when the
	// service requires the one-shot migration flow to run first.
	ErrMigrationRequired = errors.New("key service requires migration")
	// ErrDataLost is returned by the listing operation when the service lost
	// its key data. Callers treat it as an empty result set.
	ErrDataLost = errors.New("key service lost its data")
)

// Busy is the ServiceError code used when an operation is rejected because a
// request with the same operation name is already in flight.
const Busy = "busy"

// ServiceError is an adapter-level fault of the key-management channel.
type ServiceError struct {
	Op      string
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("key service: %s: %s (%s)", e.Op, e.Message, e.Code)
}

// IsCanceled reports whether err represents a user-abandoned flow.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsMigrationRequired reports whether err requires the migration flow.
func IsMigrationRequired(err error) bool {
	return errors.Is(err, ErrMigrationRequired)
}

// IsDataLost reports whether err represents lost key data.
func IsDataLost(err error) bool {
	return errors.Is(err, ErrDataLost)
}

// IsBusy reports whether err is the single-in-flight rejection.
func IsBusy(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Code == Busy
}
