package songs

import "fmt"

var (
	// ErrStoreUnavailable is returned by every store operation issued before
	// the store's readiness signal has fired.
	ErrStoreUnavailable = fmt.Errorf("store not initialized")

	// ErrRemote wraps transport or backend failures. The local mirror is left
	// unchanged when an operation fails with it.
	ErrRemote = fmt.Errorf("remote store error")

	// ErrNotFound is returned by update/delete for an id that no longer
	// exists. It is reported, not retried.
	ErrNotFound = fmt.Errorf("song not found")

	// ErrParse aborts a whole CSV import; nothing is written.
	ErrParse = fmt.Errorf("malformed import payload")

	// ErrInvalid marks a draft that failed validation before reaching the
	// store.
	ErrInvalid = fmt.Errorf("invalid song")
)
