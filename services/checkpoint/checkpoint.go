package checkpoint

import (
	"time"
)

// Store persists small progress markers between runs. The dispatcher uses
// it to record the last fully drained page of a query so an interrupted run
// can resume without refetching completed pages. It never deduplicates
// individual listings.
type Store interface {
	// Get retrieves a value from the store
	Get(key string) ([]byte, error)

	// Set stores a value with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the store
	Delete(key string) error
}
