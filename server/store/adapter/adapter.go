// Package adapter contains the interface to be implemented by the interests
// store adapter.
package adapter

import (
	"encoding/json"
)

// Adapter is the interface that must be implemented by an interests store
// adapter. The schema supports a single connection by database type. The
// store is read-only from the server's perspective: there is no write path.
type Adapter interface {
	// Open and configure the adapter.
	Open(jsonconf json.RawMessage) error
	// Close the adapter.
	Close() error
	// IsOpen checks if the adapter is ready for use.
	IsOpen() bool
	// GetName returns the name of the adapter.
	GetName() string
	// Stats returns the adapter's runtime stats, if any, for monitoring.
	Stats() interface{}

	// InterestsGet fetches interest tags for the given client id. An unknown
	// id yields an empty list, not an error.
	InterestsGet(clientID int64) ([]string, error)
}
