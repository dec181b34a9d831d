package sink

import (
	"jdeprez/immoharvester/internal/harvester"
)

// RecordSink is a durable append target for normalized records. Append must
// be safe for concurrent invocation by many workers.
type RecordSink interface {
	// Append persists one record
	Append(record harvester.Record) error

	// Close releases the underlying target
	Close() error
}
