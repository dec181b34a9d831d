package sink

import (
	"jdeprez/immoharvester/internal/harvester"
)

// MultiSink fans an append out to several sinks. The first failing sink
// wins; later sinks are skipped for that record since the run aborts on
// sink errors anyway.
type MultiSink struct {
	sinks []RecordSink
}

var _ RecordSink = (*MultiSink)(nil)

// NewMultiSink combines the given sinks into one
func NewMultiSink(sinks ...RecordSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Append writes the record to every sink in order
func (m *MultiSink) Append(record harvester.Record) error {
	for _, s := range m.sinks {
		if err := s.Append(record); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
