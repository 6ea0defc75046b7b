package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"alkoteka/feedworker/internal/product"
	"alkoteka/feedworker/logger"
)

// FileSink collects records and writes them as one JSON array file on
// Close, the feed file downstream consumers read
type FileSink struct {
	mu      sync.Mutex
	path    string
	records []product.ProductRecord
	log     *logger.Logger
}

// Ensure FileSink implements Sink
var _ Sink = (*FileSink)(nil)

// NewFileSink creates a sink writing to path
func NewFileSink(path string) *FileSink {
	return &FileSink{
		path:    path,
		records: []product.ProductRecord{},
		log:     logger.ForSink(),
	}
}

// Emit buffers one record
func (s *FileSink) Emit(record product.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Count returns the number of buffered records
func (s *FileSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close writes the collected records to the output file
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal product records: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write feed file %s: %w", s.path, err)
	}

	s.log.Info().
		Str("file", s.path).
		Int("count", len(s.records)).
		Msg("Feed file written")
	return nil
}
