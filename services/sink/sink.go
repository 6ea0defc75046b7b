package sink

import (
	"alkoteka/feedworker/internal/product"
)

// Sink receives finished product records. Emit must be safe under
// concurrent calls from in-flight detail handlers.
type Sink interface {
	// Emit accepts one product record
	Emit(record product.ProductRecord) error

	// Close flushes and releases the sink
	Close() error
}
