// Package interfaces defines core abstractions for the extraction pipeline
// to improve testability and separation of concerns.
package interfaces

import (
	"context"

	"github.com/WelCode99/ArticleData/datasus"
)

// Fetcher defines the contract for retrieving the raw hospitalization
// records of one (UF, year) scope. Implementations own their transport,
// timeouts and retries; the pipeline only consumes the typed result.
type Fetcher interface {
	Fetch(ctx context.Context, uf string, year int) datasus.FetchResult
}

// RecordSink defines the contract for the growing output file. The header
// is written exactly once, by the first EnsureStarted call; every Append
// must match the column set captured at that point.
type RecordSink interface {
	// EnsureStarted writes the header and captures the schema on the first
	// call; later calls are no-ops.
	EnsureStarted(columns []string) error

	// Append writes all rows of the table to the output.
	Append(t *datasus.Table) error

	// Close flushes and closes the underlying file.
	Close() error
}
