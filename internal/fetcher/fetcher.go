// Package fetcher resolves one document URI into a set of RDF statements.
package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
)

// ErrMalformedDocument marks a response body that is not valid JSON. Callers
// treat it as an empty graph and continue; every other fetch error is fatal
// to the crawl.
var ErrMalformedDocument = errors.New("malformed document")

// Fetcher resolves a URI to the graph of statements found in that document.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*rdf.Graph, error)
}

// Config controls fetch behavior.
type Config struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds one fetch. Exceeding it is fatal, not retried.
	Timeout time.Duration

	// QuirkHost, when non-empty, names a host whose bodies are rewritten
	// from https:// to http:// IRIs before parsing.
	QuirkHost string
}
