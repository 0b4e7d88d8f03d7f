package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	ld "github.com/piprate/json-gold/ld"
	"go.uber.org/zap"

	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
)

const defaultTimeout = 600 * time.Second

// JSONLD fetches JSON-LD documents over HTTP and converts them to graphs.
type JSONLD struct {
	cfg           Config
	baseCollector *colly.Collector
	docLoader     ld.DocumentLoader
	logger        *zap.Logger
}

// NewJSONLD builds a JSONLD fetcher.
func NewJSONLD(cfg Config, logger *zap.Logger) *JSONLD {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// colly v2.1.0's Async option ignores its argument and always enables
	// async mode; synchronous is the default, so pass no option at all.
	c := colly.NewCollector()
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true
	// Error-status bodies must reach the decode step: the upstream serves
	// HTML error pages, and a dead link is a per-document problem, not a
	// crawl-fatal one.
	c.ParseHTTPErrorResponse = true
	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &JSONLD{
		cfg:           cfg,
		baseCollector: c,
		docLoader:     ld.NewDefaultDocumentLoader(&http.Client{Transport: transport, Timeout: cfg.Timeout}),
		logger:        logger,
	}
}

// Fetch downloads the document at uri and parses it into a graph. A body that
// is not valid JSON yields ErrMalformedDocument regardless of HTTP status, so
// a dead link serving an HTML error page costs one warning, not the crawl.
// Transport failures, timeouts and JSON-LD processing failures are returned
// as-is and abort the crawl.
func (f *JSONLD) Fetch(ctx context.Context, uri string) (*rdf.Graph, error) {
	body, err := f.download(ctx, uri)
	if err != nil {
		return nil, err
	}

	doc, err := f.decode(uri, body)
	if err != nil {
		return nil, err
	}

	return f.toGraph(uri, doc)
}

func (f *JSONLD) download(ctx context.Context, uri string) ([]byte, error) {
	collector := f.baseCollector.Clone()
	collector.AllowURLRevisit = true
	collector.IgnoreRobotsTxt = true
	collector.ParseHTTPErrorResponse = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/ld+json, application/json")
	})
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(uri)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch %s canceled: %w", uri, ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, fetchErr)
		}
	}
	return body, nil
}

// decode applies the upstream compatibility transforms and unmarshals the
// body. The upstream data source mixes https and http spellings of its own
// IRIs and double-encodes some of them, so the raw text is normalized before
// structured parsing.
func (f *JSONLD) decode(uri string, body []byte) (interface{}, error) {
	text := string(body)
	if f.cfg.QuirkHost != "" {
		text = strings.ReplaceAll(text, "https://"+f.cfg.QuirkHost, "http://"+f.cfg.QuirkHost)
	}
	text = unescapeLoose(text)

	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedDocument, uri)
	}
	return doc, nil
}

// unescapeLoose percent-decodes every valid %XX escape and leaves anything
// else, including a bare '%', untouched. Bodies mix literal percent signs
// with double-encoded IRIs, so the strict all-or-nothing decoders don't fit.
func unescapeLoose(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c >= 'a':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func (f *JSONLD) toGraph(uri string, doc interface{}) (*rdf.Graph, error) {
	opts := ld.NewJsonLdOptions(uri)
	opts.DocumentLoader = f.docLoader

	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("expand %s to RDF: %w", uri, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("expand %s to RDF: unexpected result %T", uri, result)
	}

	g := rdf.NewGraph()
	for _, quads := range dataset.Graphs {
		for _, quad := range quads {
			if quad == nil {
				continue
			}
			triple, err := quadToTriple(quad)
			if err != nil {
				return nil, fmt.Errorf("convert statement from %s: %w", uri, err)
			}
			g.Add(triple)
		}
	}
	f.logger.Debug("parsed document", zap.String("url", uri), zap.Int("statements", g.Len()))
	return g, nil
}

func quadToTriple(quad *ld.Quad) (rdf.Triple, error) {
	s, err := nodeToTerm(quad.Subject)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := nodeToTerm(quad.Predicate)
	if err != nil {
		return rdf.Triple{}, err
	}
	pred, ok := p.(rdf.IRI)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("predicate %s is not an IRI", p)
	}
	o, err := nodeToTerm(quad.Object)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{S: s, P: pred, O: o}, nil
}

func nodeToTerm(node ld.Node) (rdf.Term, error) {
	switch v := node.(type) {
	case *ld.IRI:
		return rdf.IRI{Value: v.Value}, nil
	case ld.IRI:
		return rdf.IRI{Value: v.Value}, nil
	case *ld.BlankNode:
		return rdf.BlankNode{ID: strings.TrimPrefix(v.Attribute, "_:")}, nil
	case ld.BlankNode:
		return rdf.BlankNode{ID: strings.TrimPrefix(v.Attribute, "_:")}, nil
	case *ld.Literal:
		return rdf.Literal{Lexical: v.Value, Datatype: v.Datatype, Lang: v.Language}, nil
	case ld.Literal:
		return rdf.Literal{Lexical: v.Value, Datatype: v.Datatype, Lang: v.Language}, nil
	case nil:
		return nil, fmt.Errorf("nil node")
	default:
		return nil, fmt.Errorf("unsupported node type %T", node)
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
