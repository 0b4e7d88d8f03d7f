package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/mpievolbio-scicomp/tripser-go/internal/fetcher"
	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
)

// State is the engine lifecycle phase.
type State int

const (
	// StateIdle means the engine has not run yet.
	StateIdle State = iota
	// StateRunning means a crawl is in progress.
	StateRunning
	// StateDone means the frontier drained and the crawl completed.
	StateDone
)

// ErrAlreadyRan is returned when Run is called on a finished engine.
var ErrAlreadyRan = errors.New("crawl already ran")

const (
	defaultChunkSize = 8
	progressEvery    = 100
)

// Config holds the settings for one crawl.
type Config struct {
	// EntryPoint seeds the frontier. Optional; without it a run is a no-op.
	EntryPoint string

	// ContentNamespace is the URL prefix of object IRIs eligible to become
	// new tasks.
	ContentNamespace string

	// ChunkSize bounds how many tasks one wave dispatches. Default 8.
	ChunkSize int

	// PageSize is the upstream collection page size. Default 25.
	PageSize int
}

// NodeSink persists the graph of one fetched document.
type NodeSink interface {
	SaveNode(ctx context.Context, uri string, g *rdf.Graph) error
}

// Engine owns the frontier, the dedup tracker and the accumulated graph, and
// drives the wave loop. It mutates all three only between waves; fetch
// workers return pure results.
type Engine struct {
	cfg        Config
	fetcher    fetcher.Fetcher
	dispatcher Dispatcher
	sink       NodeSink
	logger     *zap.Logger

	graph    *rdf.Graph
	frontier *Frontier
	tracker  *Tracker
	state    State

	completed int
	parsed    int
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithSeedGraph merges results into a copy of g. The caller's graph is never
// aliased by crawl state.
func WithSeedGraph(g *rdf.Graph) Option {
	return func(e *Engine) {
		if g != nil {
			e.graph = g.Copy()
		}
	}
}

// WithNodeSink persists every fetched document's graph through sink.
func WithNodeSink(sink NodeSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// NewEngine validates the configuration and builds an engine. Validation
// failures surface here, never at crawl time.
func NewEngine(cfg Config, f fetcher.Fetcher, d Dispatcher, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if f == nil {
		return nil, errors.New("fetcher is required")
	}
	if d == nil {
		return nil, errors.New("dispatcher is required")
	}
	if cfg.ContentNamespace == "" {
		return nil, errors.New("content namespace is required")
	}
	if cfg.ChunkSize < 0 {
		return nil, fmt.Errorf("chunk size must not be negative, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("page size must not be negative, got %d", cfg.PageSize)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.EntryPoint != "" {
		u, err := url.Parse(cfg.EntryPoint)
		if err != nil || !u.IsAbs() {
			return nil, fmt.Errorf("entry point %q is not an absolute URI", cfg.EntryPoint)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	initMetrics()

	e := &Engine{
		cfg:        cfg,
		fetcher:    f,
		dispatcher: d,
		logger:     logger,
		graph:      rdf.NewGraph(),
		frontier:   &Frontier{},
		tracker:    NewTracker(),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}

	if cfg.EntryPoint != "" {
		seed := Task(cfg.EntryPoint)
		e.tracker.Mark(seed)
		e.frontier.Push(seed)
	} else {
		logger.Warn("no entry point set; the crawl will be a no-op")
	}

	return e, nil
}

// Graph returns the accumulated graph. The engine owns it during a run;
// callers read it only after Run returns.
func (e *Engine) Graph() *rdf.Graph {
	return e.graph
}

// State returns the current lifecycle phase.
func (e *Engine) State() State {
	return e.state
}

// Run drives the wave loop until the frontier drains. Malformed documents
// are logged and contribute nothing; any other fetch failure aborts the run
// with the causing error. Statements merged in completed waves stay in the
// graph either way.
func (e *Engine) Run(ctx context.Context) error {
	if e.state != StateIdle {
		return ErrAlreadyRan
	}
	if e.frontier.Len() == 0 {
		e.state = StateDone
		return nil
	}
	e.state = StateRunning

	for e.frontier.Len() > 0 {
		wave := e.frontier.TakeUpTo(e.cfg.ChunkSize)
		results := e.dispatcher.Dispatch(ctx, e.fetcher, wave)

		merged, err := e.mergeWave(ctx, results)
		if err != nil {
			return err
		}
		observeWave(merged, e.frontier.Len())
	}

	e.state = StateDone
	e.logger.Info("crawl complete",
		zap.Int("parsed_pages", e.parsed),
		zap.Int("tasks_complete", e.completed),
		zap.Int("graph_statements", e.graph.Len()),
	)
	return nil
}

// mergeWave folds one wave's results into engine state: link discovery,
// pagination expansion, frontier growth and graph accumulation. It returns
// the number of statements merged.
func (e *Engine) mergeWave(ctx context.Context, results []Result) (int, error) {
	sizeBefore := e.graph.Len()

	for _, res := range results {
		g := res.Graph
		if res.Err != nil {
			if !errors.Is(res.Err, fetcher.ErrMalformedDocument) {
				observeTask("failed")
				return e.graph.Len() - sizeBefore, res.Err
			}
			e.logger.Warn("not a valid JSON document", zap.String("url", string(res.Task)))
			observeTask("malformed")
			g = rdf.NewGraph()
		}
		if g == nil {
			g = rdf.NewGraph()
		}

		if e.sink != nil {
			if err := e.sink.SaveNode(ctx, string(res.Task), g); err != nil {
				return e.graph.Len() - sizeBefore, fmt.Errorf("serialize node %s: %w", res.Task, err)
			}
		}

		links := DiscoverLinks(g, e.cfg.ContentNamespace, e.tracker)
		pages, err := ExpandPages(res.Task, g, e.cfg.PageSize)
		if err != nil {
			return e.graph.Len() - sizeBefore, err
		}
		for _, candidate := range append(links, pages...) {
			if e.tracker.Mark(candidate) {
				e.frontier.Push(candidate)
			}
		}

		e.graph.Merge(g)
		e.parsed++
		e.completed++
		if res.Err == nil {
			observeTask("ok")
		}

		if e.completed%progressEvery == 0 {
			e.logger.Info("crawl progress",
				zap.Int("parsed_pages", e.parsed),
				zap.Int("tasks_complete", e.completed),
				zap.Int("tasks_pending", e.frontier.Len()),
				zap.Int("graph_statements", e.graph.Len()),
			)
		}
	}

	return e.graph.Len() - sizeBefore, nil
}
