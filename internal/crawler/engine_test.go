package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mpievolbio-scicomp/tripser-go/internal/fetcher"
	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
	"github.com/mpievolbio-scicomp/tripser-go/internal/vocab"
)

const (
	entryURI    = testNamespace + "v0.1/Gene"
	organismURI = testNamespace + "v0.1/Organism/1"
	exonURI     = testNamespace + "v0.1/Exon/9"
)

// dispatchFunc adapts a function to the Dispatcher interface.
type dispatchFunc func(ctx context.Context, f fetcher.Fetcher, tasks []Task) []Result

func (fn dispatchFunc) Dispatch(ctx context.Context, f fetcher.Fetcher, tasks []Task) []Result {
	return fn(ctx, f, tasks)
}

type fakeSink struct {
	mu   sync.Mutex
	uris []string
	err  error
}

func (s *fakeSink) SaveNode(_ context.Context, uri string, _ *rdf.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.uris = append(s.uris, uri)
	return nil
}

func memberGraph(subject string, members ...string) *rdf.Graph {
	g := rdf.NewGraph()
	for _, m := range members {
		g.Add(link(subject, "http://example.org/member", m))
	}
	return g
}

func newTestEngine(t *testing.T, f fetcher.Fetcher, entry string, d Dispatcher, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(Config{
		EntryPoint:       entry,
		ContentNamespace: testNamespace,
		ChunkSize:        2,
	}, f, d, zap.NewNop(), opts...)
	require.NoError(t, err)
	return e
}

func countOccurrences(calls []string) map[string]int {
	out := make(map[string]int)
	for _, c := range calls {
		out[c]++
	}
	return out
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	valid := Config{EntryPoint: entryURI, ContentNamespace: testNamespace}
	f := newFakeFetcher()
	d := SerialDispatcher{}

	tests := []struct {
		name    string
		cfg     Config
		fetcher fetcher.Fetcher
		disp    Dispatcher
		wantErr string
	}{
		{"nil fetcher", valid, nil, d, "fetcher is required"},
		{"nil dispatcher", valid, f, nil, "dispatcher is required"},
		{
			"missing namespace",
			Config{EntryPoint: entryURI},
			f, d, "content namespace is required",
		},
		{
			"relative entry point",
			Config{EntryPoint: "v0.1/Gene", ContentNamespace: testNamespace},
			f, d, "not an absolute URI",
		},
		{
			"negative chunk size",
			Config{EntryPoint: entryURI, ContentNamespace: testNamespace, ChunkSize: -1},
			f, d, "chunk size",
		},
		{
			"negative page size",
			Config{EntryPoint: entryURI, ContentNamespace: testNamespace, PageSize: -1},
			f, d, "page size",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewEngine(tc.cfg, tc.fetcher, tc.disp, zap.NewNop())
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestEngine_AtMostOncePerTask(t *testing.T) {
	t.Parallel()

	// Cyclic references between three documents must not cause refetches.
	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI, organismURI, exonURI)
	f.graphs[organismURI] = memberGraph(organismURI, entryURI, exonURI)
	f.graphs[exonURI] = memberGraph(exonURI, entryURI, organismURI)

	e := newTestEngine(t, f, entryURI, PoolDispatcher{Workers: 4})
	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, StateDone, e.State())

	counts := countOccurrences(f.fetched())
	require.Len(t, counts, 3)
	for uri, n := range counts {
		require.Equal(t, 1, n, "task %s dispatched more than once", uri)
	}
}

func TestEngine_PaginationExpansion(t *testing.T) {
	t.Parallel()

	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		S: rdf.IRI{Value: entryURI},
		P: rdf.IRI{Value: vocab.TotalItems},
		O: rdf.Literal{Lexical: "253"},
	})
	f := newFakeFetcher()
	f.graphs[entryURI] = g

	e := newTestEngine(t, f, entryURI, SerialDispatcher{})
	require.NoError(t, e.Run(context.Background()))

	counts := countOccurrences(f.fetched())
	require.Len(t, counts, 12)
	for page := 1; page <= 11; page++ {
		require.Contains(t, counts, fmt.Sprintf("%s?limit=25&page=%d", entryURI, page))
	}
}

func TestEngine_QueryStringEntryPointSkipsExpansion(t *testing.T) {
	t.Parallel()

	entry := entryURI + "?limit=25&page=1"
	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		S: rdf.IRI{Value: entry},
		P: rdf.IRI{Value: vocab.TotalItems},
		O: rdf.Literal{Lexical: "100"},
	})
	f := newFakeFetcher()
	f.graphs[entry] = g

	e := newTestEngine(t, f, entry, SerialDispatcher{})
	require.NoError(t, e.Run(context.Background()))

	require.Len(t, f.fetched(), 1)
}

func TestEngine_MalformedDocumentContinues(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI, organismURI, exonURI)
	f.errs[organismURI] = fetcher.ErrMalformedDocument
	f.graphs[exonURI] = memberGraph(exonURI, testNamespace+"v0.1/CDS/3")

	e := newTestEngine(t, f, entryURI, SerialDispatcher{})
	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, StateDone, e.State())

	counts := countOccurrences(f.fetched())
	require.Len(t, counts, 4)
	// The malformed document contributes nothing; everything else merges.
	require.Equal(t, 3, e.Graph().Len())
}

func TestEngine_FatalErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("dial tcp: connection refused")
	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI, organismURI)
	f.errs[organismURI] = boom

	e := newTestEngine(t, f, entryURI, SerialDispatcher{})
	err := e.Run(context.Background())
	require.ErrorIs(t, err, boom)

	// Statements merged in completed waves stay valid.
	require.Equal(t, 1, e.Graph().Len())
}

func TestEngine_SeedGraphIsDefensivelyCopied(t *testing.T) {
	t.Parallel()

	seed := rdf.NewGraph()
	seed.Add(link("http://caller/s", "http://caller/p", "http://caller/o"))

	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI, organismURI)

	e := newTestEngine(t, f, entryURI, SerialDispatcher{}, WithSeedGraph(seed))
	require.NoError(t, e.Run(context.Background()))

	require.Equal(t, 1, seed.Len())
	require.Equal(t, 2, e.Graph().Len())
	require.True(t, e.Graph().Has(link("http://caller/s", "http://caller/p", "http://caller/o")))
}

func TestEngine_NoEntryPointIsNoOp(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	e, err := NewEngine(Config{ContentNamespace: testNamespace}, f, SerialDispatcher{}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, StateIdle, e.State())

	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, StateDone, e.State())
	require.Empty(t, f.fetched())
}

func TestEngine_RunTwiceFails(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI)

	e := newTestEngine(t, f, entryURI, SerialDispatcher{})
	require.NoError(t, e.Run(context.Background()))
	require.ErrorIs(t, e.Run(context.Background()), ErrAlreadyRan)
}

func TestEngine_RepeatableGraphSize(t *testing.T) {
	t.Parallel()

	build := func(d Dispatcher) int {
		f := newFakeFetcher()
		f.graphs[entryURI] = memberGraph(entryURI, organismURI, exonURI)
		f.graphs[organismURI] = memberGraph(organismURI, exonURI)
		f.graphs[exonURI] = memberGraph(exonURI, testNamespace+"v0.1/CDS/3")

		e := newTestEngine(t, f, entryURI, d)
		require.NoError(t, e.Run(context.Background()))
		return e.Graph().Len()
	}

	serial := build(SerialDispatcher{})
	require.Equal(t, serial, build(SerialDispatcher{}))
	require.Equal(t, serial, build(PoolDispatcher{Workers: 3}))
}

func TestEngine_GraphGrowsMonotonicallyAcrossWaves(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI, organismURI, exonURI)
	f.graphs[organismURI] = memberGraph(organismURI, testNamespace+"v0.1/CDS/3")
	f.graphs[exonURI] = memberGraph(exonURI, testNamespace+"v0.1/CDS/4")

	var (
		e     *Engine
		sizes []int
	)
	recorder := dispatchFunc(func(ctx context.Context, ff fetcher.Fetcher, tasks []Task) []Result {
		sizes = append(sizes, e.Graph().Len())
		return SerialDispatcher{}.Dispatch(ctx, ff, tasks)
	})

	e = newTestEngine(t, f, entryURI, recorder)
	require.NoError(t, e.Run(context.Background()))
	sizes = append(sizes, e.Graph().Len())

	require.GreaterOrEqual(t, len(sizes), 2)
	for i := 1; i < len(sizes); i++ {
		require.GreaterOrEqual(t, sizes[i], sizes[i-1])
	}
}

func TestEngine_NodeSink(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI, organismURI)

	s := &fakeSink{}
	e := newTestEngine(t, f, entryURI, SerialDispatcher{}, WithNodeSink(s))
	require.NoError(t, e.Run(context.Background()))

	require.ElementsMatch(t, []string{entryURI, organismURI}, s.uris)
}

func TestEngine_NodeSinkFailureIsFatal(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.graphs[entryURI] = memberGraph(entryURI, organismURI)

	diskFull := errors.New("no space left on device")
	e := newTestEngine(t, f, entryURI, SerialDispatcher{}, WithNodeSink(&fakeSink{err: diskFull}))

	require.ErrorIs(t, e.Run(context.Background()), diskFull)
}
