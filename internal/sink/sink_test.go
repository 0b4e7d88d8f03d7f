package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
)

func TestNodeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri  string
		want string
	}{
		{
			"http://pflu.evolbio.mpg.de/web-services/content/v0.1/Gene/1",
			"pflu.evolbio.mpg.de__web-services__content__v0.1__Gene__1.ttl",
		},
		{"https://host/a/b", "host__a__b.ttl"},
		{"host/no/scheme", "host__no__scheme.ttl"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, NodeFileName(tc.uri))
	}
}

func TestFileSystemSink_SaveNode(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nodes")
	s, err := NewFileSystemSink(root, map[string]string{"ex": "http://example.org/"}, zap.NewNop())
	require.NoError(t, err)

	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		S: rdf.IRI{Value: "http://example.org/s"},
		P: rdf.IRI{Value: "http://example.org/p"},
		O: rdf.IRI{Value: "http://example.org/o"},
	})

	uri := "http://host/a/b"
	require.NoError(t, s.SaveNode(context.Background(), uri, g))

	data, err := os.ReadFile(filepath.Join(root, "host__a__b.ttl"))
	require.NoError(t, err)
	require.Contains(t, string(data), "@prefix ex: <http://example.org/> .")
	require.Contains(t, string(data), "ex:s ex:p ex:o .")
}

func TestFileSystemSink_SaveNodeCanceledContext(t *testing.T) {
	t.Parallel()

	s, err := NewFileSystemSink(t.TempDir(), nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.SaveNode(ctx, "http://host/a", rdf.NewGraph()))
}

func TestFileSystemSink_OverwritesExistingFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewFileSystemSink(root, nil, zap.NewNop())
	require.NoError(t, err)

	uri := "http://host/doc"
	require.NoError(t, s.SaveNode(context.Background(), uri, rdf.NewGraph()))

	g := rdf.NewGraph()
	g.Add(rdf.Triple{
		S: rdf.IRI{Value: "http://example.org/s"},
		P: rdf.IRI{Value: "http://example.org/p"},
		O: rdf.Literal{Lexical: "v"},
	})
	require.NoError(t, s.SaveNode(context.Background(), uri, g))

	data, err := os.ReadFile(filepath.Join(root, NodeFileName(uri)))
	require.NoError(t, err)
	require.Contains(t, string(data), `"v"`)
}
