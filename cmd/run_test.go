package cmd

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_MissingURLIsUsageError(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run"})

	err := root.Execute()
	require.ErrorIs(t, err, errMissingURL)
}

func TestRun_TooManyArgsIsUsageError(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run", "http://a", "http://b"})

	err := root.Execute()
	require.ErrorIs(t, err, errMissingURL)
}

func TestRun_WritesGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/ld+json")
		fmt.Fprintf(w, `{
			"@id": "%s/doc",
			"http://example.org/name": "gene-1"
		}`, "http://"+r.Host)
	}))
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(t.TempDir(), "tripser.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
crawler:
  dispatcher: serial
fetch:
  timeout_seconds: 10
`), 0o600))
	out := filepath.Join(t.TempDir(), "graph.ttl")

	root := newRootCmd()
	root.SetArgs([]string{"run", srv.URL, "--config", cfgPath, "--out", out})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"gene-1"`)
}
