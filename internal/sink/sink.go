// Package sink persists per-document graphs to disk.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
)

// FileSystemSink writes one Turtle file per fetched document.
type FileSystemSink struct {
	root     string
	prefixes map[string]string
	logger   *zap.Logger
}

// NewFileSystemSink returns a sink rooted at dir. The prefix bindings are
// emitted into every node file.
func NewFileSystemSink(root string, prefixes map[string]string, logger *zap.Logger) (*FileSystemSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemSink{
		root:     root,
		prefixes: prefixes,
		logger:   logger,
	}, nil
}

// SaveNode serializes the graph of one fetched document under a name derived
// deterministically from its URI.
func (s *FileSystemSink) SaveNode(ctx context.Context, uri string, g *rdf.Graph) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	target := filepath.Join(s.root, NodeFileName(uri))

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create node file %s: %w", target, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := rdf.EncodeTurtle(file, g, s.prefixes); err != nil {
		return fmt.Errorf("serialize node %s: %w", uri, err)
	}
	s.logger.Debug("node serialized", zap.String("url", uri), zap.String("path", target))
	return nil
}

// NodeFileName maps a document URI to its output filename: the scheme is
// dropped, path separators become "__", and ".ttl" is appended.
func NodeFileName(uri string) string {
	trimmed := uri
	if i := strings.Index(uri, "://"); i >= 0 {
		trimmed = uri[i+len("://"):]
	}
	return strings.ReplaceAll(trimmed, "/", "__") + ".ttl"
}
