package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mpievolbio-scicomp/tripser-go/internal/app"
	"github.com/mpievolbio-scicomp/tripser-go/internal/config"
	"github.com/mpievolbio-scicomp/tripser-go/internal/crawler"
	"github.com/mpievolbio-scicomp/tripser-go/internal/fetcher"
	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
	"github.com/mpievolbio-scicomp/tripser-go/internal/sink"
	"github.com/mpievolbio-scicomp/tripser-go/internal/vocab"
)

// errMissingURL distinguishes the usage error from fatal crawl errors; it
// maps to exit code 2.
var errMissingURL = errors.New("missing required <url> argument")

type runFlags struct {
	out            string
	serializeNodes bool
	nodeDir        string
}

// newRunCmd creates the 'run' subcommand, which performs one bounded crawl
// starting from the given entry point and writes the cleaned graph to disk.
func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <url>",
		Short: "Crawl an entry point and serialize the accumulated graph",
		Long: `Starts a crawl at the given entry-point URL. Linked documents inside the
content namespace are fetched transitively, paginated collection views are
expanded, and every statement is merged into one graph. After the frontier
drains, pagination artifacts are stripped and the graph is written as Turtle.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errMissingURL
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return runCrawl(cmd, appInstance, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.out, "out", "", "output file for the merged graph (default from config)")
	cmd.Flags().BoolVar(&flags.serializeNodes, "serialize-nodes", false, "additionally write one file per fetched document")
	cmd.Flags().StringVar(&flags.nodeDir, "node-dir", "", "directory for per-document files (default from config)")

	return cmd
}

func runCrawl(cmd *cobra.Command, appInstance *app.App, entryPoint string, flags *runFlags) error {
	cfg := appInstance.Config()
	logger := appInstance.Logger()

	if flags.out != "" {
		cfg.Output.Path = flags.out
	}
	if flags.serializeNodes {
		cfg.Output.SerializeNodes = true
	}
	if flags.nodeDir != "" {
		cfg.Output.NodeDir = flags.nodeDir
	}

	engine, err := buildEngine(cfg, entryPoint, logger)
	if err != nil {
		return err
	}

	if err := engine.Run(cmd.Context()); err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	graph := engine.Graph()
	removed := crawler.Cleanup(graph)
	logger.Info("cleanup complete",
		zap.Int("removed_statements", removed),
		zap.Int("graph_statements", graph.Len()),
	)

	if err := writeGraph(cfg.Output.Path, graph); err != nil {
		return err
	}
	logger.Info("graph written", zap.String("path", cfg.Output.Path), zap.Int("statements", graph.Len()))
	return nil
}

func buildEngine(cfg config.Config, entryPoint string, logger *zap.Logger) (*crawler.Engine, error) {
	f := fetcher.NewJSONLD(fetcher.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
		QuirkHost: cfg.Fetch.QuirkHost,
	}, logger)

	var dispatcher crawler.Dispatcher
	switch cfg.Crawler.Dispatcher {
	case "serial":
		dispatcher = crawler.SerialDispatcher{}
	default:
		dispatcher = crawler.PoolDispatcher{Workers: cfg.Crawler.ChunkSize}
	}

	var opts []crawler.Option
	if cfg.Output.SerializeNodes {
		nodeSink, err := sink.NewFileSystemSink(cfg.Output.NodeDir, vocab.Prefixes(), logger)
		if err != nil {
			return nil, fmt.Errorf("init node sink: %w", err)
		}
		opts = append(opts, crawler.WithNodeSink(nodeSink))
	}

	engine, err := crawler.NewEngine(crawler.Config{
		EntryPoint:       entryPoint,
		ContentNamespace: cfg.Crawler.ContentNamespace,
		ChunkSize:        cfg.Crawler.ChunkSize,
		PageSize:         cfg.Crawler.PageSize,
	}, f, dispatcher, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}
	return engine, nil
}

func writeGraph(path string, g *rdf.Graph) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := rdf.EncodeTurtle(file, g, vocab.Prefixes()); err != nil {
		return fmt.Errorf("serialize graph to %s: %w", path, err)
	}
	return nil
}
