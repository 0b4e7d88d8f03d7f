// Package cmd defines and implements the CLI commands for the tripser
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpievolbio-scicomp/tripser-go/internal/app"
)

var (
	cfgFile     string
	metricsAddr string
)

// appKeyType is the key for storing the App in the command context.
type appKeyType string

const appKey appKeyType = "app"

// newApp is the application factory. It is a variable so tests can replace
// it with a fake.
var newApp = func(cfgPath, metricsAddr string) (*app.App, error) {
	return app.New(cfgPath, metricsAddr)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tripser",
		Short: "Serialize a Tripal JSON-LD web-services API into RDF.",
		Long: `tripser recursively crawls a hypermedia JSON-LD document collection,
follows links inside the content namespace, expands paginated collection
views, and accumulates every discovered statement into one graph that is
written out as Turtle when the crawl completes.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cfgFile, metricsAddr)
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*app.App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults + TRIPSER_* env)")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address while running")

	cmd.AddCommand(newRunCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point. Usage errors exit with code 2, fatal
// errors with code 1.
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if errors.Is(err, errMissingURL) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			fmt.Fprintln(os.Stderr, "Usage: tripser run <url> [--out <path>] [--serialize-nodes]")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
