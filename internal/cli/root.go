// Package cli implements the model-router command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upb/llm-model-router/services/catalog"
	"github.com/upb/llm-model-router/services/routing"
	"go.uber.org/zap"
)

// Options holds global CLI options.
type Options struct {
	CatalogPath string
}

// NewRootCmd constructs the base CLI command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "model-router",
		Short:         "Pick the AI backend best suited to a request",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.CatalogPath, "catalog", "", "Path to a candidate catalog file (default: built-in catalog)")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewAnalyzeCmd(opts))
	cmd.AddCommand(NewSelectCmd(opts))
	cmd.AddCommand(NewCostCmd(opts))
	cmd.AddCommand(NewModelsCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadCatalog loads the catalog named by --catalog, or the built-in one.
func loadCatalog(opts *Options) (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	if opts.CatalogPath == "" {
		c, err = catalog.Default()
	} else {
		c, err = catalog.LoadFile(opts.CatalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// newOfflineService builds a routing service without a ledger or metrics
// for one-shot commands.
func newOfflineService(opts *Options) (*routing.RoutingService, error) {
	c, err := loadCatalog(opts)
	if err != nil {
		return nil, err
	}
	store, err := catalog.NewStore(c)
	if err != nil {
		return nil, err
	}
	cfg := routing.DefaultRoutingConfig()
	cfg.RecordSelections = false
	return routing.NewRoutingService(cfg, store, nil, nil, zap.NewNop()), nil
}

// promptFrom joins positional arguments, or reads stdin when there are none.
func promptFrom(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
