package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	fuzzdex "github.com/kailas-cloud/fuzzdex"
	"github.com/kailas-cloud/fuzzdex/internal/config"
)

type searchOptions struct {
	table      string
	fields     []string
	minWordSim float64
	minSim     float64
	limit      int
	exactFirst bool
	format     string
	explain    bool
}

func newSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Run a one-shot fuzzy search against the configured store",
		Long: `Search a table from the command line, using the same configuration
file as the server. Multiple arguments are joined into a single phrase.`,
		Example: `  fuzzdex search --table people joao silva
  fuzzdex search -t people -f name --limit 5 "maria souza"
  fuzzdex search -t people --explain joao`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, opts, query)
		},
	}

	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "Table to search (required)")
	cmd.Flags().StringSliceVarP(&opts.fields, "fields", "f", nil, "Columns to search (default: all searchable columns)")
	cmd.Flags().Float64Var(&opts.minWordSim, "min-word-similarity", 0, "Word similarity threshold (0..1)")
	cmd.Flags().Float64Var(&opts.minSim, "min-similarity", 0, "Whole-value similarity threshold (0..1)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of hits")
	cmd.Flags().BoolVar(&opts.exactFirst, "exact-first", false, "Probe for exact matches before the fuzzy query")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Print the rendered query instead of executing it")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, opts *searchOptions, query string) error {
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := newClientFromConfig(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	b := client.Search(opts.table).Term(query)
	if len(opts.fields) > 0 {
		b = b.Fields(opts.fields...)
	}
	// Changed() distinguishes an explicit 0 from an unset flag.
	if cmd.Flags().Changed("min-word-similarity") {
		b = b.MinWordSimilarity(opts.minWordSim)
	}
	if cmd.Flags().Changed("min-similarity") {
		b = b.MinSimilarity(opts.minSim)
	}
	if opts.limit > 0 {
		b = b.Limit(opts.limit)
	}
	if opts.exactFirst {
		b = b.ExactFirst()
	}

	out := cmd.OutOrStdout()

	if opts.explain {
		desc, err := b.Describe()
		if err != nil {
			return err
		}
		if opts.format == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(desc)
		}
		fmt.Fprintf(out, "Dialect: %s\n\n%s\n\nArgs: %v\n", desc.Dialect, desc.SQL, desc.Args)
		return nil
	}

	hits, err := b.Do(ctx)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Fprintf(out, "No hits in %q for %q\n", opts.table, query)
		return nil
	}

	fmt.Fprintf(out, "%d hit(s) in %q:\n", len(hits), opts.table)
	for i, h := range hits {
		fmt.Fprintf(out, "%3d. %-16s %.3f  %s\n", i+1, h.Key, h.Relevance, formatFields(h.Fields))
	}
	return nil
}

// newClientFromConfig builds an SDK client from the server configuration.
func newClientFromConfig(cfg config.Config) (*fuzzdex.Client, error) {
	opts := make([]fuzzdex.Option, 0, len(cfg.Tables)+2)

	switch cfg.Database.Driver {
	case "sqlite":
		opts = append(opts, fuzzdex.WithSQLite(cfg.Database.DSN))
	case "postgres":
		opts = append(opts, fuzzdex.WithPostgres(cfg.Database.DSN))
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	for _, tc := range cfg.Tables {
		opts = append(opts, fuzzdex.WithTable(tc.Name, tc.Key, tc.Columns...))
	}

	opts = append(opts, fuzzdex.WithDefaults(
		cfg.Search.MinWordSimilarity,
		cfg.Search.MinSimilarity,
		cfg.Search.DefaultLimit,
	))

	return fuzzdex.New(opts...)
}

// formatFields renders a hit's columns in a stable order.
func formatFields(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%q", name, fields[name]))
	}
	return strings.Join(parts, " ")
}
