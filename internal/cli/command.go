package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/recstat/internal/recstat"
)

// DefaultPath is the directory analyzed when no path argument is given.
const DefaultPath = "records"

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// flagValues holds raw flag values that need parsing before use.
type flagValues struct {
	minSize string
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json"}

// registerFlags binds the command flags to options.
func registerFlags(flags *pflag.FlagSet, options *recstat.Options, raw *flagValues) {
	flags.StringSliceVarP(
		&options.Extensions,
		"ext",
		"x",
		[]string{recstat.DefaultExtension},
		"File suffixes to include (e.g., .jsonl,.ndjson). Use '!' prefix to exclude (e.g., !.tmp.jsonl)",
	)
	flags.StringSliceVarP(&options.Excludes, "exclude", "e", []string{}, "Regex patterns to exclude")
	flags.IntVarP(&options.Depth, "depth", "d", 1, "Maximum traversal depth (0=unlimited, 1=no recursion)")
	flags.StringVar(&raw.minSize, "min-size", "0B", "Minimum file size (e.g., 1KB)")
	flags.IntSliceVarP(&options.Bounds, "bins", "b", recstat.DefaultBounds, "Upper bounds of the histogram bins")
	flags.IntVarP(&options.TopN, "top", "t", 0, "Number of longest files to display")
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: json or table")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")

	flags.SortFlags = false
}

// validate checks option values and parses raw flag values into options.
func validate(options *recstat.Options, raw flagValues) error {
	if !slices.Contains(allowedOutputs, options.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if options.Depth < 0 {
		return errors.New("depth cannot be negative")
	}

	if options.TopN < 0 {
		return errors.New("top cannot be negative")
	}

	if _, err := recstat.NewBins(options.Bounds); err != nil {
		return fmt.Errorf("invalid bins: %w", err)
	}

	// Parse minSize string to bytes
	if raw.minSize != "" {
		size, err := humanize.ParseBytes(raw.minSize)
		if err != nil {
			return fmt.Errorf("invalid min-size: %w", err)
		}

		options.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe
	}

	return nil
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var (
		options recstat.Options
		raw     flagValues
	)

	cmd := &cobra.Command{
		Use:   "recstat [flags] [path]",
		Short: "Line-count statistics for directories of record files",
		Long: heredoc.Doc(`
			recstat counts the lines of every record file in a directory and reports
			summary statistics together with a histogram of record lengths.

			Positional Arguments:
			  path                   Directory to analyze. Defaults to "records" if not specified.

			Record files are matched by suffix (".jsonl" unless --ext is given). Only the
			files directly inside the directory are analyzed; use --depth to descend.

			The median is the element at index n/2 of the sorted line counts.
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate(&options, raw); err != nil {
				return err
			}

			if len(args) == 0 {
				options.Path = DefaultPath
			} else {
				options.Path = args[0]
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout())
		},
	}

	registerFlags(cmd.Flags(), &options, &raw)

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}
