package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/recstat/internal/recstat"
)

// countingProgress returns a hook that rewrites a single status line on w,
// and a function that clears the line and restores the cursor.
func countingProgress(w io.Writer) (func(files, bytes int64), func()) {
	// Hide cursor for in-place updates
	fmt.Fprint(w, "\033[?25l")

	hook := func(files, bytes int64) {
		fmt.Fprintf(w, "\r\033[2KCounting lines… %d files done (%s read)\r",
			files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
	}

	done := func() {
		fmt.Fprint(w, "\r\033[2K\r\033[?25h")
	}

	return hook, done
}

func logic(ctx context.Context, options recstat.Options, out io.Writer) error {
	var (
		progressHook func(files, bytes int64)
		clearLine    func()
	)

	// Progress goes to stderr only when it is a terminal and stdout is not JSON
	if options.Output != "json" && !options.Debug && isatty.IsTerminal(os.Stderr.Fd()) {
		progressHook, clearLine = countingProgress(os.Stderr)
	}

	stats, err := recstat.Run(ctx, options, progressHook)

	// The status line must be gone before the report is written
	if clearLine != nil {
		clearLine()
	}

	switch {
	case errors.Is(err, recstat.ErrNoRecords):
		_, err = fmt.Fprintf(out, "No %s files found in %s\n",
			strings.Join(recstat.IncludedExtensions(options.Extensions), ", "), options.Path)

		return err
	case err != nil:
		return err
	}

	switch options.Output {
	case "json":
		return PrintJSON(stats, out)
	case "table":
		return PrintTable(stats, out)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}
