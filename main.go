// Command recstat reports line-count statistics for a directory of record files.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/recstat/internal/cli"
)

// version is set at build time via -ldflags.
//
//nolint:gochecknoglobals // Set by the linker
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "recstat: %v\n", err)
		os.Exit(1)
	}
}
