package recstat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// readBufferSize is the chunk size used when scanning files for newlines.
const readBufferSize = 64 * 1024

// CountLines returns the number of lines in the file at path.
// "\n", "\r\n" and a lone "\r" each end a line, and a trailing fragment
// without a line ending counts as a line.
func CountLines(path string) (int, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified record files
	if err != nil {
		return 0, fmt.Errorf("counting lines in %q: %w", path, err)
	}
	defer file.Close()

	lines, err := countLines(file)
	if err != nil {
		return 0, fmt.Errorf("counting lines in %q: %w", path, err)
	}

	return lines, nil
}

func countLines(r io.Reader) (int, error) {
	buf := make([]byte, readBufferSize)
	lines := 0
	last := byte('\n')
	// pendingCR is set when a chunk ends in '\r' and the next byte decides
	// whether it was a lone carriage return or half of "\r\n".
	pendingCR := false

	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]

			if pendingCR && chunk[0] != '\n' {
				lines++
			}

			pendingCR = false
			lines += bytes.Count(chunk, []byte{'\n'})

			for i := bytes.IndexByte(chunk, '\r'); i >= 0; {
				switch {
				case i+1 == n:
					pendingCR = true
				case chunk[i+1] != '\n':
					lines++
				}

				next := bytes.IndexByte(chunk[i+1:], '\r')
				if next < 0 {
					break
				}

				i += next + 1
			}

			last = chunk[n-1]
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return 0, err
		}
	}

	if pendingCR {
		lines++
	}

	// Unterminated final line
	if last != '\n' && last != '\r' {
		lines++
	}

	return lines, nil
}
