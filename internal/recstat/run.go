package recstat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// DefaultExtension is the suffix of line-delimited record files.
const DefaultExtension = ".jsonl"

// Options configures record discovery and CLI behavior.
type Options struct {
	// Path is the directory containing record files.
	Path string
	// Extensions to include (empty = DefaultExtension).
	Extensions []string
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// MinSize is the minimum file size in bytes.
	MinSize int64
	// Depth is the maximum traversal depth (0=unlimited, 1=direct children only).
	Depth int
	// Bounds are the upper bounds of the histogram bins.
	Bounds []int
	// TopN is the number of longest files to report.
	TopN int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table or json).
	Output string
}

// progress tracks counted files for the progress reporter.
type progress struct {
	mu    sync.Mutex
	files int64
	bytes int64
}

func (p *progress) add(size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.files++
	p.bytes += size
}

func (p *progress) snapshot() (int64, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.files, p.bytes
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// shouldIncludeByExtension checks if file should be included based on extension filters.
// Returns true if file should be included, false if excluded.
func shouldIncludeByExtension(path string, include, exclude map[string]struct{}) bool {
	// Check excludes first
	for ext := range exclude {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	for ext := range include {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// isHidden reports whether the base name of path starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// recordInfo returns the file info of a regular file, resolving symlinks to
// their target. It returns nil for anything that is not a regular file.
func recordInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	var (
		info fs.FileInfo
		err  error
	)

	switch {
	case d.Type().IsRegular():
		info, err = d.Info()
	case d.Type()&fs.ModeSymlink != 0:
		info, err = os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			// Dangling link
			return nil, nil //nolint:nilnil // Skipped, not an error
		}
	default:
		return nil, nil //nolint:nilnil // Skipped, not an error
	}

	if err != nil {
		return nil, fmt.Errorf("accessing file %q: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, nil //nolint:nilnil // Skipped, not an error
	}

	return info, nil
}

// splitExtensions separates include and '!'-prefixed exclude suffixes.
// With no include suffix, DefaultExtension is used.
func splitExtensions(extensions []string) (map[string]struct{}, map[string]struct{}) {
	include := make(map[string]struct{}, len(extensions))
	exclude := make(map[string]struct{}, len(extensions))

	for _, e := range extensions { //nolint:varnamelen // e is standard for element in range
		e = strings.Trim(e, "'\"") // Strip quotes first
		if e == "" {
			continue
		}

		if strings.HasPrefix(e, "!") {
			exclude[strings.TrimPrefix(e, "!")] = struct{}{}
		} else {
			include[e] = struct{}{}
		}
	}

	if len(include) == 0 {
		include[DefaultExtension] = struct{}{}
	}

	return include, exclude
}

// IncludedExtensions returns the sorted suffixes a file must match to be analyzed.
func IncludedExtensions(extensions []string) []string {
	include, _ := splitExtensions(extensions)

	exts := make([]string, 0, len(include))
	for ext := range include {
		exts = append(exts, ext)
	}

	slices.Sort(exts)

	return exts
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, p *progress, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Discover returns the record files below opt.Path, sorted by path, along with their sizes.
// Symlinks to regular files are followed and hidden entries are skipped.
// It returns ErrNoRecords if no file matches, including when opt.Path does
// not exist or is not a directory.
//
//nolint:gocognit,funlen // Filtering mirrors the walk callback structure.
func Discover(ctx context.Context, opt Options, log logrus.FieldLogger) ([]Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	// Normalize to native format to handle both C:/Path and C:\Path inputs
	opt.Path = filepath.Clean(opt.Path)

	// A missing directory or a plain file holds no records
	statInfo, err := os.Stat(opt.Path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugf("directory %s does not exist", opt.Path)

		return nil, fmt.Errorf("%w in %s", ErrNoRecords, opt.Path)
	case err != nil:
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	case !statInfo.IsDir():
		log.Debugf("path %s is not a directory", opt.Path)

		return nil, fmt.Errorf("%w in %s", ErrNoRecords, opt.Path)
	}

	extInclude, extExclude := splitExtensions(opt.Extensions)

	excludeRegexes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	for ext := range extInclude {
		log.Debugf("include extension: %s", ext)
	}

	for ext := range extExclude {
		log.Debugf("exclude extension: %s", ext)
	}

	for _, re := range excludeRegexes {
		log.Debugf("exclude regex: %s", re.String())
	}

	var (
		mu      sync.Mutex
		samples []Sample
	)

	conf := &fastwalk.Config{
		Follow: false, // Don't descend into symlinked directories; file links are resolved below
	}

	// fastwalk invokes the callback from multiple goroutines
	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, opt.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == opt.Path {
				return err
			}

			log.Debugf("error accessing path %s: %v", path, err)

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		currentDepth := calculateDepth(path, opt.Path)
		if opt.Depth > 0 && currentDepth > opt.Depth {
			if d.IsDir() {
				log.Debugf("skipping directory (beyond depth %d): %s", opt.Depth, path)

				return filepath.SkipDir
			}

			log.Debugf("skipping file (beyond depth %d): %s", opt.Depth, path)

			return nil
		}

		if matchedPattern := shouldExcludeByPattern(path, excludeRegexes); matchedPattern != nil {
			log.Debugf("excluding %s (matched regex %s)", filepath.ToSlash(path), matchedPattern.String())

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if path != opt.Path && isHidden(path) {
			log.Debugf("excluding hidden entry: %s", path)

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !shouldIncludeByExtension(path, extInclude, extExclude) {
			log.Debugf("excluding file (extension filter): %s", path)

			return nil
		}

		fileInfo, err := recordInfo(path, d)
		if err != nil {
			return err
		}

		if fileInfo == nil {
			log.Debugf("excluding non-regular file: %s", path)

			return nil
		}

		if fileInfo.Size() < opt.MinSize {
			log.Debugf("excluding file (below min size): %s", path)

			return nil
		}

		mu.Lock()
		defer mu.Unlock()

		samples = append(samples, Sample{Path: path, Size: fileInfo.Size()})

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %q: %w", opt.Path, walkErr)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, opt.Path)
	}

	slices.SortFunc(samples, func(a, b Sample) int {
		return strings.Compare(a.Path, b.Path)
	})

	return samples, nil
}

// Run discovers record files under opt.Path, counts their lines one file at a
// time and returns the aggregated statistics.
//
// It returns an error wrapping ErrNoRecords if no record file is found, and
// fails on the first file that cannot be read. The run can be cancelled via
// ctx between files. Progress updates are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Stats, error) {
	log := newLogger(opt.Debug)

	bounds := opt.Bounds
	if bounds == nil {
		bounds = DefaultBounds
	}

	bins, err := NewBins(bounds)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	samples, err := Discover(ctx, opt, log)
	if err != nil {
		return nil, err
	}

	log.Debugf("discovered %d record files", len(samples))

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	counted := &progress{}
	startProgressReporter(ctx, counted, progressHook, opt.ProgressInterval)

	for i := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lines, err := CountLines(samples[i].Path)
		if err != nil {
			return nil, err
		}

		log.Debugf("%s: %d lines", samples[i].Path, lines)

		samples[i].Lines = lines
		counted.add(samples[i].Size)
	}

	stats, err := Compute(samples, bins, opt.TopN)
	if err != nil {
		return nil, err
	}

	stats.Path = filepath.ToSlash(filepath.Clean(opt.Path))
	stats.Elapsed = time.Since(start)

	return stats, nil
}
