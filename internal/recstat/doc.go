// Package recstat provides line-count statistics for directories of record files.
//
// It discovers record files using fastwalk, counts the lines of each file
// sequentially, and aggregates the counts into summary statistics and a
// fixed-bucket histogram.
package recstat
