// Package export writes compilation results to disk, either as a source
// tree per platform or as a tar archive compressed with gzip or zstd. It
// also renders the catalog reference page.
package export
