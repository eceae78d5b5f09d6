package export

import (
	"archive/tar"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/GriffinCanCode/capsulec/internal/shared/paths"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Archive selects how a project is packed
type Archive string

const (
	ArchiveNone Archive = "none"
	ArchiveGzip Archive = "gzip"
	ArchiveZstd Archive = "zstd"
)

// ParseArchive validates an archive name; empty means none
func ParseArchive(name string) (Archive, error) {
	switch a := Archive(strings.ToLower(strings.TrimSpace(name))); a {
	case "", ArchiveNone:
		return ArchiveNone, nil
	case ArchiveGzip, "gz", "tar.gz":
		return ArchiveGzip, nil
	case ArchiveZstd, "zst", "tar.zst":
		return ArchiveZstd, nil
	}
	return "", fmt.Errorf("unsupported archive %q (want none, gzip or zstd)", name)
}

// Extension returns the file suffix for the archive
func (a Archive) Extension() string {
	switch a {
	case ArchiveGzip:
		return ".tar.gz"
	case ArchiveZstd:
		return ".tar.zst"
	default:
		return ""
	}
}

// modTime is fixed so equal projects pack to equal bytes
var modTime = time.Unix(0, 0).UTC()

// WriteArchive packs files into a tar stream compressed as requested.
// Entries keep emission order.
func WriteArchive(w io.Writer, files []types.File, archive Archive) (err error) {
	var sink io.WriteCloser
	switch archive {
	case ArchiveGzip:
		sink = gzip.NewWriter(w)
	case ArchiveZstd:
		zw, zerr := zstd.NewWriter(w)
		if zerr != nil {
			return fmt.Errorf("zstd writer: %w", zerr)
		}
		sink = zw
	case ArchiveNone, "":
		sink = nopCloser{w}
	default:
		return fmt.Errorf("unsupported archive %q", archive)
	}
	defer func() {
		if cerr := sink.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s stream: %w", archive, cerr)
		}
	}()

	tw := tar.NewWriter(sink)
	for _, f := range files {
		if err := paths.ValidateRelative(f.Path); err != nil {
			return err
		}
		header := &tar.Header{
			Name:    f.Path,
			Mode:    0o644,
			Size:    int64(len(f.Content)),
			ModTime: modTime,
			Format:  tar.FormatPAX,
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("tar header %s: %w", f.Path, err)
		}
		if _, err := io.WriteString(tw, f.Content); err != nil {
			return fmt.Errorf("tar write %s: %w", f.Path, err)
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	return nil
}

// ReadArchive unpacks a stream written by WriteArchive
func ReadArchive(r io.Reader, archive Archive) ([]types.File, error) {
	var source io.Reader
	switch archive {
	case ArchiveGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		source = gz
	case ArchiveZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		source = zr
	default:
		source = r
	}

	var files []types.File
	tr := tar.NewReader(source)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return files, nil
		}
		if err != nil {
			return nil, fmt.Errorf("tar read: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		var b strings.Builder
		if _, err := io.Copy(&b, tr); err != nil {
			return nil, fmt.Errorf("tar read %s: %w", header.Name, err)
		}
		files = append(files, types.File{Path: header.Name, Content: b.String()})
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
