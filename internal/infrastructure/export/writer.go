package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/capsulec/internal/shared/paths"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Output describes what was written for one platform
type Output struct {
	Platform types.Platform `json:"platform"`
	// Path is the project directory or archive file
	Path  string `json:"path"`
	Files int    `json:"files"`
}

// Writer materializes compilation results under a root directory, one
// subdirectory (or archive) per platform
type Writer struct {
	root    string
	archive Archive
	logger  *zap.Logger
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string, archive Archive, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if archive == "" {
		archive = ArchiveNone
	}
	return &Writer{root: dir, archive: archive, logger: logger}
}

// Write stores result. Every path is checked before anything touches the
// disk, so a bad path leaves no partial project behind.
func (w *Writer) Write(result *types.CompilationResult) (*Output, error) {
	for _, f := range result.Files {
		if err := paths.ValidateRelative(f.Path); err != nil {
			return nil, fmt.Errorf("%s: %w", result.Platform, err)
		}
	}
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		out *Output
		err error
	)
	if w.archive == ArchiveNone {
		out, err = w.writeTree(result)
	} else {
		out, err = w.writeArchive(result)
	}
	if err != nil {
		return nil, err
	}

	w.logger.Info("Project written",
		logging.Platform(result.Platform),
		zap.String("path", out.Path),
		zap.Int("files", out.Files),
	)
	return out, nil
}

func (w *Writer) writeTree(result *types.CompilationResult) (*Output, error) {
	dir := filepath.Join(w.root, string(result.Platform))
	for _, f := range result.Files {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return &Output{Platform: result.Platform, Path: dir, Files: len(result.Files)}, nil
}

func (w *Writer) writeArchive(result *types.CompilationResult) (*Output, error) {
	target := filepath.Join(w.root, string(result.Platform)+w.archive.Extension())
	tmp, err := os.CreateTemp(w.root, ".capsule-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteArchive(tmp, result.Files, w.archive); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return nil, fmt.Errorf("failed to move archive into place: %w", err)
	}
	return &Output{Platform: result.Platform, Path: target, Files: len(result.Files)}, nil
}
