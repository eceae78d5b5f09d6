package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/capsulec/internal/shared/codec"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

// DefaultPattern selects every catalog file under the catalog directory
const DefaultPattern = "**/*.{yaml,yml,json,toml,hcl}"

// catalogDocument is a file holding several capsules
type catalogDocument struct {
	Capsules []types.CapsuleDefinition `json:"capsules"`
}

// LoadReport summarizes one seeding pass
type LoadReport struct {
	Files   int
	Loaded  int
	Failed  int
	Removed int
	// Retained counts capsules kept from an earlier pass because their file
	// failed to load this time
	Retained int
	Errors   []error
}

// Seeder loads capsule definitions from a catalog directory into a Manager.
// It remembers which capsules it loaded, so a later Load also unregisters
// capsules whose files were deleted.
type Seeder struct {
	manager *Manager
	dir     string
	pattern string
	sizes   *utils.SizeValidator
	logger  *zap.Logger

	mu     sync.Mutex
	seeded map[string]string // capsule id -> source file
}

// NewSeeder creates a catalog seeder
func NewSeeder(manager *Manager, dir, pattern string) *Seeder {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Seeder{
		manager: manager,
		dir:     dir,
		pattern: pattern,
		sizes:   utils.NewSizeValidator(utils.MaxCatalogFileSize),
		logger:  zap.NewNop(),
		seeded:  make(map[string]string),
	}
}

// WithLogger attaches a logger
func (s *Seeder) WithLogger(logger *zap.Logger) *Seeder {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMaxFileSize overrides the per-file size limit
func (s *Seeder) WithMaxFileSize(bytes int) *Seeder {
	s.sizes = utils.NewSizeValidator(bytes)
	return s
}

// Dir returns the catalog directory
func (s *Seeder) Dir() string {
	return s.dir
}

// Load (re)loads every matching catalog file. Files are applied in sorted
// path order, so when two files define the same id the later path wins.
// A broken file is counted and logged but never aborts the pass.
func (s *Seeder) Load() (*LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &LoadReport{}

	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Warn("Capsule catalog directory not found", zap.String("dir", s.dir))
		s.removeStale(map[string]string{}, report)
		return report, nil
	}

	files, err := s.discover()
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog %s: %w", s.dir, err)
	}
	report.Files = len(files)

	found := make(map[string]string)
	for _, path := range files {
		defs, err := s.loadFile(path)
		if err != nil {
			s.logger.Warn("Failed to load capsule file", logging.File(path), zap.Error(err))
			report.Failed++
			report.Errors = append(report.Errors, err)
			for id, src := range s.seeded {
				if src == path {
					s.retain(found, id, path, report)
				}
			}
			continue
		}

		for _, def := range defs {
			if err := s.manager.Register(def); err != nil {
				s.logger.Warn("Rejected capsule definition",
					logging.File(path),
					logging.CapsuleID(def.ID),
					zap.Error(err),
				)
				report.Failed++
				report.Errors = append(report.Errors, fmt.Errorf("%s: %w", path, err))
				if s.seeded[def.ID] == path {
					s.retain(found, def.ID, path, report)
				}
				continue
			}
			found[def.ID] = path
			report.Loaded++
		}
	}

	s.removeStale(found, report)

	s.logger.Info("Capsule catalog seeded",
		zap.String("dir", s.dir),
		zap.Int("files", report.Files),
		zap.Int("loaded", report.Loaded),
		zap.Int("failed", report.Failed),
		zap.Int("removed", report.Removed),
		zap.Int("retained", report.Retained),
	)
	return report, nil
}

// retain keeps the last good definition of id, loaded from path on an
// earlier pass, unless another file already redefined it
func (s *Seeder) retain(found map[string]string, id, path string, report *LoadReport) {
	if _, ok := found[id]; ok {
		return
	}
	found[id] = path
	report.Retained++
}

// removeStale unregisters capsules this seeder loaded earlier that no file
// defines anymore. Must be called with mu held.
func (s *Seeder) removeStale(found map[string]string, report *LoadReport) {
	ids := make([]string, 0, len(s.seeded))
	for id := range s.seeded {
		if _, still := found[id]; !still {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if s.manager.Unregister(id) {
			report.Removed++
		}
	}
	s.seeded = found
}

// discover walks the catalog and returns matching files in sorted order
func (s *Seeder) discover() ([]string, error) {
	var (
		mu      sync.Mutex
		matches []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, s.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return nil
		}
		ok, err := doublestar.Match(s.pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			mu.Lock()
			matches = append(matches, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

// loadFile decodes one catalog file holding a single capsule or a
// `capsules` list
func (s *Seeder) loadFile(path string) ([]types.CapsuleDefinition, error) {
	format, ok := codec.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported catalog file type", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := s.sizes.ValidateSize(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ParseCatalog(data, format)
}

// ParseCatalog decodes capsule definitions from a document
func ParseCatalog(data []byte, format codec.Format) ([]types.CapsuleDefinition, error) {
	generic, err := codec.Decode(data, format)
	if err != nil {
		return nil, err
	}

	doc, ok := generic.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("catalog document must be an object")
	}

	if _, multi := doc["capsules"]; multi {
		var catalog catalogDocument
		if err := codec.Convert(doc, &catalog); err != nil {
			return nil, err
		}
		return catalog.Capsules, nil
	}

	var def types.CapsuleDefinition
	if err := codec.Convert(doc, &def); err != nil {
		return nil, err
	}
	return []types.CapsuleDefinition{def}, nil
}
