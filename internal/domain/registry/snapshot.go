package registry

import (
	"sort"

	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Lookup is the read-only view compilers resolve capsules through
type Lookup interface {
	Get(id string) (*types.CapsuleDefinition, bool)
	SupportsPlatform(id string, platform types.Platform) bool
	Version() uint64
}

// Snapshot is an immutable view of the registry at one version.
// Definitions returned from a snapshot must be treated as read-only.
type Snapshot struct {
	capsules map[string]*types.CapsuleDefinition
	ids      []string
	version  uint64
}

// NewSnapshot builds a standalone snapshot, mainly for tests and fakes.
// Definitions are cloned; invalid ones are rejected.
func NewSnapshot(defs ...types.CapsuleDefinition) (*Snapshot, error) {
	capsules := make(map[string]*types.CapsuleDefinition, len(defs))
	for i := range defs {
		if err := defs[i].Validate(); err != nil {
			return nil, err
		}
		capsules[defs[i].ID] = defs[i].Clone()
	}
	return newSnapshot(capsules, 1), nil
}

func newSnapshot(capsules map[string]*types.CapsuleDefinition, version uint64) *Snapshot {
	ids := make([]string, 0, len(capsules))
	for id := range capsules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Snapshot{
		capsules: capsules,
		ids:      ids,
		version:  version,
	}
}

// Version returns the registry version this snapshot was taken at
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of capsules
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// Get retrieves a capsule by id
func (s *Snapshot) Get(id string) (*types.CapsuleDefinition, bool) {
	def, ok := s.capsules[id]
	return def, ok
}

// SupportsPlatform reports whether capsule id implements platform
func (s *Snapshot) SupportsPlatform(id string, platform types.Platform) bool {
	def, ok := s.capsules[id]
	if !ok {
		return false
	}
	_, ok = def.Platforms[platform]
	return ok
}

// List returns every capsule sorted by id
func (s *Snapshot) List() []*types.CapsuleDefinition {
	return s.filter(func(*types.CapsuleDefinition) bool { return true })
}

// ListByCategory returns capsules in category, sorted by id
func (s *Snapshot) ListByCategory(category string) []*types.CapsuleDefinition {
	return s.filter(func(def *types.CapsuleDefinition) bool { return def.Category == category })
}

// ListByTag returns capsules carrying tag, sorted by id
func (s *Snapshot) ListByTag(tag string) []*types.CapsuleDefinition {
	return s.filter(func(def *types.CapsuleDefinition) bool { return def.HasTag(tag) })
}

// Stats returns registry statistics
func (s *Snapshot) Stats() types.RegistryStats {
	stats := types.RegistryStats{
		TotalCapsules: len(s.ids),
		Categories:    make(map[string]int),
		Platforms:     make(map[types.Platform]int),
		Version:       s.version,
	}
	for _, id := range s.ids {
		def := s.capsules[id]
		stats.Categories[def.Category]++
		for p := range def.Platforms {
			stats.Platforms[p]++
		}
	}
	return stats
}

func (s *Snapshot) filter(keep func(*types.CapsuleDefinition) bool) []*types.CapsuleDefinition {
	out := make([]*types.CapsuleDefinition, 0, len(s.ids))
	for _, id := range s.ids {
		if def := s.capsules[id]; keep(def) {
			out = append(out, def)
		}
	}
	return out
}
