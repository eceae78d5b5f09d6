package deps

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/domain/registry"
	"github.com/GriffinCanCode/capsulec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Manifest is the merged dependency set for one platform
type Manifest struct {
	// Dependencies in first-seen order
	Dependencies []types.Dependency
	Warnings     []*errors.Issue
}

// Use is one capsule instance contributing dependencies
type Use struct {
	InstanceID string
	CapsuleID  string
}

// Aggregator merges dependency declarations
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// Aggregate walks uses in order. Capsules that are missing or do not
// support the platform are skipped with an UNSUPPORTED_ON_PLATFORM warning.
// Baseline declarations are merged first.
func (a *Aggregator) Aggregate(lookup registry.Lookup, uses []Use, platform types.Platform, baseline ...string) *Manifest {
	m := newMerger(platform)
	for _, decl := range baseline {
		m.add(decl)
	}

	for _, use := range uses {
		def, ok := lookup.Get(use.CapsuleID)
		if !ok {
			m.warn(errors.NewUnsupportedOnPlatform(use.InstanceID, use.CapsuleID, string(platform)))
			continue
		}
		impl, ok := def.Implementation(platform)
		if !ok {
			m.warn(errors.NewUnsupportedOnPlatform(use.InstanceID, use.CapsuleID, string(platform)))
			continue
		}
		for _, decl := range impl.Dependencies {
			m.add(decl)
		}
	}

	a.logger.Debug("Dependencies aggregated",
		logging.Platform(platform),
		zap.Int("dependencies", len(m.order)),
		zap.Int("conflicts", len(m.warnings)),
	)
	return m.manifest()
}

// Merge folds plain declarations, e.g. a target's baseline dependencies,
// with the same collision policy as Aggregate
func Merge(platform types.Platform, decls ...string) *Manifest {
	m := newMerger(platform)
	for _, d := range decls {
		m.add(d)
	}
	return m.manifest()
}

type merger struct {
	platform types.Platform
	versions map[string]string
	order    []string
	warnings []*errors.Issue
	seen     map[string]bool
}

func newMerger(platform types.Platform) *merger {
	return &merger{
		platform: platform,
		versions: make(map[string]string),
		seen:     make(map[string]bool),
	}
}

func (m *merger) warn(issue *errors.Issue) {
	if key := issue.Key(); !m.seen[key] {
		m.seen[key] = true
		m.warnings = append(m.warnings, issue)
	}
}

// add applies one declaration. Highest version wins; a major version jump
// or an unparseable side also warns, and with an unparseable side the
// first-seen version is kept. An empty version always yields.
func (m *merger) add(decl string) {
	name, version := Parse(decl)
	if name == "" {
		return
	}

	kept, exists := m.versions[name]
	if !exists {
		m.versions[name] = version
		m.order = append(m.order, name)
		return
	}

	switch {
	case version == "" || version == kept:
		return
	case kept == "":
		m.versions[name] = version
		return
	}

	cmp, ok := Compare(kept, version)
	if !ok {
		m.warn(errors.NewVersionConflict(string(m.platform), name, kept, version, "unparseable version, keeping first seen"))
		return
	}
	if !SameMajor(kept, version) {
		winner, loser := kept, version
		if cmp < 0 {
			winner, loser = version, kept
		}
		m.warn(errors.NewVersionConflict(string(m.platform), name, winner, loser, "major versions differ"))
	}
	if cmp < 0 {
		m.versions[name] = version
	}
}

func (m *merger) manifest() *Manifest {
	out := &Manifest{
		Dependencies: make([]types.Dependency, 0, len(m.order)),
		Warnings:     m.warnings,
	}
	for _, name := range m.order {
		out.Dependencies = append(out.Dependencies, types.Dependency{Name: name, Version: m.versions[name]})
	}
	return out
}
