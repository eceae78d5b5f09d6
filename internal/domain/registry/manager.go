package registry

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Observer is notified after every registry mutation
type Observer interface {
	RegistryChanged(stats types.RegistryStats)
}

// Manager is the process-wide capsule registry.
// Writes are serialized by writeMu and publish a new snapshot; reads load the
// current snapshot without locking.
type Manager struct {
	current  atomic.Pointer[Snapshot]
	writeMu  sync.Mutex
	logger   *zap.Logger
	observer Observer
}

// NewManager creates an empty registry
func NewManager() *Manager {
	m := &Manager{logger: zap.NewNop()}
	m.current.Store(newSnapshot(map[string]*types.CapsuleDefinition{}, 0))
	return m
}

// WithLogger attaches a logger
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithObserver attaches a mutation observer (e.g. metrics)
func (m *Manager) WithObserver(observer Observer) *Manager {
	m.observer = observer
	return m
}

// Register inserts or overwrites a capsule by id.
// Only the schema shape is validated; code templates are opaque.
func (m *Manager) Register(def types.CapsuleDefinition) error {
	if err := def.Validate(); err != nil {
		return errors.NewInvalidCapsule(def.ID, err)
	}
	clone := def.Clone()

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	prev := m.current.Load()
	next := make(map[string]*types.CapsuleDefinition, len(prev.capsules)+1)
	for id, existing := range prev.capsules {
		next[id] = existing
	}
	_, replaced := next[clone.ID]
	next[clone.ID] = clone

	m.publish(newSnapshot(next, prev.version+1))

	m.logger.Debug("Capsule registered",
		logging.CapsuleID(clone.ID),
		zap.String("version", clone.Version),
		zap.Bool("replaced", replaced),
	)
	return nil
}

// RegisterAll registers every definition, stopping at the first invalid one
func (m *Manager) RegisterAll(defs []types.CapsuleDefinition) error {
	for _, def := range defs {
		if err := m.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes a capsule and reports whether it existed
func (m *Manager) Unregister(id string) bool {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	prev := m.current.Load()
	if _, ok := prev.capsules[id]; !ok {
		return false
	}

	next := make(map[string]*types.CapsuleDefinition, len(prev.capsules))
	for existingID, def := range prev.capsules {
		if existingID != id {
			next[existingID] = def
		}
	}
	m.publish(newSnapshot(next, prev.version+1))

	m.logger.Debug("Capsule unregistered", logging.CapsuleID(id))
	return true
}

// Snapshot returns the current immutable view
func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// Get retrieves a capsule by id
func (m *Manager) Get(id string) (*types.CapsuleDefinition, bool) {
	return m.Snapshot().Get(id)
}

// List returns every capsule sorted by id
func (m *Manager) List() []*types.CapsuleDefinition {
	return m.Snapshot().List()
}

// ListByCategory returns capsules in category
func (m *Manager) ListByCategory(category string) []*types.CapsuleDefinition {
	return m.Snapshot().ListByCategory(category)
}

// ListByTag returns capsules carrying tag
func (m *Manager) ListByTag(tag string) []*types.CapsuleDefinition {
	return m.Snapshot().ListByTag(tag)
}

// SupportsPlatform reports whether capsule id implements platform
func (m *Manager) SupportsPlatform(id string, platform types.Platform) bool {
	return m.Snapshot().SupportsPlatform(id, platform)
}

// Version returns the current registry version
func (m *Manager) Version() uint64 {
	return m.Snapshot().Version()
}

// Stats returns registry statistics
func (m *Manager) Stats() types.RegistryStats {
	return m.Snapshot().Stats()
}

// Reset drops every capsule. Used on teardown and by tests.
func (m *Manager) Reset() {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	prev := m.current.Load()
	m.publish(newSnapshot(map[string]*types.CapsuleDefinition{}, prev.version+1))
}

// publish must be called with writeMu held
func (m *Manager) publish(snap *Snapshot) {
	m.current.Store(snap)
	if m.observer != nil {
		m.observer.RegistryChanged(snap.Stats())
	}
}
