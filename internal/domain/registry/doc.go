// Package registry provides the capsule catalog the compiler resolves
// instances against.
//
// The registry holds immutable CapsuleDefinitions keyed by id. Writers
// (Register, Unregister) are serialized; every write publishes a fresh
// immutable Snapshot, so readers never lock and an in-flight compile sees a
// consistent catalog for its whole run.
//
// Components:
//   - Manager: Process-wide catalog with copy-on-write snapshots
//   - Snapshot: Immutable, versioned view satisfying Lookup
//   - Seeder: Loads capsule files (YAML, JSON, TOML) from a catalog directory
//   - Watcher: Re-seeds when catalog files change
//
// Example Usage:
//
//	manager := registry.NewManager()
//	err := manager.Register(def)
//	def, ok := manager.Get("button")
//	snap := manager.Snapshot()
//	forms := snap.ListByCategory("forms")
package registry
