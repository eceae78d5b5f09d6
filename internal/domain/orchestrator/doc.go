// Package orchestrator is the entry point for compiling a composition.
//
// Build validates an AppComposition against the current registry snapshot.
// CompileAll then compiles the result for every target in parallel, bounded
// by Options.Parallelism, and returns the results in target order. All
// targets of one call see the same snapshot, so a catalog reload mid-compile
// cannot produce a mixed build.
//
// Results are cached by a hash of the normalized composition, the platform
// and the registry version. Any registry mutation bumps the version and
// therefore misses the cache.
package orchestrator
