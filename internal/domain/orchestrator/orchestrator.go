package orchestrator

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/capsulec/internal/domain/compiler"
	"github.com/GriffinCanCode/capsulec/internal/domain/composition"
	"github.com/GriffinCanCode/capsulec/internal/domain/registry"
	"github.com/GriffinCanCode/capsulec/internal/domain/schema"
	"github.com/GriffinCanCode/capsulec/internal/domain/template"
	"github.com/GriffinCanCode/capsulec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

const (
	DefaultParallelism = 4
	DefaultCacheSize   = 128
)

// Source hands out the registry snapshot a compile runs against
type Source interface {
	Snapshot() *registry.Snapshot
}

// Observer receives per-compile measurements
type Observer interface {
	CompileFinished(result *types.CompilationResult, duration time.Duration)
	CacheLookup(platform types.Platform, hit bool)
	StateEntered(platform types.Platform, state string)
}

// Options configures an Orchestrator
type Options struct {
	Parallelism int
	// CacheSize of zero disables the result cache
	CacheSize int
	Hash      utils.HashAlgorithm
	PropMode  schema.Mode
	Logger    *zap.Logger
	Observer  Observer
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		Parallelism: DefaultParallelism,
		CacheSize:   DefaultCacheSize,
		Hash:        utils.SHA256,
		PropMode:    schema.ModeStrict,
	}
}

// Orchestrator validates compositions and fans compiles out across targets
type Orchestrator struct {
	source      Source
	compilers   map[types.Platform]compiler.Compiler
	builder     *composition.Builder
	cache       *lru.Cache[string, *types.CompilationResult]
	hasher      *utils.Hasher
	parallelism int
	logger      *zap.Logger
	observer    Observer
}

// New creates an orchestrator over source
func New(source Source, opts Options) (*Orchestrator, error) {
	if source == nil {
		return nil, fmt.Errorf("registry source is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	if opts.Hash == "" {
		opts.Hash = utils.SHA256
	}

	o := &Orchestrator{
		source:      source,
		compilers:   make(map[types.Platform]compiler.Compiler, len(types.AllPlatforms)),
		builder:     composition.NewBuilder(schema.NewValidator(opts.PropMode)).WithLogger(opts.Logger),
		hasher:      utils.NewHasher(opts.Hash),
		parallelism: opts.Parallelism,
		logger:      opts.Logger,
		observer:    opts.Observer,
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *types.CompilationResult](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		o.cache = cache
	}

	renderer := template.NewRenderer()
	compilerOpts := []compiler.Option{
		compiler.WithLogger(opts.Logger),
		compiler.WithRenderer(renderer),
	}
	if o.observer != nil {
		compilerOpts = append(compilerOpts, compiler.WithStateHook(func(p types.Platform, _, to compiler.State) {
			o.observer.StateEntered(p, string(to))
		}))
	}
	for _, p := range compiler.Platforms() {
		c, err := compiler.New(p, compilerOpts...)
		if err != nil {
			return nil, err
		}
		o.compilers[p] = c
	}

	return o, nil
}

// Build validates app against the current registry snapshot. Every issue
// found is returned together in a ValidationError.
func (o *Orchestrator) Build(app *types.AppComposition) (*composition.Composition, error) {
	return o.builder.Build(app, o.source.Snapshot())
}

// CompileForPlatform compiles comp for one platform. Every call returns a
// result the caller owns, cached or not.
func (o *Orchestrator) CompileForPlatform(comp *composition.Composition, platform types.Platform) (*types.CompilationResult, error) {
	c, ok := o.compilers[platform]
	if !ok {
		return nil, errors.NewUnknownPlatform(string(platform))
	}
	return o.compile(c, comp, o.source.Snapshot()), nil
}

// CompileAll compiles comp for each of its targets in parallel and returns
// the results in target order. Targets share one registry snapshot. An
// unknown target yields a failed result and does not affect the others.
func (o *Orchestrator) CompileAll(comp *composition.Composition) []*types.CompilationResult {
	if comp == nil {
		return nil
	}
	targets := comp.Targets()
	snap := o.source.Snapshot()
	results := make([]*types.CompilationResult, len(targets))

	var g errgroup.Group
	g.SetLimit(o.parallelism)
	for i, platform := range targets {
		c, ok := o.compilers[platform]
		if !ok {
			results[i] = unknownPlatformResult(platform)
			o.logger.Warn("Skipping unknown target", logging.Platform(platform))
			continue
		}
		g.Go(func() error {
			results[i] = o.compile(c, comp, snap)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (o *Orchestrator) compile(c compiler.Compiler, comp *composition.Composition, snap *registry.Snapshot) *types.CompilationResult {
	platform := c.Platform()
	key := o.cacheKey(comp, platform, snap)

	if key != "" {
		if cached, ok := o.cache.Get(key); ok {
			o.lookup(platform, true)
			o.logger.Debug("Compilation served from cache",
				logging.Platform(platform),
				zap.String("key", utils.ShortHash(key)),
			)
			return cached.Clone()
		}
		o.lookup(platform, false)
	}

	start := time.Now()
	result := c.Compile(comp, snap)
	if o.observer != nil {
		o.observer.CompileFinished(result, time.Since(start))
	}

	if key != "" {
		o.cache.Add(key, result.Clone())
	}
	return result
}

// cacheKey hashes the normalized composition with the platform and the
// registry version; empty when caching is off or the input cannot be hashed
func (o *Orchestrator) cacheKey(comp *composition.Composition, platform types.Platform, snap *registry.Snapshot) string {
	if o.cache == nil || comp == nil {
		return ""
	}
	appHash, err := o.hasher.HashJSON(comp.App())
	if err != nil {
		logging.ForPlatform(o.logger, platform).Warn("Composition could not be hashed, skipping cache", zap.Error(err))
		return ""
	}
	return o.hasher.HashFields(
		"app="+appHash,
		"platform="+string(platform),
		fmt.Sprintf("registry=%d", snap.Version()),
	)
}

func (o *Orchestrator) lookup(platform types.Platform, hit bool) {
	if o.observer != nil {
		o.observer.CacheLookup(platform, hit)
	}
}

// CacheLen reports the number of cached results
func (o *Orchestrator) CacheLen() int {
	if o.cache == nil {
		return 0
	}
	return o.cache.Len()
}

// Purge drops every cached result
func (o *Orchestrator) Purge() {
	if o.cache != nil {
		o.cache.Purge()
	}
}

func unknownPlatformResult(platform types.Platform) *types.CompilationResult {
	return &types.CompilationResult{
		Platform:     platform,
		Status:       types.StatusFailed,
		Files:        []types.File{},
		Dependencies: []types.Dependency{},
		Warnings:     []*errors.Issue{},
		Errors:       []*errors.Issue{errors.NewUnknownPlatform(string(platform))},
	}
}
