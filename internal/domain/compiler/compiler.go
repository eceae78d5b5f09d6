package compiler

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/domain/composition"
	"github.com/GriffinCanCode/capsulec/internal/domain/deps"
	"github.com/GriffinCanCode/capsulec/internal/domain/registry"
	"github.com/GriffinCanCode/capsulec/internal/domain/template"
	"github.com/GriffinCanCode/capsulec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/id"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Compiler produces a CompilationResult for one platform
type Compiler interface {
	Platform() types.Platform
	Compile(comp *composition.Composition, lookup registry.Lookup) *types.CompilationResult
}

// Target specializes the shared pipeline for one platform
type Target interface {
	Platform() types.Platform
	// Reserved lists identifiers generated components may not take
	Reserved(p *Project) []string
	// Baseline lists dependencies every project of the target needs
	Baseline() []string
	ComponentPath(p *Project, name string) string
	WrapComponent(p *Project, c *Component, body string) string
	// Package emits the fixed project files
	Package(p *Project) ([]types.File, error)
}

// Option configures a Base compiler
type Option func(*Base)

// WithLogger attaches a logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRenderer shares a renderer (and its parsed template cache)
func WithRenderer(r *template.Renderer) Option {
	return func(b *Base) {
		if r != nil {
			b.renderer = r
		}
	}
}

// WithStateHook observes state transitions
func WithStateHook(hook StateHook) Option {
	return func(b *Base) {
		b.hook = hook
	}
}

// Base runs the shared compile pipeline around a Target
type Base struct {
	target     Target
	renderer   *template.Renderer
	aggregator *deps.Aggregator
	logger     *zap.Logger
	hook       StateHook
}

// NewBase creates a compiler for target
func NewBase(target Target, opts ...Option) *Base {
	b := &Base{
		target:   target,
		renderer: template.NewRenderer(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.aggregator = deps.NewAggregator(b.logger)
	return b
}

// Platform returns the target platform
func (b *Base) Platform() types.Platform {
	return b.target.Platform()
}

// run is the mutable state of one compile call
type run struct {
	base     *Base
	state    State
	result   *types.CompilationResult
	warnSeen map[string]bool
}

func (r *run) transition(to State) {
	if !CanTransition(r.state, to) {
		r.base.logger.Error("Illegal compiler state transition",
			logging.Platform(r.base.Platform()),
			zap.String("from", string(r.state)),
			zap.String("to", string(to)),
		)
	}
	from := r.state
	r.state = to
	if r.base.hook != nil {
		r.base.hook(r.base.Platform(), from, to)
	}
}

func (r *run) warn(issues ...*errors.Issue) {
	for _, issue := range issues {
		if key := issue.Key(); !r.warnSeen[key] {
			r.warnSeen[key] = true
			r.result.Warnings = append(r.result.Warnings, issue)
		}
	}
}

func (r *run) fail(issue *errors.Issue) {
	r.result.Errors = append(r.result.Errors, issue)
}

// plan is the per-node outcome of the validating stage
type plan struct {
	defs  []*types.CapsuleDefinition
	names []string // empty when the node emits no component
}

// Compile runs the pipeline. It never panics on bad input and always
// returns a fresh result.
func (b *Base) Compile(comp *composition.Composition, lookup registry.Lookup) *types.CompilationResult {
	start := time.Now()
	platform := b.Platform()
	buildID := id.NewBuildID()

	r := &run{
		base:  b,
		state: StatePending,
		result: &types.CompilationResult{
			Platform:     platform,
			Files:        []types.File{},
			Dependencies: []types.Dependency{},
			Warnings:     []*errors.Issue{},
			Errors:       []*errors.Issue{},
		},
		warnSeen: make(map[string]bool),
	}

	r.transition(StateValidating)
	if comp == nil {
		r.fail(errors.NewInvalidComposition("composition is required"))
		r.transition(StateRendering)
		r.transition(StateAggregating)
		return b.finish(r, buildID, start)
	}
	project := newProject(platform, comp.AppName(), comp.Theme())
	pl := b.validate(r, comp, lookup, project)

	r.transition(StateRendering)
	b.render(r, comp, pl, project)

	r.transition(StateAggregating)
	uses := make([]deps.Use, 0, comp.Len())
	for i, node := range comp.Nodes() {
		if pl.defs[i] != nil {
			uses = append(uses, deps.Use{InstanceID: node.InstanceID, CapsuleID: node.CapsuleID})
		}
	}
	var baseline []string
	if len(project.Components) > 0 {
		baseline = b.target.Baseline()
	}
	manifest := b.aggregator.Aggregate(lookup, uses, platform, baseline...)
	r.result.Dependencies = manifest.Dependencies
	r.warn(manifest.Warnings...)
	project.Dependencies = manifest.Dependencies

	if len(r.result.Errors) == 0 {
		r.transition(StatePackaging)
		b.pack(r, project)
	}

	return b.finish(r, buildID, start)
}

// validate resolves every node against the lookup and assigns component
// identifiers before anything is rendered
func (b *Base) validate(r *run, comp *composition.Composition, lookup registry.Lookup, project *Project) *plan {
	platform := b.Platform()
	nodes := comp.Nodes()
	pl := &plan{
		defs:  make([]*types.CapsuleDefinition, len(nodes)),
		names: make([]string, len(nodes)),
	}
	n := newNamer(b.target.Reserved(project)...)

	for i, node := range nodes {
		def, ok := lookup.Get(node.CapsuleID)
		if !ok {
			r.fail(errors.NewUnknownCapsule(node.InstanceID, node.CapsuleID))
			continue
		}
		pl.defs[i] = def
		if _, supported := def.Implementation(platform); supported {
			pl.names[i] = n.name(ComponentName(node.CapsuleID, node.InstanceID))
		}
	}
	return pl
}

// render emits one component per supported node, parents before children
func (b *Base) render(r *run, comp *composition.Composition, pl *plan, project *Project) {
	platform := b.Platform()

	for i, node := range comp.Nodes() {
		def := pl.defs[i]
		if def == nil {
			continue
		}
		impl, supported := def.Implementation(platform)
		if !supported {
			r.warn(errors.NewUnsupportedOnPlatform(node.InstanceID, node.CapsuleID, string(platform)))
			continue
		}

		children := make([]string, 0, len(node.Children))
		for _, c := range node.Children {
			if pl.names[c] != "" {
				children = append(children, pl.names[c])
			}
		}

		body, issue := b.renderer.Render(impl, template.Input{
			Capsule:    def,
			Platform:   platform,
			InstanceID: node.InstanceID,
			Name:       pl.names[i],
			Props:      node.Props,
			Children:   children,
			Theme:      project.Theme,
			AppName:    project.AppName,
		})
		if issue != nil {
			r.fail(issue)
			b.logger.Debug("Instance failed to render",
				logging.Platform(platform),
				logging.InstanceID(node.InstanceID),
				logging.CapsuleID(node.CapsuleID),
				logging.IssueCode(issue.Code),
			)
			continue
		}

		c := &Component{
			Name:           pl.names[i],
			InstanceID:     node.InstanceID,
			CapsuleID:      node.CapsuleID,
			CapsuleVersion: def.Version,
			Framework:      impl.Framework,
			MinVersion:     impl.MinVersion,
			Path:           b.target.ComponentPath(project, pl.names[i]),
			Imports:        impl.Imports,
			Children:       children,
			Placed:         node.Parent == composition.NoParent || pl.names[node.Parent] == "",
		}
		project.Components = append(project.Components, c)
		r.result.Files = append(r.result.Files, types.File{
			Path:    c.Path,
			Content: b.target.WrapComponent(project, c, body),
		})
	}
}

// pack adds the project files. A compile that emitted no component has no
// project to package.
func (b *Base) pack(r *run, project *Project) {
	if len(project.Components) == 0 {
		return
	}

	files, err := b.target.Package(project)
	if err != nil {
		r.fail(errors.NewPackagingFailed(string(b.Platform()), "project files", err))
		return
	}
	record, err := buildRecordFile(project)
	if err != nil {
		r.fail(errors.NewPackagingFailed(string(b.Platform()), "build record", err))
		return
	}
	r.result.Files = append(r.result.Files, files...)
	r.result.Files = append(r.result.Files, record)
}

func (b *Base) finish(r *run, buildID id.BuildID, start time.Time) *types.CompilationResult {
	r.result.Status = types.StatusFor(len(r.result.Warnings), len(r.result.Errors))
	r.transition(finalState(r.result.Status))

	b.logger.Info("Compilation finished",
		logging.BuildID(buildID),
		logging.Platform(b.Platform()),
		logging.Status(r.result.Status),
		zap.Int("files", len(r.result.Files)),
		zap.Int("warnings", len(r.result.Warnings)),
		zap.Int("errors", len(r.result.Errors)),
		zap.Duration("duration", time.Since(start)),
	)
	return r.result
}
