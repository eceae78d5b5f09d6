package composition

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/domain/registry"
	"github.com/GriffinCanCode/capsulec/internal/domain/schema"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Builder validates an AppComposition against a registry view and produces
// the arena form compilers walk.
type Builder struct {
	validator *schema.Validator
	logger    *zap.Logger
}

// NewBuilder creates a builder; a nil validator selects strict mode
func NewBuilder(validator *schema.Validator) *Builder {
	if validator == nil {
		validator = schema.NewValidator(schema.ModeStrict)
	}
	return &Builder{validator: validator, logger: zap.NewNop()}
}

// WithLogger attaches a logger
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Build walks the tree depth-first and collects every issue before failing.
// The input is not modified. Instances without an id get "<capsuleId>-<n>",
// skipping ids already used explicitly.
func (b *Builder) Build(app *types.AppComposition, lookup registry.Lookup) (*Composition, error) {
	if app == nil {
		return nil, &errors.ValidationError{Issues: []*errors.Issue{errors.NewInvalidComposition("composition is required")}}
	}

	w := &walker{
		validator: b.validator,
		lookup:    lookup,
		index:     make(map[string]int, app.CountInstances()),
		taken:     explicitIDs(app.Root),
		counters:  make(map[string]int),
	}

	if strings.TrimSpace(app.AppName) == "" {
		w.issues = append(w.issues, errors.NewInvalidComposition("appName is required"))
	}

	normalized := types.AppComposition{
		AppName: strings.TrimSpace(app.AppName),
		Theme:   copyTheme(app.Theme),
		Targets: dedupTargets(app.Targets),
	}
	normalized.Root = w.walk(app.Root, NoParent, 0)

	if len(w.issues) > 0 {
		b.logger.Debug("Composition rejected",
			zap.String("app", app.AppName),
			zap.Int("issues", len(w.issues)),
		)
		return nil, &errors.ValidationError{Issues: w.issues}
	}

	b.logger.Debug("Composition built",
		zap.String("app", normalized.AppName),
		zap.Int("instances", len(w.nodes)),
		zap.Uint64("registry_version", lookup.Version()),
	)

	return &Composition{
		app:             normalized,
		nodes:           w.nodes,
		roots:           w.roots,
		index:           w.index,
		registryVersion: lookup.Version(),
	}, nil
}

type walker struct {
	validator *schema.Validator
	lookup    registry.Lookup

	nodes    []Node
	roots    []int
	index    map[string]int
	taken    map[string]bool
	counters map[string]int
	issues   []*errors.Issue
}

// walk appends the subtree in pre-order and returns the normalized instances
func (w *walker) walk(list []types.CapsuleInstance, parent, depth int) []types.CapsuleInstance {
	out := make([]types.CapsuleInstance, 0, len(list))

	for pos, inst := range list {
		capsuleID := strings.TrimSpace(inst.CapsuleID)
		instanceID := strings.TrimSpace(inst.InstanceID)

		if capsuleID == "" {
			w.issues = append(w.issues, errors.NewInvalidComposition(
				fmt.Sprintf("instance %q has no capsule id", instanceID)))
		}
		if instanceID == "" {
			instanceID = w.generateID(capsuleID)
		}

		idx := len(w.nodes)
		if _, dup := w.index[instanceID]; dup {
			w.issues = append(w.issues, errors.NewDuplicateInstance(instanceID))
		} else {
			w.index[instanceID] = idx
		}

		props := map[string]interface{}{}
		if def, ok := w.lookup.Get(capsuleID); ok {
			res := w.validator.Validate(def, instanceID, inst.Props)
			w.issues = append(w.issues, res.Violations...)
			props = res.Props
			if len(inst.Children) > 0 && !def.Children {
				w.issues = append(w.issues, errors.NewChildrenNotAllowed(instanceID, capsuleID, len(inst.Children)))
			}
		} else if capsuleID != "" {
			w.issues = append(w.issues, errors.NewUnknownCapsule(instanceID, capsuleID))
		}

		w.nodes = append(w.nodes, Node{
			Index:      idx,
			InstanceID: instanceID,
			CapsuleID:  capsuleID,
			Props:      props,
			Parent:     parent,
			Depth:      depth,
			Position:   pos,
		})
		if parent == NoParent {
			w.roots = append(w.roots, idx)
		} else {
			w.nodes[parent].Children = append(w.nodes[parent].Children, idx)
		}

		children := w.walk(inst.Children, idx, depth+1)

		normalized := types.CapsuleInstance{
			InstanceID: instanceID,
			CapsuleID:  capsuleID,
			Props:      copyProps(props),
		}
		if len(children) > 0 {
			normalized.Children = children
		}
		out = append(out, normalized)
	}

	return out
}

func (w *walker) generateID(capsuleID string) string {
	base := capsuleID
	if base == "" {
		base = "instance"
	}
	for {
		w.counters[base]++
		id := fmt.Sprintf("%s-%d", base, w.counters[base])
		if !w.taken[id] {
			w.taken[id] = true
			return id
		}
	}
}

func explicitIDs(list []types.CapsuleInstance) map[string]bool {
	ids := make(map[string]bool)
	var collect func([]types.CapsuleInstance)
	collect = func(list []types.CapsuleInstance) {
		for _, inst := range list {
			if id := strings.TrimSpace(inst.InstanceID); id != "" {
				ids[id] = true
			}
			collect(inst.Children)
		}
	}
	collect(list)
	return ids
}

func dedupTargets(targets []types.Platform) []types.Platform {
	if len(targets) == 0 {
		return nil
	}
	seen := make(map[types.Platform]bool, len(targets))
	out := make([]types.Platform, 0, len(targets))
	for _, t := range targets {
		if p, ok := types.ParsePlatform(string(t)); ok {
			t = p
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func copyTheme(t types.Theme) types.Theme {
	cp := func(m map[string]string) map[string]string {
		if m == nil {
			return nil
		}
		out := make(map[string]string, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	return types.Theme{Colors: cp(t.Colors), Typography: cp(t.Typography)}
}

func copyProps(props map[string]interface{}) map[string]interface{} {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = types.CloneValue(v)
	}
	return out
}
