package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Mode controls how bindings for undeclared props are treated
type Mode string

const (
	// ModeStrict reports undeclared props as UNKNOWN_PROP
	ModeStrict Mode = "strict"
	// ModeLenient silently drops undeclared props
	ModeLenient Mode = "lenient"
)

// ParseMode parses a mode name; the empty string selects strict
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModeLenient:
		return ModeLenient, nil
	}
	return "", fmt.Errorf("unknown prop mode %q (want strict or lenient)", s)
}

// Result is the outcome of validating one instance's bindings
type Result struct {
	// Violations in deterministic order
	Violations []*errors.Issue
	// Props holds the accepted bindings, normalized, without nil values
	// and without undeclared keys
	Props map[string]interface{}
}

// OK reports whether no violation was found
func (r *Result) OK() bool {
	return len(r.Violations) == 0
}

// Validator checks bound props against a capsule schema
type Validator struct {
	mode Mode
}

// NewValidator creates a validator; an unrecognized mode falls back to strict
func NewValidator(mode Mode) *Validator {
	if mode != ModeLenient {
		mode = ModeStrict
	}
	return &Validator{mode: mode}
}

// Mode returns the validator's unknown-prop mode
func (v *Validator) Mode() Mode {
	return v.mode
}

// Validate checks bindings for one instance of def.
// An explicit nil binding counts as not bound.
func (v *Validator) Validate(def *types.CapsuleDefinition, instanceID string, bound map[string]interface{}) *Result {
	res := &Result{Props: make(map[string]interface{}, len(bound))}

	values := make(map[string]interface{}, len(bound))
	for k, val := range bound {
		if val != nil {
			values[k] = types.NormalizeValue(val)
		}
	}

	for _, spec := range def.Props {
		if !spec.Required || spec.HasDefault() {
			continue
		}
		if _, ok := values[spec.Name]; !ok {
			res.Violations = append(res.Violations, errors.NewMissingRequiredProp(instanceID, def.ID, spec.Name))
		}
	}

	unknown := make([]string, 0)
	for k := range values {
		if _, declared := def.Prop(k); !declared {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		delete(values, k)
		if v.mode == ModeStrict {
			res.Violations = append(res.Violations, errors.NewUnknownProp(instanceID, def.ID, k))
		}
	}

	for _, spec := range def.Props {
		val, ok := values[spec.Name]
		if !ok || spec.Type != types.PropEnum {
			continue
		}
		if !types.ContainsValue(spec.Options, val) {
			res.Violations = append(res.Violations,
				errors.NewInvalidOption(instanceID, def.ID, spec.Name, val, spec.Options))
		}
	}

	for _, spec := range def.Props {
		val, ok := values[spec.Name]
		if !ok || spec.Type == types.PropEnum {
			continue
		}
		if !types.MatchesType(spec.Type, val) {
			res.Violations = append(res.Violations,
				errors.NewTypeMismatch(instanceID, def.ID, spec.Name, string(spec.Type), types.KindOf(val)))
		}
	}

	for k, val := range values {
		res.Props[k] = val
	}
	return res
}

// Resolve merges bound props over the schema defaults. The result is a
// fresh map; nil bindings do not shadow defaults.
func Resolve(def *types.CapsuleDefinition, bound map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(def.Props)+len(bound))
	for k, val := range def.Defaults() {
		out[k] = types.CloneValue(types.NormalizeValue(val))
	}
	for k, val := range bound {
		if val == nil {
			continue
		}
		out[k] = types.CloneValue(types.NormalizeValue(val))
	}
	return out
}
