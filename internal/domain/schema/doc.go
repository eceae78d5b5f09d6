// Package schema validates prop bindings against a capsule's prop schema.
//
// A Validator checks, in order: required props that are absent, bindings for
// props the schema does not declare, enum values outside their options and
// primitive type mismatches. Every violation is reported, never just the
// first.
//
// Example:
//
//	v := schema.NewValidator(schema.ModeStrict)
//	res := v.Validate(def, "buy", map[string]interface{}{"label": "Buy"})
//	if !res.OK() {
//		// res.Violations holds typed issues
//	}
package schema
