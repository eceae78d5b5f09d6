package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

func buttonDef() *types.CapsuleDefinition {
	return &types.CapsuleDefinition{
		ID:       "button",
		Name:     "Button",
		Category: "input",
		Version:  "1.0.0",
		Props: []types.PropSpec{
			{Name: "label", Type: types.PropString, Required: true},
			{Name: "variant", Type: types.PropEnum, Options: []interface{}{"primary", "secondary"}, Default: "primary"},
			{Name: "disabled", Type: types.PropBoolean, Default: false},
			{Name: "width", Type: types.PropNumber},
			{Name: "icon", Type: types.PropString, Required: true},
		},
		Platforms: map[types.Platform]types.PlatformImplementation{
			types.PlatformWeb: {Framework: "react", CodeTemplate: "<button>{{label}}</button>"},
		},
	}
}

func codes(issues []*errors.Issue) []errors.Code {
	out := make([]errors.Code, len(issues))
	for i, is := range issues {
		out[i] = is.Code
	}
	return out
}

func TestValidateAccepts(t *testing.T) {
	v := NewValidator(ModeStrict)
	res := v.Validate(buttonDef(), "buy", map[string]interface{}{
		"label":   "Buy",
		"icon":    "cart",
		"variant": "secondary",
		"width":   120,
	})

	require.True(t, res.OK(), "unexpected violations: %v", res.Violations)
	assert.Equal(t, float64(120), res.Props["width"])
}

func TestMissingRequiredPropNamesTheProp(t *testing.T) {
	v := NewValidator(ModeStrict)
	res := v.Validate(buttonDef(), "buy", map[string]interface{}{"icon": "cart"})

	require.Len(t, res.Violations, 1)
	issue := res.Violations[0]
	assert.Equal(t, errors.ErrMissingRequiredProp, issue.Code)
	assert.Equal(t, "label", issue.Prop)
	assert.Equal(t, "button", issue.CapsuleID)
	assert.Equal(t, "buy", issue.InstanceID)
}

func TestExplicitNilCountsAsUnbound(t *testing.T) {
	v := NewValidator(ModeStrict)
	res := v.Validate(buttonDef(), "buy", map[string]interface{}{"label": nil, "icon": "x", "width": nil})

	require.Len(t, res.Violations, 1)
	assert.Equal(t, "label", res.Violations[0].Prop)
	assert.NotContains(t, res.Props, "width")
}

func TestReportsEveryViolationInOrder(t *testing.T) {
	v := NewValidator(ModeStrict)
	res := v.Validate(buttonDef(), "buy", map[string]interface{}{
		"zeta":     1,
		"alpha":    true,
		"variant":  "tertiary",
		"disabled": "yes",
		"width":    "wide",
	})

	assert.Equal(t, []errors.Code{
		errors.ErrMissingRequiredProp,
		errors.ErrMissingRequiredProp,
		errors.ErrUnknownProp,
		errors.ErrUnknownProp,
		errors.ErrInvalidOption,
		errors.ErrTypeMismatch,
		errors.ErrTypeMismatch,
	}, codes(res.Violations))

	props := make([]string, len(res.Violations))
	for i, is := range res.Violations {
		props[i] = is.Prop
	}
	assert.Equal(t, []string{"label", "icon", "alpha", "zeta", "variant", "disabled", "width"}, props)

	mismatch := res.Violations[5]
	assert.Contains(t, mismatch.Message, "boolean")
}

func TestLenientDropsUnknownProps(t *testing.T) {
	v := NewValidator(ModeLenient)
	res := v.Validate(buttonDef(), "buy", map[string]interface{}{
		"label": "Buy",
		"icon":  "cart",
		"extra": "ignored",
	})

	assert.True(t, res.OK())
	assert.NotContains(t, res.Props, "extra")
	assert.Equal(t, ModeLenient, v.Mode())
}

func TestNumericEnumOptions(t *testing.T) {
	def := buttonDef()
	def.Props = []types.PropSpec{{Name: "columns", Type: types.PropEnum, Options: []interface{}{1, 2, 3}}}

	v := NewValidator(ModeStrict)
	assert.True(t, v.Validate(def, "grid", map[string]interface{}{"columns": 2}).OK())

	res := v.Validate(def, "grid", map[string]interface{}{"columns": 4})
	require.Len(t, res.Violations, 1)
	assert.Equal(t, errors.ErrInvalidOption, res.Violations[0].Code)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, m)

	m, err = ParseMode(" Lenient ")
	require.NoError(t, err)
	assert.Equal(t, ModeLenient, m)

	_, err = ParseMode("loose")
	assert.Error(t, err)

	assert.Equal(t, ModeStrict, NewValidator("bogus").Mode())
}

func TestResolveMergesOverDefaults(t *testing.T) {
	def := buttonDef()
	props := Resolve(def, map[string]interface{}{"label": "Go", "disabled": nil})

	assert.Equal(t, map[string]interface{}{
		"label":    "Go",
		"variant":  "primary",
		"disabled": false,
	}, props)

	props["variant"] = "changed"
	assert.Equal(t, "primary", def.Props[1].Default)
}
