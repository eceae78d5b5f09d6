package template

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

func buttonInput(props map[string]interface{}) Input {
	return Input{
		Capsule: &types.CapsuleDefinition{
			ID: "button",
			Props: []types.PropSpec{
				{Name: "label", Type: types.PropString, Required: true},
				{Name: "variant", Type: types.PropEnum, Options: []interface{}{"primary", "ghost"}, Default: "primary"},
				{Name: "disabled", Type: types.PropBoolean},
				{Name: "width", Type: types.PropNumber},
				{Name: "items", Type: types.PropArray},
			},
		},
		Platform:   types.PlatformWeb,
		InstanceID: "buy",
		Name:       "ButtonBuy",
		Props:      props,
		Children:   []string{"IconCart", "TextPrice"},
		Theme: types.Theme{
			Colors:     map[string]string{"primary": "#0af"},
			Typography: map[string]string{"body": "Inter"},
		},
		AppName: "Shop",
	}
}

func render(t *testing.T, tmpl string, in Input) string {
	t.Helper()
	out, issue := NewRenderer().Render(types.PlatformImplementation{CodeTemplate: tmpl}, in)
	require.Nil(t, issue, "unexpected issue: %v", issue)
	return out
}

func TestRenderSubstitutesPropsAndDefaults(t *testing.T) {
	in := buttonInput(map[string]interface{}{"label": "Buy now", "width": float64(120)})
	out := render(t, `<button className="{{variant}}" style={{ "{{" }}width: {{ width }}{{ "}}" }}>{{label}}</button>`, in)
	assert.Equal(t, `<button className="primary" style={{width: 120}}>Buy now</button>`, out)
}

func TestRenderInstanceReferences(t *testing.T) {
	in := buttonInput(map[string]interface{}{"label": "x"})
	out := render(t, "{{@name}}|{{@id}}|{{@capsule}}|{{@app}}|{{@platform}}|{{@children}}|{{@children.1}}|{{@theme.primary}}|{{@theme.body}}", in)
	assert.Equal(t, "ButtonBuy|buy|button|Shop|web|IconCart, TextPrice|TextPrice|#0af|Inter", out)
}

func TestRenderConditional(t *testing.T) {
	tmpl := `{{ disabled ? "disabled" : "enabled" }}`
	assert.Equal(t, "enabled", render(t, tmpl, buttonInput(map[string]interface{}{"label": "x"})))
	assert.Equal(t, "disabled", render(t, tmpl, buttonInput(map[string]interface{}{"label": "x", "disabled": true})))
	assert.Equal(t, "x", render(t, `{{ label ? label : "none" }}`, buttonInput(map[string]interface{}{"label": "x"})))
}

func TestRenderFilters(t *testing.T) {
	in := buttonInput(map[string]interface{}{"label": "buy <b>now</b>", "items": []interface{}{"a", float64(2)}})

	assert.Equal(t, "BUY <B>NOW</B>", render(t, "{{label | upper}}", in))
	assert.Equal(t, "BuyBNowB", render(t, "{{label | pascal}}", in))
	assert.Equal(t, "buy now", render(t, "{{label | safe}}", in))
	assert.Equal(t, `"buy <b>now</b>"`, render(t, "{{label | quote}}", in))
	assert.Equal(t, `["a",2]`, render(t, "{{items}}", in))
	assert.Equal(t, `"BUY-NOW"`, render(t, `{{ "buy now" | kebab | upper | json }}`, in))
}

func TestRenderNumberFormatting(t *testing.T) {
	in := buttonInput(map[string]interface{}{"label": "x", "width": 12.5})
	assert.Equal(t, "12.5", render(t, "{{width}}", in))

	in.Props["width"] = float64(3)
	assert.Equal(t, "3", render(t, "{{width}}", in))
}

func TestRenderDoesNotRescanSubstitutedText(t *testing.T) {
	in := buttonInput(map[string]interface{}{"label": "{{@id}}"})
	assert.Equal(t, "{{@id}}", render(t, "{{label}}", in))
}

func TestRenderUnresolvedListsEveryName(t *testing.T) {
	in := buttonInput(map[string]interface{}{"label": "x"})
	_, issue := NewRenderer().Render(types.PlatformImplementation{
		CodeTemplate: "{{ghost}} {{width}} {{@children.7}} {{ghost}} {{@theme.accent}}",
	}, in)

	require.NotNil(t, issue)
	assert.Equal(t, errors.ErrUnresolvedPlaceholder, issue.Code)
	assert.Equal(t, "buy", issue.InstanceID)
	assert.Equal(t, []string{"ghost", "width", "@children.7", "@theme.accent"}, issue.Details["placeholders"])
}

func TestRenderSyntaxErrors(t *testing.T) {
	tests := map[string]string{
		"unterminated":    "<div>{{label</div>",
		"unknown filter":  "{{label | shout}}",
		"bad conditional": `{{ disabled ? "a" }}`,
		"open string":     `{{ "abc }}`,
		"stray operator":  "{{ label ? }}",
	}

	for name, tmpl := range tests {
		t.Run(name, func(t *testing.T) {
			_, issue := NewRenderer().Render(types.PlatformImplementation{CodeTemplate: tmpl}, buttonInput(map[string]interface{}{"label": "x"}))
			require.NotNil(t, issue)
			assert.Equal(t, errors.ErrTemplateSyntax, issue.Code)
		})
	}
}

func TestRenderIsDeterministicAndConcurrent(t *testing.T) {
	r := NewRenderer()
	impl := types.PlatformImplementation{CodeTemplate: `<X label={{{label | json}}} data={{{items | json}}} />`}
	in := buttonInput(map[string]interface{}{
		"label": "hi",
		"items": []interface{}{map[string]interface{}{"z": float64(1), "a": true}},
	})

	want, issue := r.Render(impl, in)
	require.Nil(t, issue)
	assert.Equal(t, `<X label={"hi"} data={[{"a":true,"z":1}]} />`, want)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, issue := r.Render(impl, in)
				assert.Nil(t, issue)
				assert.Equal(t, want, got)
			}
		}()
	}
	wg.Wait()
}

func TestRenderPassesObjectLiteralsThrough(t *testing.T) {
	in := buttonInput(map[string]interface{}{"label": "Buy"})
	tests := map[string]struct{ tmpl, want string }{
		"inline style": {
			`<div style={{ padding: 8 }}>{{label}}</div>`,
			`<div style={{ padding: 8 }}>Buy</div>`,
		},
		"several keys": {
			`<div style={{ color: "red", margin: 0 }} />`,
			`<div style={{ color: "red", margin: 0 }} />`,
		},
		"nested object": {
			`<Chart options={{legend: {show: true}}} title="{{label}}" />`,
			`<Chart options={{legend: {show: true}}} title="Buy" />`,
		},
		"empty object":      {`<Box sx={{}} />`, `<Box sx={{}} />`},
		"placeholder in braces": {`<Text value={{{label | json}}} />`, `<Text value={"Buy"} />`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.tmpl, in))
		})
	}
}

func TestCheck(t *testing.T) {
	r := NewRenderer()
	assert.NoError(t, r.Check("plain text"))
	assert.Error(t, r.Check("{{ a | nope }}"))
	assert.NoError(t, r.Check("<div style={{ flex: 1 }} />"))
}
