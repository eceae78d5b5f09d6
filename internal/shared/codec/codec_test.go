package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string        `json:"name"`
	Count float64       `json:"count"`
	Tags  []string      `json:"tags"`
	Extra []interface{} `json:"extra"`
}

func TestFormatsDecodeIdentically(t *testing.T) {
	docs := map[Format]string{
		FormatJSON: `{"name": "card", "count": 3, "tags": ["a"], "extra": [1, "x"]}`,
		FormatYAML: "name: card\ncount: 3\ntags: [a]\nextra: [1, x]\n",
		FormatTOML: "name = \"card\"\ncount = 3\ntags = [\"a\"]\nextra = [1, \"x\"]\n",
		FormatHCL:  "name = \"card\"\ncount = 3\ntags = [\"a\"]\nextra = [1, \"x\"]\n",
	}

	for format, doc := range docs {
		t.Run(string(format), func(t *testing.T) {
			var out sample
			generic, err := Decode([]byte(doc), format)
			require.NoError(t, err)
			require.NoError(t, Convert(generic, &out))
			assert.Equal(t, "card", out.Name)
			assert.Equal(t, float64(3), out.Count)
			assert.Equal(t, []string{"a"}, out.Tags)
			assert.Equal(t, []interface{}{float64(1), "x"}, out.Extra)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, ok := FormatFromPath("capsules/button.YML")
	assert.True(t, ok)
	assert.Equal(t, FormatYAML, f)

	_, ok = FormatFromPath("README.md")
	assert.False(t, ok)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	_, err := Decode([]byte("{not json"), FormatJSON)
	assert.Error(t, err)

	_, err = Decode([]byte("a = "), FormatTOML)
	assert.Error(t, err)

	_, err = Decode([]byte("root {\n}\n"), FormatHCL)
	assert.Error(t, err, "blocks are not supported")

	_, err = Decode([]byte("name = upper(\"x\")\n"), FormatHCL)
	assert.Error(t, err, "functions are not supported")

	_, err = Decode([]byte("x"), Format("xml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("ini")
	assert.Error(t, err)
}

func TestDecodeHCLComposition(t *testing.T) {
	doc := `
appName = "Shop"
targets = ["web"]
root = [
  { "card#hero" = { title = "Deals", children = ["button#buy"] } },
]
`
	generic, err := Decode([]byte(doc), FormatHCL)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"appName": "Shop",
		"targets": []interface{}{"web"},
		"root": []interface{}{
			map[string]interface{}{
				"card#hero": map[string]interface{}{
					"title":    "Deals",
					"children": []interface{}{"button#buy"},
				},
			},
		},
	}, generic)

	f, ok := FormatFromPath("app.hcl")
	assert.True(t, ok)
	assert.Equal(t, FormatHCL, f)
}
