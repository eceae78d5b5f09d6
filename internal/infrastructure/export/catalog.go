package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// descriptions may carry author markdown; only user-content markup survives
var ugc = bluemonday.UGCPolicy()

// catalogPage is the template data for the catalog reference page
type catalogPage struct {
	Title    string
	Capsules []catalogEntry
}

type catalogEntry struct {
	ID          string
	Name        string
	Category    string
	Version     string
	Tags        string
	Children    bool
	Description template.HTML
	Props       []catalogProp
	Platforms   []catalogPlatform
}

type catalogProp struct {
	Name        string
	Type        string
	Required    bool
	Default     string
	Options     string
	Description template.HTML
}

type catalogPlatform struct {
	Platform     types.Platform
	Framework    string
	MinVersion   string
	Dependencies string
}

var catalogTemplate = template.Must(template.New("catalog").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Capsules}}<section id="{{.ID}}">
<h2>{{.Name}} <code>{{.ID}}@{{.Version}}</code></h2>
<p>Category: {{.Category}}{{if .Tags}} · Tags: {{.Tags}}{{end}}{{if .Children}} · Hosts children{{end}}</p>
{{.Description}}
{{if .Props}}<table>
<thead><tr><th>Prop</th><th>Type</th><th>Required</th><th>Default</th><th>Options</th><th>Description</th></tr></thead>
<tbody>
{{range .Props}}<tr><td><code>{{.Name}}</code></td><td>{{.Type}}</td><td>{{if .Required}}yes{{end}}</td><td>{{.Default}}</td><td>{{.Options}}</td><td>{{.Description}}</td></tr>
{{end}}</tbody>
</table>
{{end}}<ul>
{{range .Platforms}}<li><strong>{{.Platform}}</strong>: {{.Framework}}{{if .MinVersion}} (min {{.MinVersion}}){{end}}{{if .Dependencies}} · {{.Dependencies}}{{end}}</li>
{{end}}</ul>
</section>
{{end}}</body>
</html>
`))

// WriteCatalogHTML renders a reference page for defs, in the given order
func WriteCatalogHTML(w io.Writer, title string, defs []*types.CapsuleDefinition) error {
	page := catalogPage{Title: title, Capsules: make([]catalogEntry, 0, len(defs))}
	for _, def := range defs {
		entry, err := newCatalogEntry(def)
		if err != nil {
			return fmt.Errorf("capsule %s: %w", def.ID, err)
		}
		page.Capsules = append(page.Capsules, entry)
	}
	return catalogTemplate.Execute(w, page)
}

func newCatalogEntry(def *types.CapsuleDefinition) (catalogEntry, error) {
	desc, err := markdown(def.Description)
	if err != nil {
		return catalogEntry{}, err
	}
	entry := catalogEntry{
		ID:          def.ID,
		Name:        def.Name,
		Category:    def.Category,
		Version:     def.Version,
		Tags:        strings.Join(def.Tags, ", "),
		Children:    def.Children,
		Description: desc,
	}

	for _, p := range def.Props {
		pd, err := markdown(p.Description)
		if err != nil {
			return catalogEntry{}, err
		}
		prop := catalogProp{
			Name:        p.Name,
			Type:        string(p.Type),
			Required:    p.Required,
			Description: pd,
		}
		if p.HasDefault() {
			prop.Default = fmt.Sprint(p.Default)
		}
		opts := make([]string, len(p.Options))
		for i, o := range p.Options {
			opts[i] = fmt.Sprint(o)
		}
		prop.Options = strings.Join(opts, " | ")
		entry.Props = append(entry.Props, prop)
	}

	for _, platform := range def.SupportedPlatforms() {
		impl, _ := def.Implementation(platform)
		entry.Platforms = append(entry.Platforms, catalogPlatform{
			Platform:     platform,
			Framework:    impl.Framework,
			MinVersion:   impl.MinVersion,
			Dependencies: strings.Join(impl.Dependencies, ", "),
		})
	}
	return entry, nil
}

// markdown converts md to sanitized HTML
func markdown(md string) (template.HTML, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes())), nil
}
