package compiler

import (
	"sort"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/capsulec/internal/shared/id"
	"github.com/GriffinCanCode/capsulec/internal/shared/paths"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

// Component is one emitted component file
type Component struct {
	Name           string
	InstanceID     string
	CapsuleID      string
	CapsuleVersion string
	Framework      string
	MinVersion     string
	Path           string
	Imports        []string
	// Children are the identifiers of emitted direct children
	Children []string
	// Placed components have no emitted parent and are mounted by the
	// root layout
	Placed bool
}

// Project is what packaging sees of a compile
type Project struct {
	Platform   types.Platform
	AppName    string
	Identifier string
	Slug       string
	Package    string
	ProjectID  string
	Theme      types.Theme
	Components []*Component
	// Dependencies as aggregated, in first-seen order
	Dependencies []types.Dependency
}

func newProject(platform types.Platform, appName string, theme types.Theme) *Project {
	return &Project{
		Platform:   platform,
		AppName:    appName,
		Identifier: identifier(utils.Pascal(appName), "App"),
		Slug:       slug(appName),
		Package:    "com.capsule." + packageSegment(appName),
		ProjectID:  id.NewProjectID(appName).String(),
		Theme:      theme,
	}
}

// Placed returns the components mounted by the root layout, in order
func (p *Project) Placed() []*Component {
	out := make([]*Component, 0, len(p.Components))
	for _, c := range p.Components {
		if c.Placed {
			out = append(out, c)
		}
	}
	return out
}

func slug(appName string) string {
	if s := utils.Kebab(appName); s != "" {
		return s
	}
	return "app"
}

// packageSegment lowercases the app name to a Java package segment
func packageSegment(appName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(appName) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || unicode.IsDigit(rune(s[0])) {
		s = "app" + s
	}
	return s
}

// token is one theme entry
type token struct {
	Name  string
	Value string
}

func sortedTokens(m map[string]string) []token {
	out := make([]token, 0, len(m))
	for k, v := range m {
		out = append(out, token{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// tokenNames converts every token name with convert and keeps the results
// unique within one group: "primary-color" and "primary_color" both map to
// PRIMARY_COLOR, so the second becomes PRIMARY_COLOR2
func tokenNames(tokens []token, convert func(string) string) []string {
	n := newNamer()
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = n.name(convert(t.Name))
	}
	return names
}

// jsonAPI writes project JSON without HTML escaping and with sorted map keys
var jsonAPI = sonic.Config{SortMapKeys: true}.Froze()

func marshalJSON(v interface{}) (string, error) {
	out, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// quote renders s as a double-quoted string literal
func quote(s string) string {
	out, err := jsonAPI.MarshalToString(s)
	if err != nil {
		return `""`
	}
	return out
}

// indent prefixes every non-empty line of s
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// importLines normalizes capsule imports: entries already written as
// statements are kept, bare module names go through format
func importLines(imports []string, format func(string) string) []string {
	seen := make(map[string]bool, len(imports))
	out := make([]string, 0, len(imports))
	for _, imp := range imports {
		imp = strings.TrimSpace(imp)
		if imp == "" {
			continue
		}
		if !strings.HasPrefix(imp, "import ") {
			imp = format(imp)
		}
		if !seen[imp] {
			seen[imp] = true
			out = append(out, imp)
		}
	}
	return out
}

type capsuleRecord struct {
	ID      string `yaml:"id"`
	Version string `yaml:"version"`
}

type componentRecord struct {
	Name       string `yaml:"name"`
	InstanceID string `yaml:"instanceId"`
	Capsule    string `yaml:"capsule"`
	Path       string `yaml:"path"`
}

type buildRecord struct {
	App          string             `yaml:"app"`
	ProjectID    string             `yaml:"projectId"`
	Platform     types.Platform     `yaml:"platform"`
	Capsules     []capsuleRecord    `yaml:"capsules"`
	Components   []componentRecord  `yaml:"components"`
	Dependencies []types.Dependency `yaml:"dependencies"`
}

// buildRecordFile describes the compile in .capsule/manifest.yaml.
// It holds no timestamps so repeated compiles stay byte-identical.
func buildRecordFile(p *Project) (types.File, error) {
	rec := buildRecord{
		App:          p.AppName,
		ProjectID:    p.ProjectID,
		Platform:     p.Platform,
		Capsules:     []capsuleRecord{},
		Components:   make([]componentRecord, 0, len(p.Components)),
		Dependencies: p.Dependencies,
	}

	versions := make(map[string]string)
	for _, c := range p.Components {
		versions[c.CapsuleID] = c.CapsuleVersion
		rec.Components = append(rec.Components, componentRecord{
			Name:       c.Name,
			InstanceID: c.InstanceID,
			Capsule:    c.CapsuleID,
			Path:       c.Path,
		})
	}
	for capsuleID, version := range versions {
		rec.Capsules = append(rec.Capsules, capsuleRecord{ID: capsuleID, Version: version})
	}
	sort.Slice(rec.Capsules, func(i, j int) bool { return rec.Capsules[i].ID < rec.Capsules[j].ID })

	out, err := yaml.Marshal(rec)
	if err != nil {
		return types.File{}, err
	}
	return types.File{Path: paths.BuildRecord, Content: string(out)}, nil
}
