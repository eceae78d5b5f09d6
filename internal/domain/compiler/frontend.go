package compiler

import (
	"fmt"
	"html"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/GriffinCanCode/capsulec/internal/shared/paths"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// React + Vite frontend shared by the web and desktop targets

var reactBaseline = []string{"react@^18.3.1", "react-dom@^18.3.1"}

var viteDevDependencies = []types.Dependency{
	{Name: "@types/react", Version: "^18.3.3"},
	{Name: "@types/react-dom", Version: "^18.3.0"},
	{Name: "@vitejs/plugin-react", Version: "^4.3.1"},
	{Name: "typescript", Version: "^5.5.3"},
	{Name: "vite", Version: "^5.3.4"},
}

func reactReserved() []string {
	return []string{"App", "React", "Fragment"}
}

func wrapReactComponent(c *Component, body string) string {
	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	for _, child := range c.Children {
		fmt.Fprintf(&b, "import { %s } from './%s';\n", child, child)
	}
	for _, imp := range importLines(c.Imports, func(m string) string { return fmt.Sprintf("import '%s';", m) }) {
		b.WriteString(imp + "\n")
	}
	fmt.Fprintf(&b, "\nexport function %s() {\n", c.Name)
	b.WriteString("  return (\n    <>\n")
	b.WriteString(indent(body, "      "))
	b.WriteString("\n    </>\n  );\n}\n\n")
	fmt.Fprintf(&b, "export default %s;\n", c.Name)
	return b.String()
}

// npmVersion renders a manifest version; an unpinned dependency takes latest
func npmVersion(v string) string {
	if v == "" {
		return "latest"
	}
	return v
}

func packageJSON(p *Project, deps []types.Dependency, tauri bool) (string, error) {
	scripts := orderedmap.New[string, string]()
	scripts.Set("dev", "vite")
	scripts.Set("build", "vite build")
	scripts.Set("preview", "vite preview")
	scripts.Set("typecheck", "tsc --noEmit")
	if tauri {
		scripts.Set("tauri", "tauri")
	}

	dependencies := orderedmap.New[string, string]()
	for _, d := range deps {
		dependencies.Set(d.Name, npmVersion(d.Version))
	}

	devDependencies := orderedmap.New[string, string]()
	if tauri {
		devDependencies.Set(tauriCLI.Name, tauriCLI.Version)
	}
	for _, d := range viteDevDependencies {
		devDependencies.Set(d.Name, d.Version)
	}

	manifest := orderedmap.New[string, interface{}]()
	manifest.Set("name", p.Slug)
	manifest.Set("private", true)
	manifest.Set("version", "0.1.0")
	manifest.Set("type", "module")
	manifest.Set("scripts", scripts)
	manifest.Set("dependencies", dependencies)
	manifest.Set("devDependencies", devDependencies)

	return marshalJSON(manifest)
}

func tsconfigJSON() (string, error) {
	options := orderedmap.New[string, interface{}]()
	options.Set("target", "ES2020")
	options.Set("lib", []string{"ES2020", "DOM", "DOM.Iterable"})
	options.Set("module", "ESNext")
	options.Set("moduleResolution", "bundler")
	options.Set("jsx", "react-jsx")
	options.Set("strict", true)
	options.Set("skipLibCheck", true)
	options.Set("noEmit", true)

	config := orderedmap.New[string, interface{}]()
	config.Set("compilerOptions", options)
	config.Set("include", []string{"src"})
	return marshalJSON(config)
}

func indexHTML(p *Project) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>%s</title>
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/src/main.tsx"></script>
  </body>
</html>
`, html.EscapeString(p.AppName))
}

const viteConfig = `import { defineConfig } from 'vite';
import react from '@vitejs/plugin-react';

export default defineConfig({
  plugins: [react()],
});
`

const mainTSX = `import React from 'react';
import ReactDOM from 'react-dom/client';
import App from './App';
import './theme.css';

ReactDOM.createRoot(document.getElementById('root')!).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
);
`

func appTSX(p *Project) string {
	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	placed := p.Placed()
	for _, c := range placed {
		fmt.Fprintf(&b, "import { %s } from './components/%s';\n", c.Name, c.Name)
	}
	b.WriteString("\nexport default function App() {\n  return (\n    <div className=\"app\">\n")
	for _, c := range placed {
		fmt.Fprintf(&b, "      <%s />\n", c.Name)
	}
	b.WriteString("    </div>\n  );\n}\n")
	return b.String()
}

func themeCSS(p *Project) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	writeGroup := func(prefix string, tokens map[string]string) {
		sorted := sortedTokens(tokens)
		for i, name := range tokenNames(sorted, cssName) {
			fmt.Fprintf(&b, "  --%s-%s: %s;\n", prefix, name, sorted[i].Value)
		}
	}
	writeGroup("color", p.Theme.Colors)
	writeGroup("font", p.Theme.Typography)
	b.WriteString("}\n\n.app {\n  color: var(--color-text, inherit);\n  background: var(--color-background, inherit);\n}\n")
	return b.String()
}

func cssName(token string) string {
	if k := strings.ToLower(strings.Join(strings.FieldsFunc(token, func(r rune) bool {
		return !(r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}), "-")); k != "" {
		return k
	}
	return "token"
}

// frontendFiles emits the Vite project around the components
func frontendFiles(p *Project, npmDeps []types.Dependency, tauri bool) ([]types.File, error) {
	pkg, err := packageJSON(p, npmDeps, tauri)
	if err != nil {
		return nil, fmt.Errorf("package.json: %w", err)
	}
	tsconfig, err := tsconfigJSON()
	if err != nil {
		return nil, fmt.Errorf("tsconfig.json: %w", err)
	}

	return []types.File{
		{Path: "package.json", Content: pkg},
		{Path: "index.html", Content: indexHTML(p)},
		{Path: "vite.config.ts", Content: viteConfig},
		{Path: "tsconfig.json", Content: tsconfig},
		{Path: paths.WebEntry, Content: mainTSX},
		{Path: paths.WebRoot, Content: appTSX(p)},
		{Path: paths.WebTheme, Content: themeCSS(p)},
	}, nil
}

// WebTarget emits a React + Vite single page app
type WebTarget struct{}

func (t *WebTarget) Platform() types.Platform { return types.PlatformWeb }

func (t *WebTarget) Reserved(p *Project) []string { return reactReserved() }

func (t *WebTarget) Baseline() []string { return reactBaseline }

func (t *WebTarget) ComponentPath(p *Project, name string) string {
	return paths.WebComponent(name)
}

func (t *WebTarget) WrapComponent(p *Project, c *Component, body string) string {
	return wrapReactComponent(c, body)
}

func (t *WebTarget) Package(p *Project) ([]types.File, error) {
	return frontendFiles(p, p.Dependencies, false)
}
