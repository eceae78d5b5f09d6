package compiler

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/GriffinCanCode/capsulec/internal/shared/paths"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// CargoPrefix marks desktop dependencies that belong to the Rust shell
// ("cargo:serde@1.0") rather than the frontend
const CargoPrefix = "cargo:"

var tauriCLI = types.Dependency{Name: "@tauri-apps/cli", Version: "^1.6.0"}

var desktopBaseline = append(append([]string{}, reactBaseline...),
	"@tauri-apps/api@^1.6.0",
	CargoPrefix+"tauri@1.6",
	CargoPrefix+"serde@1.0",
	CargoPrefix+"serde_json@1.0",
)

// DesktopTarget emits a Tauri shell around the React frontend
type DesktopTarget struct{}

func (t *DesktopTarget) Platform() types.Platform { return types.PlatformDesktop }

func (t *DesktopTarget) Reserved(p *Project) []string { return reactReserved() }

func (t *DesktopTarget) Baseline() []string { return desktopBaseline }

func (t *DesktopTarget) ComponentPath(p *Project, name string) string {
	return paths.WebComponent(name)
}

func (t *DesktopTarget) WrapComponent(p *Project, c *Component, body string) string {
	return wrapReactComponent(c, body)
}

func (t *DesktopTarget) Package(p *Project) ([]types.File, error) {
	npm, crates := splitCargo(p.Dependencies)

	files, err := frontendFiles(p, npm, true)
	if err != nil {
		return nil, err
	}

	cargo, err := cargoToml(p, crates)
	if err != nil {
		return nil, fmt.Errorf("Cargo.toml: %w", err)
	}
	conf, err := tauriConf(p)
	if err != nil {
		return nil, fmt.Errorf("tauri.conf.json: %w", err)
	}

	return append(files,
		types.File{Path: paths.Tauri("Cargo.toml"), Content: cargo},
		types.File{Path: paths.Tauri("tauri.conf.json"), Content: conf},
		types.File{Path: paths.Tauri("build.rs"), Content: "fn main() {\n    tauri_build::build()\n}\n"},
		types.File{Path: paths.Tauri("src/main.rs"), Content: tauriMain},
	), nil
}

// splitCargo separates frontend packages from Rust crates
func splitCargo(all []types.Dependency) (npm, crates []types.Dependency) {
	for _, d := range all {
		if name, ok := strings.CutPrefix(d.Name, CargoPrefix); ok {
			crates = append(crates, types.Dependency{Name: name, Version: d.Version})
			continue
		}
		npm = append(npm, d)
	}
	return npm, crates
}

type cargoPackage struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	Edition     string `toml:"edition"`
}

type cargoManifest struct {
	Package           cargoPackage      `toml:"package"`
	BuildDependencies map[string]string `toml:"build-dependencies"`
	Dependencies      map[string]string `toml:"dependencies"`
}

func cargoToml(p *Project, crates []types.Dependency) (string, error) {
	manifest := cargoManifest{
		Package: cargoPackage{
			Name:        strings.ReplaceAll(p.Slug, "-", "_"),
			Version:     "0.1.0",
			Description: p.AppName,
			Edition:     "2021",
		},
		BuildDependencies: map[string]string{"tauri-build": "1.5"},
		Dependencies:      make(map[string]string, len(crates)),
	}
	for _, c := range crates {
		v := c.Version
		if v == "" {
			v = "*"
		}
		manifest.Dependencies[c.Name] = v
	}

	out, err := toml.Marshal(manifest)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func tauriConf(p *Project) (string, error) {
	build := orderedmap.New[string, interface{}]()
	build.Set("beforeDevCommand", "npm run dev")
	build.Set("beforeBuildCommand", "npm run build")
	build.Set("devPath", "http://localhost:5173")
	build.Set("distDir", "../dist")

	pkg := orderedmap.New[string, interface{}]()
	pkg.Set("productName", p.AppName)
	pkg.Set("version", "0.1.0")

	bundle := orderedmap.New[string, interface{}]()
	bundle.Set("active", true)
	bundle.Set("identifier", p.Package)
	bundle.Set("targets", "all")

	window := orderedmap.New[string, interface{}]()
	window.Set("title", p.AppName)
	window.Set("width", 1024)
	window.Set("height", 768)
	window.Set("resizable", true)

	tauri := orderedmap.New[string, interface{}]()
	tauri.Set("bundle", bundle)
	tauri.Set("windows", []interface{}{window})

	conf := orderedmap.New[string, interface{}]()
	conf.Set("build", build)
	conf.Set("package", pkg)
	conf.Set("tauri", tauri)
	return marshalJSON(conf)
}

const tauriMain = `#![cfg_attr(not(debug_assertions), windows_subsystem = "windows")]

fn main() {
    tauri::Builder::default()
        .run(tauri::generate_context!())
        .expect("error while running tauri application");
}
`
