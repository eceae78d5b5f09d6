package compiler

import (
	"fmt"
	"path"
	"strings"

	"github.com/GriffinCanCode/capsulec/internal/domain/deps"
	"github.com/GriffinCanCode/capsulec/internal/shared/paths"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

const defaultIOSVersion = "16.0"

// IOSTarget emits a SwiftUI Swift package
type IOSTarget struct{}

func (t *IOSTarget) Platform() types.Platform { return types.PlatformIOS }

func (t *IOSTarget) Reserved(p *Project) []string {
	return []string{p.Identifier, p.Identifier + "App", "ContentView", "Theme", "View", "App"}
}

func (t *IOSTarget) Baseline() []string { return nil }

func (t *IOSTarget) ComponentPath(p *Project, name string) string {
	return paths.IOSProject(p.Identifier).Component(name)
}

func (t *IOSTarget) WrapComponent(p *Project, c *Component, body string) string {
	var b strings.Builder
	b.WriteString("import SwiftUI\n")
	for _, imp := range importLines(c.Imports, func(m string) string { return "import " + m }) {
		if imp != "import SwiftUI" {
			b.WriteString(imp + "\n")
		}
	}
	fmt.Fprintf(&b, "\nstruct %s: View {\n    var body: some View {\n", c.Name)
	b.WriteString(indent(body, "        "))
	b.WriteString("\n    }\n}\n")
	return b.String()
}

func (t *IOSTarget) Package(p *Project) ([]types.File, error) {
	layout := paths.IOSProject(p.Identifier)
	return []types.File{
		{Path: "Package.swift", Content: packageSwift(p)},
		{Path: layout.Entry(), Content: swiftApp(p)},
		{Path: layout.Root(), Content: contentView(p)},
		{Path: layout.Theme(), Content: swiftTheme(p)},
	}, nil
}

// minimumVersion returns the highest MinVersion any component asks for
func minimumVersion(p *Project, fallback string) string {
	best := fallback
	for _, c := range p.Components {
		if c.MinVersion == "" {
			continue
		}
		if cmp, ok := deps.Compare(best, c.MinVersion); ok && cmp < 0 {
			best = c.MinVersion
		}
	}
	return best
}

type swiftPackage struct {
	URL     string
	Product string
	Version string
}

// swiftPackages keeps dependencies that name a package repository;
// bare names are system frameworks and need no declaration
func swiftPackages(all []types.Dependency) []swiftPackage {
	out := make([]swiftPackage, 0, len(all))
	for _, d := range all {
		if !strings.Contains(d.Name, "/") {
			continue
		}
		url := d.Name
		if !strings.Contains(url, "://") {
			url = "https://" + url
		}
		out = append(out, swiftPackage{
			URL:     url,
			Product: strings.TrimSuffix(path.Base(url), ".git"),
			Version: strings.TrimLeft(d.Version, "^~>=v "),
		})
	}
	return out
}

func packageSwift(p *Project) string {
	pkgs := swiftPackages(p.Dependencies)

	var b strings.Builder
	b.WriteString("// swift-tools-version:5.9\nimport PackageDescription\n\n")
	b.WriteString("let package = Package(\n")
	fmt.Fprintf(&b, "    name: %s,\n", quote(p.Identifier))
	fmt.Fprintf(&b, "    platforms: [.iOS(%s)],\n", quote(minimumVersion(p, defaultIOSVersion)))
	b.WriteString("    products: [\n")
	fmt.Fprintf(&b, "        .library(name: %s, targets: [%s]),\n", quote(p.Identifier), quote(p.Identifier))
	b.WriteString("    ],\n    dependencies: [\n")
	for _, pkg := range pkgs {
		if pkg.Version == "" {
			fmt.Fprintf(&b, "        .package(url: %s, branch: \"main\"),\n", quote(pkg.URL))
		} else {
			fmt.Fprintf(&b, "        .package(url: %s, from: %s),\n", quote(pkg.URL), quote(pkg.Version))
		}
	}
	b.WriteString("    ],\n    targets: [\n        .target(\n")
	fmt.Fprintf(&b, "            name: %s,\n            dependencies: [\n", quote(p.Identifier))
	for _, pkg := range pkgs {
		fmt.Fprintf(&b, "                .product(name: %s, package: %s),\n", quote(pkg.Product), quote(pkg.Product))
	}
	b.WriteString("            ]\n        ),\n    ]\n)\n")
	return b.String()
}

func swiftApp(p *Project) string {
	return fmt.Sprintf(`import SwiftUI

@main
struct %sApp: App {
    var body: some Scene {
        WindowGroup {
            ContentView()
        }
    }
}
`, p.Identifier)
}

func contentView(p *Project) string {
	var b strings.Builder
	b.WriteString("import SwiftUI\n\nstruct ContentView: View {\n    var body: some View {\n        VStack {\n")
	for _, c := range p.Placed() {
		fmt.Fprintf(&b, "            %s()\n", c.Name)
	}
	b.WriteString("        }\n    }\n}\n")
	return b.String()
}

func swiftTheme(p *Project) string {
	var b strings.Builder
	b.WriteString("import SwiftUI\n\nenum Theme {\n")
	writeGroup := func(name string, tokens map[string]string) {
		fmt.Fprintf(&b, "    enum %s {\n", name)
		sorted := sortedTokens(tokens)
		for i, name := range tokenNames(sorted, memberName) {
			fmt.Fprintf(&b, "        static let %s = %s\n", name, quote(sorted[i].Value))
		}
		b.WriteString("    }\n")
	}
	writeGroup("Colors", p.Theme.Colors)
	writeGroup("Typography", p.Theme.Typography)
	b.WriteString("}\n")
	return b.String()
}

// memberName converts a token name to a lowerCamel member identifier
func memberName(token string) string {
	name := utils.Camel(token)
	if name == "" {
		return "token"
	}
	if r := name[0]; r >= '0' && r <= '9' {
		return "t" + name
	}
	return name
}
