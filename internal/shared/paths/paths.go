package paths

import (
	"fmt"
	"path"
	"strings"
)

// BuildRecord is the build manifest every target emits
const BuildRecord = ".capsule/manifest.yaml"

// Web frontend layout, shared by the web and desktop targets
const (
	SourceDir     = "src"
	ComponentsDir = SourceDir + "/components"
	WebEntry      = SourceDir + "/main.tsx"
	WebRoot       = SourceDir + "/App.tsx"
	WebTheme      = SourceDir + "/theme.css"
)

// Desktop shell layout
const (
	TauriDir = "src-tauri"
)

// WebComponent returns the module path of a web component
func WebComponent(name string) string {
	return path.Join(ComponentsDir, name+".tsx")
}

// Tauri returns a path inside the desktop shell crate
func Tauri(rel string) string {
	return path.Join(TauriDir, rel)
}

// IOS is the layout of a Swift package named App
type IOS struct {
	App string
}

// IOSProject returns the layout for an iOS app module
func IOSProject(app string) IOS {
	return IOS{App: app}
}

// SourcesDir returns the module source directory
func (p IOS) SourcesDir() string {
	return path.Join("Sources", p.App)
}

// Entry returns the @main app file
func (p IOS) Entry() string {
	return path.Join(p.SourcesDir(), p.App+"App.swift")
}

// Root returns the root layout view
func (p IOS) Root() string {
	return path.Join(p.SourcesDir(), "ContentView.swift")
}

// Theme returns the theme tokens file
func (p IOS) Theme() string {
	return path.Join(p.SourcesDir(), "Theme.swift")
}

// Component returns the file of one component view
func (p IOS) Component(name string) string {
	return path.Join(p.SourcesDir(), "Components", name+".swift")
}

// Android is the layout of a Gradle app module with a Kotlin package
type Android struct {
	Package string
}

// AndroidProject returns the layout for a Kotlin package such as com.capsule.shop
func AndroidProject(pkg string) Android {
	return Android{Package: pkg}
}

// Manifest returns the AndroidManifest.xml path
func (p Android) Manifest() string {
	return "app/src/main/AndroidManifest.xml"
}

// PackageDir returns the source directory of the Kotlin package
func (p Android) PackageDir() string {
	return path.Join("app/src/main/java", strings.ReplaceAll(p.Package, ".", "/"))
}

// Entry returns the launcher activity
func (p Android) Entry() string {
	return path.Join(p.PackageDir(), "MainActivity.kt")
}

// Theme returns the theme tokens file
func (p Android) Theme() string {
	return path.Join(p.PackageDir(), "ui/theme/Theme.kt")
}

// Component returns the file of one composable
func (p Android) Component(name string) string {
	return path.Join(p.PackageDir(), "ui/components", name+".kt")
}

// ComponentsPackage returns the Kotlin package holding composables
func (p Android) ComponentsPackage() string {
	return p.Package + ".ui.components"
}

// ThemePackage returns the Kotlin package holding theme tokens
func (p Android) ThemePackage() string {
	return p.Package + ".ui.theme"
}

// ValidateRelative checks that a generated path stays inside the project root
func ValidateRelative(p string) error {
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if path.IsAbs(p) || strings.HasPrefix(p, "\\") || (len(p) > 1 && p[1] == ':') {
		return fmt.Errorf("path %q must be relative", p)
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf("path %q must use forward slashes", p)
	}
	if path.Clean(p) != p {
		return fmt.Errorf("path %q contains invalid components", p)
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return fmt.Errorf("path %q escapes the project root", p)
	}
	return nil
}
