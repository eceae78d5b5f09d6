package compiler

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/capsulec/internal/shared/paths"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

const defaultMinSDK = 24

var androidBaseline = []string{
	"androidx.core:core-ktx@1.13.1",
	"androidx.activity:activity-compose@1.9.0",
	"androidx.compose.ui:ui@1.6.8",
	"androidx.compose.material3:material3@1.2.1",
}

// AndroidTarget emits a Jetpack Compose Gradle project
type AndroidTarget struct{}

func (t *AndroidTarget) Platform() types.Platform { return types.PlatformAndroid }

func (t *AndroidTarget) Reserved(p *Project) []string {
	return []string{"MainActivity", "AppTheme", "Composable"}
}

func (t *AndroidTarget) Baseline() []string { return androidBaseline }

func (t *AndroidTarget) ComponentPath(p *Project, name string) string {
	return paths.AndroidProject(p.Package).Component(name)
}

func (t *AndroidTarget) WrapComponent(p *Project, c *Component, body string) string {
	layout := paths.AndroidProject(p.Package)

	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", layout.ComponentsPackage())
	b.WriteString("import androidx.compose.runtime.Composable\n")
	for _, imp := range importLines(c.Imports, func(m string) string { return "import " + m }) {
		if imp != "import androidx.compose.runtime.Composable" {
			b.WriteString(imp + "\n")
		}
	}
	fmt.Fprintf(&b, "\n@Composable\nfun %s() {\n", c.Name)
	b.WriteString(indent(body, "    "))
	b.WriteString("\n}\n")
	return b.String()
}

func (t *AndroidTarget) Package(p *Project) ([]types.File, error) {
	layout := paths.AndroidProject(p.Package)

	manifest, err := androidManifest(p)
	if err != nil {
		return nil, fmt.Errorf("AndroidManifest.xml: %w", err)
	}

	return []types.File{
		{Path: "settings.gradle.kts", Content: settingsGradle(p)},
		{Path: "build.gradle.kts", Content: rootGradle},
		{Path: "app/build.gradle.kts", Content: appGradle(p)},
		{Path: layout.Manifest(), Content: manifest},
		{Path: layout.Entry(), Content: mainActivity(p, layout)},
		{Path: layout.Theme(), Content: kotlinTheme(p, layout)},
	}, nil
}

// GradleCoordinate turns "group:artifact@version" into "group:artifact:version"
func GradleCoordinate(d types.Dependency) string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + ":" + d.Version
}

// minSDK returns the highest integer MinVersion any component asks for
func minSDK(p *Project) int {
	best := defaultMinSDK
	for _, c := range p.Components {
		if v, err := strconv.Atoi(strings.TrimSpace(c.MinVersion)); err == nil && v > best {
			best = v
		}
	}
	return best
}

func settingsGradle(p *Project) string {
	return fmt.Sprintf(`pluginManagement {
    repositories {
        google()
        mavenCentral()
        gradlePluginPortal()
    }
}

dependencyResolutionManagement {
    repositories {
        google()
        mavenCentral()
    }
}

rootProject.name = %s
include(":app")
`, quote(p.AppName))
}

const rootGradle = `plugins {
    id("com.android.application") version "8.5.1" apply false
    id("org.jetbrains.kotlin.android") version "1.9.24" apply false
}
`

func appGradle(p *Project) string {
	var b strings.Builder
	b.WriteString("plugins {\n    id(\"com.android.application\")\n    id(\"org.jetbrains.kotlin.android\")\n}\n\n")
	b.WriteString("android {\n")
	fmt.Fprintf(&b, "    namespace = %s\n", quote(p.Package))
	b.WriteString("    compileSdk = 34\n\n    defaultConfig {\n")
	fmt.Fprintf(&b, "        applicationId = %s\n", quote(p.Package))
	fmt.Fprintf(&b, "        minSdk = %d\n", minSDK(p))
	b.WriteString("        targetSdk = 34\n        versionCode = 1\n        versionName = \"0.1.0\"\n    }\n\n")
	b.WriteString("    buildFeatures {\n        compose = true\n    }\n\n")
	b.WriteString("    composeOptions {\n        kotlinCompilerExtensionVersion = \"1.5.14\"\n    }\n}\n\n")
	b.WriteString("dependencies {\n")
	for _, d := range p.Dependencies {
		fmt.Fprintf(&b, "    implementation(%s)\n", quote(GradleCoordinate(d)))
	}
	b.WriteString("}\n")
	return b.String()
}

func androidManifest(p *Project) (string, error) {
	var label bytes.Buffer
	if err := xml.EscapeText(&label, []byte(p.AppName)); err != nil {
		return "", err
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application
        android:label="%s"
        android:theme="@android:style/Theme.Material.Light.NoActionBar">
        <activity
            android:name=".MainActivity"
            android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>
</manifest>
`, label.String()), nil
}

func mainActivity(p *Project, layout paths.Android) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", p.Package)
	b.WriteString("import android.os.Bundle\n")
	b.WriteString("import androidx.activity.ComponentActivity\n")
	b.WriteString("import androidx.activity.compose.setContent\n")
	b.WriteString("import androidx.compose.foundation.layout.Column\n")
	b.WriteString("import androidx.compose.material3.MaterialTheme\n")
	fmt.Fprintf(&b, "import %s.*\n\n", layout.ComponentsPackage())
	b.WriteString("class MainActivity : ComponentActivity() {\n")
	b.WriteString("    override fun onCreate(savedInstanceState: Bundle?) {\n")
	b.WriteString("        super.onCreate(savedInstanceState)\n")
	b.WriteString("        setContent {\n            MaterialTheme {\n                Column {\n")
	for _, c := range p.Placed() {
		fmt.Fprintf(&b, "                    %s()\n", c.Name)
	}
	b.WriteString("                }\n            }\n        }\n    }\n}\n")
	return b.String()
}

func kotlinTheme(p *Project, layout paths.Android) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\nobject AppTheme {\n", layout.ThemePackage())
	writeGroup := func(name string, tokens map[string]string) {
		fmt.Fprintf(&b, "    object %s {\n", name)
		sorted := sortedTokens(tokens)
		for i, name := range tokenNames(sorted, constName) {
			fmt.Fprintf(&b, "        const val %s = %s\n", name, quote(sorted[i].Value))
		}
		b.WriteString("    }\n")
	}
	writeGroup("Colors", p.Theme.Colors)
	writeGroup("Typography", p.Theme.Typography)
	b.WriteString("}\n")
	return b.String()
}

// constName converts a token name to UPPER_SNAKE
func constName(token string) string {
	name := utils.Upper(utils.Snake(token))
	if name == "" {
		return "TOKEN"
	}
	if r := name[0]; r >= '0' && r <= '9' {
		return "T_" + name
	}
	return name
}
