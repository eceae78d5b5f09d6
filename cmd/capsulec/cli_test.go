package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/GriffinCanCode/capsulec/internal/infrastructure/config"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

const buttonYAML = `id: button
name: Button
category: input
tags: [cta]
version: 1.2.0
props:
  - name: label
    type: string
    required: true
platforms:
  web:
    framework: react
    dependencies: ["clsx@2.1.0"]
    codeTemplate: "<button>{{label}}</button>"
  ios:
    framework: swiftui
    codeTemplate: 'Button({{label | quote}}) {}'
`

const shopYAML = `appName: Shop
targets: [web, android]
root:
  - button#buy:
      label: Buy
`

// fixture writes a catalog and a composition into a temp dir.
func fixture(t *testing.T, composition string) (catalog, compPath string) {
	t.Helper()
	dir := t.TempDir()
	catalog = filepath.Join(dir, "capsules")
	require.NoError(t, os.MkdirAll(catalog, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(catalog, "button.yaml"), []byte(buttonYAML), 0o644))
	compPath = filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(compPath, []byte(composition), 0o644))
	return catalog, compPath
}

// run executes the CLI and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	app := newCLIApp(cfg)
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"capsulec"}, args...))
	return out.String(), err
}

func exitCode(err error) int {
	if exit, ok := err.(cli.ExitCoder); ok {
		return exit.ExitCode()
	}
	return -1
}

func TestCompileWritesProjects(t *testing.T) {
	catalog, comp := fixture(t, shopYAML)
	outDir := filepath.Join(t.TempDir(), "build")
	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")

	stdout, err := run(t, "--catalog", catalog, "compile", "--out", outDir, "--metrics-out", metricsPath, comp)
	require.NoError(t, err)

	var summaries []compileSummary
	require.NoError(t, sonic.UnmarshalString(stdout, &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, types.PlatformWeb, summaries[0].Platform)
	assert.Equal(t, types.StatusSucceeded, summaries[0].Status)
	assert.Equal(t, filepath.Join(outDir, "web"), summaries[0].Output)
	assert.Equal(t, types.PlatformAndroid, summaries[1].Platform)
	assert.Equal(t, types.StatusPartiallySucceeded, summaries[1].Status)
	assert.Zero(t, summaries[1].Files)
	assert.Empty(t, summaries[1].Output)

	_, err = os.Stat(filepath.Join(outDir, "web", "src", "components", "ButtonBuy.tsx"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "android"))
	assert.True(t, os.IsNotExist(err))

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `capsulec_compilations_total{platform="web",status="succeeded"} 1`)
}

func TestCompileTargetOverrideAndArchive(t *testing.T) {
	catalog, comp := fixture(t, shopYAML)
	outDir := t.TempDir()

	stdout, err := run(t, "--catalog", catalog, "compile", "--target", "ios", "--archive", "gzip", "--out", outDir, comp)
	require.NoError(t, err)

	var summaries []compileSummary
	require.NoError(t, sonic.UnmarshalString(stdout, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, types.PlatformIOS, summaries[0].Platform)
	assert.Equal(t, filepath.Join(outDir, "ios.tar.gz"), summaries[0].Output)
}

func TestCompileDryRun(t *testing.T) {
	catalog, comp := fixture(t, shopYAML)
	outDir := filepath.Join(t.TempDir(), "build")

	_, err := run(t, "--catalog", catalog, "compile", "--dry-run", "--out", outDir, comp)
	require.NoError(t, err)
	_, err = os.Stat(outDir)
	assert.True(t, os.IsNotExist(err))
}

func TestCompileUnknownTargetFails(t *testing.T) {
	catalog, comp := fixture(t, shopYAML)

	stdout, err := run(t, "--catalog", catalog, "compile", "--dry-run", "--target", "web", "--target", "watchos", comp)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, stdout, "UNKNOWN_PLATFORM")
}

func TestCompileRejectsInvalidComposition(t *testing.T) {
	catalog, comp := fixture(t, "appName: Shop\nroot:\n  - button#buy\n")

	_, err := run(t, "--catalog", catalog, "compile", "--dry-run", comp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING_REQUIRED_PROP")
}

func TestValidate(t *testing.T) {
	catalog, comp := fixture(t, shopYAML)

	stdout, err := run(t, "--catalog", catalog, "validate", comp)
	require.NoError(t, err)

	var report validationReport
	require.NoError(t, sonic.UnmarshalString(stdout, &report))
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.Instances)
}

func TestValidateReportsEveryIssue(t *testing.T) {
	catalog, comp := fixture(t, `appName: Shop
root:
  - button#a: {label: Hi, colour: red}
  - slider#b
`)

	stdout, err := run(t, "--catalog", catalog, "validate", comp)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	var report validationReport
	require.NoError(t, sonic.UnmarshalString(stdout, &report))
	assert.False(t, report.Valid)
	require.Len(t, report.Issues, 2)

	// Lenient mode drops the undeclared prop complaint
	stdout, err = run(t, "--catalog", catalog, "--prop-mode", "lenient", "validate", comp)
	require.Error(t, err)
	require.NoError(t, sonic.UnmarshalString(stdout, &report))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "UNKNOWN_CAPSULE", string(report.Issues[0].Code))
}

func TestCatalogListAndShow(t *testing.T) {
	catalog, _ := fixture(t, shopYAML)

	stdout, err := run(t, "--catalog", catalog, "catalog", "list", "--tag", "cta")
	require.NoError(t, err)
	var list []capsuleSummary
	require.NoError(t, sonic.UnmarshalString(stdout, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "button", list[0].ID)
	assert.Equal(t, []types.Platform{types.PlatformIOS, types.PlatformWeb}, list[0].Platforms)

	stdout, err = run(t, "--catalog", catalog, "catalog", "list", "--category", "layout")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)

	stdout, err = run(t, "--catalog", catalog, "catalog", "show", "button")
	require.NoError(t, err)
	var def types.CapsuleDefinition
	require.NoError(t, sonic.UnmarshalString(stdout, &def))
	assert.Equal(t, "1.2.0", def.Version)

	_, err = run(t, "--catalog", catalog, "catalog", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_FOUND")
}

func TestUnknownArchive(t *testing.T) {
	catalog, comp := fixture(t, shopYAML)
	_, err := run(t, "--catalog", catalog, "compile", "--archive", "rar", comp)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestCatalogDocs(t *testing.T) {
	catalog, _ := fixture(t, shopYAML)

	stdout, err := run(t, "--catalog", catalog, "catalog", "docs", "--title", "Shop capsules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<title>Shop capsules</title>")
	assert.Contains(t, stdout, `<section id="button">`)

	out := filepath.Join(t.TempDir(), "catalog.html")
	stdout, err = run(t, "--catalog", catalog, "catalog", "docs", "--out", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "clsx@2.1.0")
}
