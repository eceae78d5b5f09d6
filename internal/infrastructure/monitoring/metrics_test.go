package monitoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

func TestCompileFinished(t *testing.T) {
	m := NewMetrics()

	m.CompileFinished(&types.CompilationResult{
		Platform: types.PlatformAndroid,
		Status:   types.StatusPartiallySucceeded,
		Warnings: []*errors.Issue{errors.NewUnsupportedOnPlatform("buy", "button", "android")},
	}, 2*time.Millisecond)
	m.CompileFinished(&types.CompilationResult{
		Platform: types.PlatformWeb,
		Status:   types.StatusFailed,
		Files:    []types.File{{Path: "src/components/A.tsx"}},
		Errors:   []*errors.Issue{errors.NewUnknownCapsule("a", "alert")},
	}, time.Millisecond)

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.Compilations)
	assert.EqualValues(t, 1, snap.Failed)
	assert.EqualValues(t, 1, snap.Warnings)
	assert.EqualValues(t, 1, snap.Errors)
	assert.InDelta(t, 0.003, snap.TotalDuration, 1e-9)

	text, err := m.GetMetricsPrometheus()
	require.NoError(t, err)
	assert.Contains(t, text, `capsulec_compilations_total{platform="android",status="partially_succeeded"} 1`)
	assert.Contains(t, text, `capsulec_issues_total{code="UNSUPPORTED_ON_PLATFORM",platform="android",severity="warning"} 1`)
	assert.Contains(t, text, `capsulec_files_emitted_total{platform="web"} 1`)
}

func TestCacheAndRegistry(t *testing.T) {
	m := NewMetrics()
	m.CacheLookup(types.PlatformIOS, false)
	m.CacheLookup(types.PlatformIOS, true)
	m.CacheLookup(types.PlatformIOS, true)
	m.StateEntered(types.PlatformIOS, "validating")
	m.RegistryChanged(types.RegistryStats{TotalCapsules: 7, Version: 3})

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.CacheHits)
	assert.EqualValues(t, 1, snap.CacheMisses)

	text, err := m.GetMetricsPrometheus()
	require.NoError(t, err)
	assert.Contains(t, text, `capsulec_cache_lookups_total{platform="ios",result="hit"} 2`)
	assert.Contains(t, text, `capsulec_compiler_state_entries_total{platform="ios",state="validating"} 1`)
	assert.Contains(t, text, "capsulec_registry_capsules 7")
	assert.Contains(t, text, "capsulec_registry_version 3")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.CacheLookup(types.PlatformWeb, true)
	assert.Zero(t, b.Snapshot().CacheHits)
}

func TestWriteFile(t *testing.T) {
	m := NewMetrics()
	m.RegistryChanged(types.RegistryStats{TotalCapsules: 1, Version: 1})

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TYPE capsulec_registry_capsules gauge")
}
