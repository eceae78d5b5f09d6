package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/capsulec/internal/domain/registry"
	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

func capsule(id string, impls map[types.Platform][]string) types.CapsuleDefinition {
	platforms := make(map[types.Platform]types.PlatformImplementation, len(impls))
	for p, d := range impls {
		platforms[p] = types.PlatformImplementation{Framework: "x", CodeTemplate: "x", Dependencies: d}
	}
	return types.CapsuleDefinition{ID: id, Name: id, Category: "c", Version: "1.0.0", Platforms: platforms}
}

func TestParse(t *testing.T) {
	tests := []struct {
		decl, name, version string
	}{
		{"lib@1.2.0", "lib", "1.2.0"},
		{"@scope/pkg@^2.0.0", "@scope/pkg", "^2.0.0"},
		{"@scope/pkg", "@scope/pkg", ""},
		{"androidx.compose.material3:material3@1.2.1", "androidx.compose.material3:material3", "1.2.1"},
		{"plain", "plain", ""},
	}
	for _, tt := range tests {
		name, version := Parse(tt.decl)
		assert.Equal(t, tt.name, name, tt.decl)
		assert.Equal(t, tt.version, version, tt.decl)
	}
}

func TestCompare(t *testing.T) {
	cmp, ok := Compare("^1.2.0", "~1.10.0")
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = Compare("v2", ">=1.9.9")
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	_, ok = Compare("latest", "1.0.0")
	assert.False(t, ok)
}

func TestHighestVersionWins(t *testing.T) {
	m := Merge(types.PlatformWeb, "lib@1.2.0", "other@3.0.0", "lib@1.4.0")
	assert.Equal(t, []types.Dependency{
		{Name: "lib", Version: "1.4.0"},
		{Name: "other", Version: "3.0.0"},
	}, m.Dependencies)
	assert.Empty(t, m.Warnings)
}

func TestMajorVersionConflictWarns(t *testing.T) {
	m := Merge(types.PlatformWeb, "react@^18.2.0", "react@17.0.2")
	require.Len(t, m.Dependencies, 1)
	assert.Equal(t, "^18.2.0", m.Dependencies[0].Version)

	require.Len(t, m.Warnings, 1)
	assert.Equal(t, errors.ErrVersionConflict, m.Warnings[0].Code)
	assert.Equal(t, "^18.2.0", m.Warnings[0].Details["kept"])
}

func TestUnparseableKeepsFirstSeen(t *testing.T) {
	m := Merge(types.PlatformIOS, "kit@latest", "kit@2.0.0")
	assert.Equal(t, "latest", m.Dependencies[0].Version)
	require.Len(t, m.Warnings, 1)
	assert.Equal(t, errors.ErrVersionConflict, m.Warnings[0].Code)
}

func TestEmptyVersionYields(t *testing.T) {
	m := Merge(types.PlatformWeb, "clsx", "clsx@2.1.0", "clsx")
	assert.Equal(t, []types.Dependency{{Name: "clsx", Version: "2.1.0"}}, m.Dependencies)
	assert.Empty(t, m.Warnings)
}

func TestAggregateSkipsUnsupported(t *testing.T) {
	snap, err := registry.NewSnapshot(
		capsule("button", map[types.Platform][]string{
			types.PlatformWeb:     {"clsx@2.0.0"},
			types.PlatformAndroid: {"androidx.compose.material3:material3@1.2.1"},
		}),
		capsule("chart", map[types.Platform][]string{
			types.PlatformWeb: {"recharts@2.12.0", "clsx@2.1.0"},
		}),
	)
	require.NoError(t, err)

	uses := []Use{
		{InstanceID: "buy", CapsuleID: "button"},
		{InstanceID: "sales", CapsuleID: "chart"},
		{InstanceID: "sales-2", CapsuleID: "chart"},
	}

	web := NewAggregator(nil).Aggregate(snap, uses, types.PlatformWeb)
	assert.Equal(t, []types.Dependency{
		{Name: "clsx", Version: "2.1.0"},
		{Name: "recharts", Version: "2.12.0"},
	}, web.Dependencies)
	assert.Empty(t, web.Warnings)

	android := NewAggregator(nil).Aggregate(snap, uses, types.PlatformAndroid)
	assert.Equal(t, []types.Dependency{
		{Name: "androidx.compose.material3:material3", Version: "1.2.1"},
	}, android.Dependencies)
	require.Len(t, android.Warnings, 2)
	for _, w := range android.Warnings {
		assert.Equal(t, errors.ErrUnsupportedOnPlatform, w.Code)
	}
}

func TestAggregateBaselineFirst(t *testing.T) {
	snap, err := registry.NewSnapshot(capsule("button", map[types.Platform][]string{
		types.PlatformWeb: {"react@^18.3.1", "clsx@2.1.0"},
	}))
	require.NoError(t, err)

	m := NewAggregator(nil).Aggregate(snap, []Use{{InstanceID: "b", CapsuleID: "button"}}, types.PlatformWeb,
		"react@^18.2.0", "react-dom@^18.2.0")
	assert.Equal(t, []types.Dependency{
		{Name: "react", Version: "^18.3.1"},
		{Name: "react-dom", Version: "^18.2.0"},
		{Name: "clsx", Version: "2.1.0"},
	}, m.Dependencies)
}
