package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

func testCapsule(id, category string, tags []string, platforms ...types.Platform) types.CapsuleDefinition {
	impls := make(map[types.Platform]types.PlatformImplementation, len(platforms))
	for _, p := range platforms {
		impls[p] = types.PlatformImplementation{Framework: string(p), CodeTemplate: "{{label}}"}
	}
	return types.CapsuleDefinition{
		ID:        id,
		Name:      id,
		Category:  category,
		Tags:      tags,
		Version:   "1.0.0",
		Props:     []types.PropSpec{{Name: "label", Type: types.PropString, Required: true}},
		Platforms: impls,
	}
}

type recordingObserver struct {
	mu    sync.Mutex
	stats []types.RegistryStats
}

func (o *recordingObserver) RegistryChanged(stats types.RegistryStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stats = append(o.stats, stats)
}

func TestRegisterAndGet(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register(testCapsule("button", "input", nil, types.PlatformWeb)))

	def, ok := m.Get("button")
	require.True(t, ok)
	assert.Equal(t, "button", def.ID)
	assert.True(t, m.SupportsPlatform("button", types.PlatformWeb))
	assert.False(t, m.SupportsPlatform("button", types.PlatformAndroid))
	assert.False(t, m.SupportsPlatform("missing", types.PlatformWeb))
}

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	m := NewManager()
	x := testCapsule("x", "misc", nil, types.PlatformIOS)

	require.NoError(t, m.Register(x))
	assert.True(t, m.Unregister(x.ID))

	_, ok := m.Get(x.ID)
	assert.False(t, ok)
	assert.False(t, m.Unregister(x.ID), "second unregister should report no entry")
}

func TestRegisterOverwritesByID(t *testing.T) {
	m := NewManager()
	first := testCapsule("card", "layout", nil, types.PlatformWeb)
	second := testCapsule("card", "layout", nil, types.PlatformWeb, types.PlatformIOS)
	second.Version = "2.0.0"

	require.NoError(t, m.Register(first))
	require.NoError(t, m.Register(second))

	def, ok := m.Get("card")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", def.Version)
	assert.Len(t, m.List(), 1)
}

func TestRegisterRejectsInvalidShape(t *testing.T) {
	m := NewManager()
	bad := testCapsule("dup", "misc", nil, types.PlatformWeb)
	bad.Props = append(bad.Props, types.PropSpec{Name: "label", Type: types.PropString})

	err := m.Register(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCapsule))
	assert.Equal(t, 0, m.Snapshot().Len())
}

func TestRegisterDoesNotAliasCallerData(t *testing.T) {
	m := NewManager()
	def := testCapsule("alias", "misc", []string{"a"}, types.PlatformWeb)
	require.NoError(t, m.Register(def))

	def.Tags[0] = "mutated"
	stored, _ := m.Get("alias")
	assert.Equal(t, "a", stored.Tags[0])
}

func TestListFilters(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.RegisterAll([]types.CapsuleDefinition{
		testCapsule("input", "forms", []string{"text"}, types.PlatformWeb),
		testCapsule("checkbox", "forms", []string{"toggle"}, types.PlatformWeb),
		testCapsule("hero", "marketing", []string{"text"}, types.PlatformIOS),
	}))

	all := m.List()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"checkbox", "hero", "input"}, ids(all))

	assert.Equal(t, []string{"checkbox", "input"}, ids(m.ListByCategory("forms")))
	assert.Equal(t, []string{"hero", "input"}, ids(m.ListByTag("text")))
	assert.Empty(t, m.ListByTag("absent"))
}

func TestVersionAdvancesOnMutation(t *testing.T) {
	m := NewManager()
	v0 := m.Version()

	require.NoError(t, m.Register(testCapsule("a", "misc", nil, types.PlatformWeb)))
	v1 := m.Version()
	assert.Greater(t, v1, v0)

	m.Unregister("missing")
	assert.Equal(t, v1, m.Version(), "no-op unregister must not bump the version")

	m.Unregister("a")
	assert.Greater(t, m.Version(), v1)
}

func TestSnapshotIsolation(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register(testCapsule("a", "misc", nil, types.PlatformWeb)))

	snap := m.Snapshot()
	require.NoError(t, m.Register(testCapsule("b", "misc", nil, types.PlatformWeb)))
	m.Unregister("a")

	_, ok := snap.Get("a")
	assert.True(t, ok, "older snapshot keeps its view")
	_, ok = snap.Get("b")
	assert.False(t, ok)
}

func TestStatsAndObserver(t *testing.T) {
	obs := &recordingObserver{}
	m := NewManager().WithObserver(obs)

	require.NoError(t, m.Register(testCapsule("a", "forms", nil, types.PlatformWeb, types.PlatformIOS)))
	require.NoError(t, m.Register(testCapsule("b", "forms", nil, types.PlatformWeb)))

	stats := m.Stats()
	assert.Equal(t, 2, stats.TotalCapsules)
	assert.Equal(t, 2, stats.Categories["forms"])
	assert.Equal(t, 2, stats.Platforms[types.PlatformWeb])
	assert.Equal(t, 1, stats.Platforms[types.PlatformIOS])

	require.Len(t, obs.stats, 2)
	assert.Equal(t, 2, obs.stats[1].TotalCapsules)

	m.Reset()
	assert.Equal(t, 0, m.Stats().TotalCapsules)
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("c-%d-%d", w, i)
				_ = m.Register(testCapsule(id, "misc", nil, types.PlatformWeb))
				if i%2 == 0 {
					m.Unregister(id)
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := m.Snapshot()
				for _, def := range snap.List() {
					_, ok := snap.Get(def.ID)
					assert.True(t, ok)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4*25, m.Snapshot().Len())
}

func TestNewSnapshot(t *testing.T) {
	snap, err := NewSnapshot(testCapsule("a", "misc", nil, types.PlatformWeb))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, uint64(1), snap.Version())

	bad := testCapsule("", "misc", nil, types.PlatformWeb)
	_, err = NewSnapshot(bad)
	assert.Error(t, err)
}

func ids(defs []*types.CapsuleDefinition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ID
	}
	return out
}
