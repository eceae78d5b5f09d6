package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	in := map[interface{}]interface{}{
		"count": uint64(3),
		"ratio": float32(0.5),
		"tags":  []string{"a", "b"},
		"nested": map[string]interface{}{
			"n": int64(-2),
		},
	}

	out := NormalizeValue(in)
	assert.Equal(t, map[string]interface{}{
		"count":  float64(3),
		"ratio":  float64(0.5),
		"tags":   []interface{}{"a", "b"},
		"nested": map[string]interface{}{"n": float64(-2)},
	}, out)
}

func TestMatchesType(t *testing.T) {
	assert.True(t, MatchesType(PropString, "x"))
	assert.True(t, MatchesType(PropNumber, 3))
	assert.True(t, MatchesType(PropNumber, 2.5))
	assert.True(t, MatchesType(PropBoolean, true))
	assert.True(t, MatchesType(PropArray, []string{"a"}))
	assert.True(t, MatchesType(PropObject, map[string]interface{}{}))

	assert.False(t, MatchesType(PropString, 3))
	assert.False(t, MatchesType(PropNumber, "3"))
	assert.False(t, MatchesType(PropBoolean, "true"))
	assert.False(t, MatchesType(PropArray, "a,b"))
	assert.False(t, MatchesType(PropObject, []interface{}{}))
}

func TestContainsValueAcrossNumericKinds(t *testing.T) {
	options := []interface{}{int64(1), int64(2), "auto"}
	assert.True(t, ContainsValue(options, float64(2)))
	assert.True(t, ContainsValue(options, "auto"))
	assert.False(t, ContainsValue(options, 3))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "null", KindOf(nil))
	assert.Equal(t, "number", KindOf(7))
	assert.Equal(t, "array", KindOf([]int{1}))
	assert.Equal(t, "object", KindOf(map[string]string{}))
}
