package optional_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/umaroster/internal/optional"
)

func TestZeroValue_IsAbsent(t *testing.T) {
	var v optional.Value[string]
	_, ok := v.Get()
	assert.False(t, ok)
	assert.False(t, v.IsPresent())
	assert.Equal(t, "fallback", v.OrElse("fallback"))
}

func TestSome_Get(t *testing.T) {
	v := optional.Some("Shooting Star")
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "Shooting Star", got)
}

func TestOr_SkipsNextWhenPresent(t *testing.T) {
	called := false
	v := optional.Some(1).Or(func() optional.Value[int] {
		called = true
		return optional.Some(2)
	})
	assert.False(t, called)
	assert.Equal(t, 1, v.OrElse(0))
}

func TestOr_FallsThroughWhenAbsent(t *testing.T) {
	v := optional.None[int]().Or(func() optional.Value[int] { return optional.Some(2) })
	assert.Equal(t, 2, v.OrElse(0))
}

func TestProperty_SomeRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		got, ok := optional.Some(s).Get()
		assert.True(rt, ok)
		assert.Equal(rt, s, got)
	})
}
