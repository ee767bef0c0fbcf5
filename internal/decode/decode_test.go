package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/umaroster/internal/decode"
)

func TestUniqueTraitOf_BaseOutfit(t *testing.T) {
	u, ok := decode.UniqueTraitOf(10060101)
	require.True(t, ok)
	assert.Equal(t, 60, u.CharaIndex)
	assert.Equal(t, 1, u.Variant)
	assert.Equal(t, uint64(100061), u.SkillID)
}

func TestUniqueTraitOf_AltOutfit(t *testing.T) {
	u, ok := decode.UniqueTraitOf(10060201)
	require.True(t, ok)
	assert.Equal(t, 2, u.Variant)
	assert.Equal(t, uint64(110061), u.SkillID)
}

func TestUniqueTraitOf_OutOfRange(t *testing.T) {
	for _, id := range []uint64{0, 9_999_999, 20_000_000, 2004901} {
		_, ok := decode.UniqueTraitOf(id)
		assert.False(t, ok, "id %d", id)
	}
}

func TestSkillTraitCandidates(t *testing.T) {
	got, ok := decode.SkillTraitCandidates(2004901)
	require.True(t, ok)
	assert.Equal(t, []uint64{200491, 200492, 200493, 200494, 200495, 200496, 200497, 200498, 200499}, got)

	_, ok = decode.SkillTraitCandidates(1000101)
	assert.False(t, ok)
}

func TestRaceTraitTextID(t *testing.T) {
	got, ok := decode.RaceTraitTextID(1001001)
	require.True(t, ok)
	assert.Equal(t, uint64(1010), got)

	_, ok = decode.RaceTraitTextID(101)
	assert.False(t, ok)
}

func TestStarLevel(t *testing.T) {
	cases := []struct {
		id   uint64
		want int
		ok   bool
	}{
		{10060101, 1, true},
		{10060102, 2, true},
		{10060103, 3, true},
		{10060100, 0, false},
		{10060104, 0, false},
		{3, 3, true},
	}
	for _, tc := range cases {
		got, ok := decode.StarLevel(tc.id)
		assert.Equal(t, tc.ok, ok, "id %d", tc.id)
		assert.Equal(t, tc.want, got, "id %d", tc.id)
	}
}

func TestCharaID(t *testing.T) {
	assert.Equal(t, uint64(1056), decode.CharaID(105602))
}

func TestLeadingDigit(t *testing.T) {
	assert.Equal(t, byte('3'), decode.LeadingDigit(30028))
	assert.Equal(t, byte('0'), decode.LeadingDigit(0))
	assert.Equal(t, byte('7'), decode.LeadingDigit(7))
}

func TestSkillPrefix(t *testing.T) {
	p, ok := decode.SkillPrefix(100061)
	require.True(t, ok)
	assert.Equal(t, "10", p)

	p, ok = decode.SkillPrefix(910061)
	require.True(t, ok)
	assert.Equal(t, "91", p)

	_, ok = decode.SkillPrefix(20061)
	assert.False(t, ok)
	_, ok = decode.SkillPrefix(2000611)
	assert.False(t, ok)
}

func TestProperty_UniqueTraitIgnoresStarSuffix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Uint64Range(100_000, 199_999).Draw(rt, "base")
		a := rapid.Uint64Range(0, 99).Draw(rt, "a")
		b := rapid.Uint64Range(0, 99).Draw(rt, "b")
		ua, okA := decode.UniqueTraitOf(base*100 + a)
		ub, okB := decode.UniqueTraitOf(base*100 + b)
		assert.True(rt, okA)
		assert.True(rt, okB)
		assert.Equal(rt, ua.SkillID, ub.SkillID)
	})
}

func TestProperty_SkillTraitGroupIgnoresStarSuffix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Uint64Range(20_000, 29_999).Draw(rt, "base")
		a := rapid.Uint64Range(0, 99).Draw(rt, "a")
		b := rapid.Uint64Range(0, 99).Draw(rt, "b")
		ca, _ := decode.SkillTraitCandidates(base*100 + a)
		cb, _ := decode.SkillTraitCandidates(base*100 + b)
		assert.Equal(rt, ca, cb)
	})
}

func TestProperty_DecodersAreTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		id := rapid.Uint64().Draw(rt, "id")
		assert.NotPanics(rt, func() {
			decode.UniqueTraitOf(id)
			decode.SkillTraitCandidates(id)
			decode.RaceTraitTextID(id)
			decode.StarLevel(id)
			decode.LeadingDigit(id)
			decode.SkillPrefix(id)
		})
	})
}
