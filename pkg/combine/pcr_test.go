package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsfuse/pkg/mass"
)

func TestPCR5(t *testing.T) {
	f := mustFrame(t, "a", "b")
	m3 := mustBBA(t, f, map[string]float64{"{a}": 0.8, "{b}": 0.2})
	m4 := mustBBA(t, f, map[string]float64{"{a}": 0.1, "{b}": 0.9})

	t.Run("redistributes conflict proportionally to the pair", func(t *testing.T) {
		got, err := PCR5(m3, m4)
		require.NoError(t, err)
		assert.InDelta(t, 0.4254901960784314, got.Mass(mustSubset(t, f, "a")), 1e-12)
		assert.InDelta(t, 0.5745098039215687, got.Mass(mustSubset(t, f, "b")), 1e-12)
		assert.True(t, got.IsNormalized())
	})

	t.Run("is commutative", func(t *testing.T) {
		ab, err := PCR5(m3, m4)
		require.NoError(t, err)
		ba, err := PCR5(m4, m3)
		require.NoError(t, err)
		assert.True(t, ab.AlmostEqual(ba, 1e-12))
	})

	t.Run("survives total contradiction", func(t *testing.T) {
		ma := mustBBA(t, f, map[string]float64{"{a}": 1})
		mb := mustBBA(t, f, map[string]float64{"{b}": 1})
		got, err := PCR5(ma, mb)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, got.Mass(mustSubset(t, f, "a")), 1e-12)
		assert.InDelta(t, 0.5, got.Mass(mustSubset(t, f, "b")), 1e-12)
	})
}

func TestPCR6(t *testing.T) {
	f := mustFrame(t, "a", "b")
	m3 := mustBBA(t, f, map[string]float64{"{a}": 0.8, "{b}": 0.2})
	m4 := mustBBA(t, f, map[string]float64{"{a}": 0.1, "{b}": 0.9})

	t.Run("no sources is an error", func(t *testing.T) {
		_, err := PCR6()
		assert.ErrorIs(t, err, mass.ErrValidation)
	})

	t.Run("single source is copied", func(t *testing.T) {
		got, err := PCR6(m3)
		require.NoError(t, err)
		assert.True(t, got.AlmostEqual(m3, 0))
	})

	t.Run("coincides with PCR5 for two sources", func(t *testing.T) {
		p6, err := PCR6(m3, m4)
		require.NoError(t, err)
		p5, err := PCR5(m3, m4)
		require.NoError(t, err)
		assert.True(t, p6.AlmostEqual(p5, 1e-12))
	})

	t.Run("three fully agreeing sources stay put", func(t *testing.T) {
		ma := mustBBA(t, f, map[string]float64{"{a}": 1})
		got, err := PCR6(ma, ma, ma)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Mass(mustSubset(t, f, "a")), 1e-12)
	})

	t.Run("redistributes every conflicting tuple", func(t *testing.T) {
		// three deterministic contradictory sources: every tuple where the
		// choices disagree is conflicting, and each member gets its share
		ma := mustBBA(t, f, map[string]float64{"{a}": 1})
		mb := mustBBA(t, f, map[string]float64{"{b}": 1})
		got, err := PCR6(ma, ma, mb)
		require.NoError(t, err)
		// single tuple (a, a, b): masses 1,1,1 → a takes 2/3, b takes 1/3
		assert.InDelta(t, 2.0/3.0, got.Mass(mustSubset(t, f, "a")), 1e-12)
		assert.InDelta(t, 1.0/3.0, got.Mass(mustSubset(t, f, "b")), 1e-12)
	})
}
