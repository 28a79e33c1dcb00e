package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsfuse/pkg/mass"
)

func TestYager(t *testing.T) {
	f := mustFrame(t, "a", "b")
	m3 := mustBBA(t, f, map[string]float64{"{a}": 0.8, "{b}": 0.2})
	m4 := mustBBA(t, f, map[string]float64{"{a}": 0.1, "{b}": 0.9})

	t.Run("moves conflict onto the full frame", func(t *testing.T) {
		got, err := Yager(m3, m4)
		require.NoError(t, err)
		assert.InDelta(t, 0.08, got.Mass(mustSubset(t, f, "a")), 1e-12)
		assert.InDelta(t, 0.18, got.Mass(mustSubset(t, f, "b")), 1e-12)
		assert.InDelta(t, 0.74, got.Mass(f.Full()), 1e-12)
		assert.True(t, got.IsNormalized())
	})

	t.Run("survives total contradiction", func(t *testing.T) {
		ma := mustBBA(t, f, map[string]float64{"{a}": 1})
		mb := mustBBA(t, f, map[string]float64{"{b}": 1})
		got, err := Yager(ma, mb)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Mass(f.Full()), 1e-12)
	})
}

func TestDuboisPrade(t *testing.T) {
	t.Run("matches Yager on a two-element frame", func(t *testing.T) {
		f := mustFrame(t, "a", "b")
		m3 := mustBBA(t, f, map[string]float64{"{a}": 0.8, "{b}": 0.2})
		m4 := mustBBA(t, f, map[string]float64{"{a}": 0.1, "{b}": 0.9})

		got, err := DuboisPrade(m3, m4)
		require.NoError(t, err)
		assert.InDelta(t, 0.08, got.Mass(mustSubset(t, f, "a")), 1e-12)
		assert.InDelta(t, 0.18, got.Mass(mustSubset(t, f, "b")), 1e-12)
		assert.InDelta(t, 0.74, got.Mass(f.Full()), 1e-12)
	})

	t.Run("diverges from Yager on a three-element frame", func(t *testing.T) {
		f := mustFrame(t, "a", "b", "c")
		m5 := mustBBA(t, f, map[string]float64{"{a,b}": 0.5, "{c}": 0.5})
		m6 := mustBBA(t, f, map[string]float64{"{b,c}": 0.5, "{a}": 0.5})

		// the only conflicting pair is {c} vs {a}, product 0.25
		dp, err := DuboisPrade(m5, m6)
		require.NoError(t, err)
		yg, err := Yager(m5, m6)
		require.NoError(t, err)

		ac := mustSubset(t, f, "a", "c")
		assert.InDelta(t, 0.25, dp.Mass(ac), 1e-12)
		assert.Zero(t, dp.Mass(f.Full()))
		assert.Zero(t, yg.Mass(ac))
		assert.InDelta(t, 0.25, yg.Mass(f.Full()), 1e-12)
		assert.False(t, dp.AlmostEqual(yg, 1e-6))
	})
}

func TestZhang(t *testing.T) {
	f := mustFrame(t, "a", "b")
	m1 := mustBBA(t, f, map[string]float64{"{a}": 0.4, "{b}": 0.2, "{a,b}": 0.4})
	m2 := mustBBA(t, f, map[string]float64{"{a}": 0.2, "{b}": 0.6, "{a,b}": 0.2})

	t.Run("adds conflict to plausible focals then renormalizes", func(t *testing.T) {
		// conjunctive {a:0.24, b:0.40, ab:0.08}, K=0.28; both singletons
		// absorb K, the full frame does not, then the total 1.28 rescales
		got, err := Zhang(m1, m2)
		require.NoError(t, err)
		assert.InDelta(t, 0.52/1.28, got.Mass(mustSubset(t, f, "a")), 1e-12)
		assert.InDelta(t, 0.68/1.28, got.Mass(mustSubset(t, f, "b")), 1e-12)
		assert.InDelta(t, 0.08/1.28, got.Mass(f.Full()), 1e-12)
		assert.True(t, got.IsNormalized())
	})

	t.Run("no conflict means plain conjunctive", func(t *testing.T) {
		got, err := Zhang(m1, mass.Vacuous(f))
		require.NoError(t, err)
		assert.True(t, got.AlmostEqual(m1, 1e-12))
	})
}
