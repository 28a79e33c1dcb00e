package mass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	t.Run("equal declared frames pass through", func(t *testing.T) {
		f1, err := NewFrame("a", "b")
		require.NoError(t, err)
		f2, err := NewFrame("b", "a")
		require.NoError(t, err)
		m1 := Vacuous(f1)
		m2 := Vacuous(f2)

		a, b, err := Align(m1, m2)
		require.NoError(t, err)
		assert.Same(t, m1, a)
		assert.Same(t, m2, b)
	})

	t.Run("different declared frames mismatch", func(t *testing.T) {
		f1, err := NewFrame("a", "b")
		require.NoError(t, err)
		f2, err := NewFrame("a", "c")
		require.NoError(t, err)

		_, _, err = Align(Vacuous(f1), Vacuous(f2))
		assert.ErrorIs(t, err, ErrFrameMismatch)
	})

	t.Run("inferred operand adopts the declared frame", func(t *testing.T) {
		f, err := NewFrame("a", "b", "c")
		require.NoError(t, err)
		declared, err := FromStrings(f, map[string]float64{"{a,b,c}": 1})
		require.NoError(t, err)
		inferred, err := FromStrings(nil, map[string]float64{"{a}": 0.4, "{b}": 0.6})
		require.NoError(t, err)

		da, db, err := Align(declared, inferred)
		require.NoError(t, err)
		assert.True(t, da.Frame().Equal(db.Frame()))
		assert.True(t, db.FrameDeclared())

		h, err := f.Subset("a")
		require.NoError(t, err)
		assert.InDelta(t, 0.4, db.Mass(h), 1e-12)
	})

	t.Run("inferred operand outside the declared frame fails", func(t *testing.T) {
		f, err := NewFrame("a", "b")
		require.NoError(t, err)
		declared := Vacuous(f)
		inferred, err := FromStrings(nil, map[string]float64{"{z}": 1})
		require.NoError(t, err)

		_, _, err = Align(declared, inferred)
		assert.Error(t, err)
	})

	t.Run("two inferred operands meet on the union frame", func(t *testing.T) {
		m1, err := FromStrings(nil, map[string]float64{"{a}": 1})
		require.NoError(t, err)
		m2, err := FromStrings(nil, map[string]float64{"{b}": 1})
		require.NoError(t, err)

		a, b, err := Align(m1, m2)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, a.Frame().Elements())
		assert.True(t, a.Frame().Equal(b.Frame()))
		assert.False(t, a.FrameDeclared())
	})
}

func TestAlignAll(t *testing.T) {
	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := AlignAll(nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("single declared frame pins everyone", func(t *testing.T) {
		f, err := NewFrame("a", "b", "c")
		require.NoError(t, err)
		m1 := Vacuous(f)
		m2, err := FromStrings(nil, map[string]float64{"{a}": 1})
		require.NoError(t, err)
		m3, err := FromStrings(nil, map[string]float64{"{b}": 0.5, "{c}": 0.5})
		require.NoError(t, err)

		out, err := AlignAll([]*MassFunction{m1, m2, m3})
		require.NoError(t, err)
		for _, m := range out {
			assert.True(t, m.Frame().Equal(f))
			assert.True(t, m.FrameDeclared())
		}
	})

	t.Run("conflicting declared frames are rejected", func(t *testing.T) {
		f1, err := NewFrame("a")
		require.NoError(t, err)
		f2, err := NewFrame("b")
		require.NoError(t, err)
		_, err = AlignAll([]*MassFunction{Vacuous(f1), Vacuous(f2)})
		assert.ErrorIs(t, err, ErrFrameMismatch)
	})
}

func TestRebase(t *testing.T) {
	small, err := NewFrame("a", "b")
	require.NoError(t, err)
	big, err := NewFrame("a", "b", "c")
	require.NoError(t, err)

	a, err := small.Subset("a")
	require.NoError(t, err)
	m, err := New(small, map[Subset]float64{a: 0.3, small.Full(): 0.7})
	require.NoError(t, err)

	r, err := m.Rebase(big)
	require.NoError(t, err)
	ba, err := big.Subset("a")
	require.NoError(t, err)
	bab, err := big.Subset("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, r.Mass(ba), 1e-12)
	assert.InDelta(t, 0.7, r.Mass(bab), 1e-12)
	// {a,b} is no longer the full frame after rebasing
	assert.Zero(t, r.Mass(big.Full()))
}
