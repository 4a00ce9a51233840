package ub

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/diffract"
	"github.com/banshee-data/diffract/hkl"
)

func TestReflectionListAddAndGetConvertsDegrees(t *testing.T) {
	l := NewReflectionList()
	pos := hkl.Position{Mu: 10, Delta: 20, Nu: 30, Eta: 40, Chi: 50, Phi: 60}

	l.Add([3]float64{0, 0, 1}, pos, 12.4, "r1")
	require.Equal(t, 1, l.Len())

	// Stored in radians.
	assert.InDelta(t, 10*math.Pi/180, l.reflections[0].Pos.Mu, tol)

	got, err := l.Get(1)
	require.NoError(t, err)
	assert.InDelta(t, 10, got.Pos.Mu, tol)
	assert.InDelta(t, 60, got.Pos.Phi, tol)
	assert.Equal(t, 12.4, got.Energy)
	assert.Equal(t, "r1", got.Tag)
	assert.Equal(t, 1.0, got.L)
}

func TestReflectionListRadiansModePassesThrough(t *testing.T) {
	l := NewReflectionListFrom(nil, false)
	pos := hkl.Position{Mu: math.Pi / 4}

	l.Add([3]float64{1, 0, 0}, pos, 10, "r1")

	got, err := l.Get(1)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, got.Pos.Mu, tol)
}

func TestReflectionListTagIndex(t *testing.T) {
	l := NewReflectionList()
	l.Add([3]float64{1, 0, 0}, hkl.Position{}, 10, "first")
	l.Add([3]float64{0, 1, 0}, hkl.Position{}, 10, "second")

	idx, err := l.TagIndex("second")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = l.TagIndex("missing")
	assert.ErrorIs(t, err, diffract.ErrConfiguration)
}

func TestReflectionListEditRemoveSwap(t *testing.T) {
	l := NewReflectionList()
	l.Add([3]float64{1, 0, 0}, hkl.Position{}, 10, "a")
	l.Add([3]float64{0, 1, 0}, hkl.Position{}, 11, "b")
	l.Add([3]float64{0, 0, 1}, hkl.Position{}, 12, "c")

	require.NoError(t, l.Edit(2, [3]float64{0, 2, 0}, hkl.Position{Eta: 5}, 11.5, "b2"))
	got, err := l.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.K)
	assert.Equal(t, "b2", got.Tag)
	assert.InDelta(t, 5, got.Pos.Eta, tol)

	require.NoError(t, l.Swap(1, 3))
	first, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "c", first.Tag)

	require.NoError(t, l.Remove(2))
	assert.Equal(t, 2, l.Len())
	second, err := l.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "a", second.Tag)

	assert.ErrorIs(t, l.Remove(0), diffract.ErrConfiguration)
	assert.ErrorIs(t, l.Remove(3), diffract.ErrConfiguration)
	assert.ErrorIs(t, l.Edit(5, [3]float64{}, hkl.Position{}, 0, ""), diffract.ErrConfiguration)
	assert.ErrorIs(t, l.Swap(1, 7), diffract.ErrConfiguration)
}

func TestReflectionListString(t *testing.T) {
	l := NewReflectionList()
	assert.Equal(t, "   <<< none specified >>>", l.String())

	l.Add([3]float64{0, 0, 1}, hkl.Position{Mu: 10, Delta: 20, Nu: 30, Eta: 40, Chi: 50, Phi: 60}, 12.4, "r1")

	lines := strings.Split(l.String(), "\n")
	require.Len(t, lines, 2)
	for _, col := range []string{"ENERGY", "H", "K", "L", "MU", "DELTA", "NU", "ETA", "CHI", "PHI", "TAG"} {
		assert.Contains(t, lines[0], col)
	}
	assert.Contains(t, lines[1], "12.400")
	assert.Contains(t, lines[1], " 1.00")
	assert.Contains(t, lines[1], " 10.0000")
	assert.Contains(t, lines[1], " 60.0000")
	assert.True(t, strings.HasSuffix(lines[1], " r1"))
}

func TestOrientationListAddAndGet(t *testing.T) {
	l := NewOrientationList()
	pos := hkl.Position{Chi: 90}

	l.Add([3]float64{0, 0, 1}, [3]float64{0, 0, 1}, pos, "plane")
	require.Equal(t, 1, l.Len())

	assert.InDelta(t, math.Pi/2, l.orientations[0].Pos.Chi, tol)

	got, err := l.Get(1)
	require.NoError(t, err)
	assert.InDelta(t, 90, got.Pos.Chi, tol)
	assert.Equal(t, 1.0, got.Z)
	assert.Equal(t, "plane", got.Tag)
}

func TestOrientationListTagIndexEditRemoveSwap(t *testing.T) {
	l := NewOrientationList()
	l.Add([3]float64{1, 0, 0}, [3]float64{1, 0, 0}, hkl.Position{}, "x")
	l.Add([3]float64{0, 1, 0}, [3]float64{0, 1, 0}, hkl.Position{}, "y")

	idx, err := l.TagIndex("y")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	require.NoError(t, l.Edit(1, [3]float64{1, 1, 0}, [3]float64{1, 1, 0}, hkl.Position{}, "xy"))
	got, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "xy", got.Tag)
	assert.Equal(t, 1.0, got.Y)

	require.NoError(t, l.Swap(1, 2))
	first, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "y", first.Tag)

	require.NoError(t, l.Remove(1))
	assert.Equal(t, 1, l.Len())

	_, err = l.TagIndex("y")
	assert.ErrorIs(t, err, diffract.ErrConfiguration)
	assert.ErrorIs(t, l.Remove(9), diffract.ErrConfiguration)
}

func TestOrientationListString(t *testing.T) {
	l := NewOrientationList()
	assert.Equal(t, "   <<< none specified >>>", l.String())

	l.Add([3]float64{0, 0, 1}, [3]float64{0, 0, 1}, hkl.Position{Chi: 90}, "plane")

	lines := strings.Split(l.String(), "\n")
	require.Len(t, lines, 2)
	for _, col := range []string{"H", "K", "L", "X", "Y", "Z", "CHI", "TAG"} {
		assert.Contains(t, lines[0], col)
	}
	assert.Contains(t, lines[1], " 90.0000")
	assert.True(t, strings.HasSuffix(lines[1], " plane"))
}
