package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGrid(5, DefaultLandMix(), rng)

	assert.Equal(t, 5, g.Size)
	require.Len(t, g.Horizontal, 6)
	for _, row := range g.Horizontal {
		assert.Len(t, row, 5)
	}
	require.Len(t, g.Vertical, 5)
	for _, row := range g.Vertical {
		assert.Len(t, row, 6)
	}

	counts := map[LandType]int{}
	for r := 0; r < g.Size; r++ {
		for c := 0; c < g.Size; c++ {
			cell := g.Cells[r][c]
			counts[cell.Type]++
			assert.Equal(t, ValueForType(cell.Type), cell.Value)
			assert.False(t, cell.Owner.Claimed())
		}
	}

	// 25 cells at the default mix: truncation gives 17/5/1 and the
	// remainder pads out as regular land.
	assert.Equal(t, 25, counts[LandRegular]+counts[LandCopper]+counts[LandSilver]+counts[LandGold])
	assert.Equal(t, 5, counts[LandCopper])
	assert.Equal(t, 1, counts[LandSilver])
	assert.Equal(t, 0, counts[LandGold])
	assert.Equal(t, 19, counts[LandRegular])
}

func TestNewGridDeterministicForSeed(t *testing.T) {
	a := NewGrid(4, DefaultLandMix(), rand.New(rand.NewSource(7)))
	b := NewGrid(4, DefaultLandMix(), rand.New(rand.NewSource(7)))
	assert.Equal(t, a.Cells, b.Cells)
}

func TestEnclosedUnclaimed(t *testing.T) {
	g := NewGrid(3, LandMix{LandRegular: 1}, rand.New(rand.NewSource(1)))

	assert.Empty(t, g.EnclosedUnclaimed())

	// Three of four fences around (1,1): not enclosed yet.
	g.Horizontal[1][1] = true
	g.Horizontal[2][1] = true
	g.Vertical[1][1] = true
	assert.Empty(t, g.EnclosedUnclaimed())

	g.Vertical[1][2] = true
	assert.Equal(t, []Coord{{Row: 1, Col: 1}}, g.EnclosedUnclaimed())

	// Already-claimed cells are never reported again.
	g.Cells[1][1].Owner = OwnedBy(0)
	assert.Empty(t, g.EnclosedUnclaimed())
}

func TestEnclosedUnclaimedMultiple(t *testing.T) {
	g := NewGrid(2, LandMix{LandRegular: 1}, rand.New(rand.NewSource(1)))

	// Fence in the whole left column, then close both cells with the
	// shared middle vertical fences.
	g.Horizontal[0][0] = true
	g.Horizontal[1][0] = true
	g.Horizontal[2][0] = true
	g.Vertical[0][0] = true
	g.Vertical[1][0] = true
	g.Vertical[0][1] = true
	g.Vertical[1][1] = true

	got := g.EnclosedUnclaimed()
	assert.ElementsMatch(t, []Coord{{Row: 0, Col: 0}, {Row: 1, Col: 0}}, got)
}

func TestTotalValue(t *testing.T) {
	g := NewGrid(3, LandMix{LandGold: 1}, rand.New(rand.NewSource(1)))
	assert.Equal(t, 9*ValueGold, g.TotalValue())
}

func TestCellAt(t *testing.T) {
	g := NewGrid(3, DefaultLandMix(), rand.New(rand.NewSource(1)))

	_, ok := g.CellAt(1, 2)
	assert.True(t, ok)
	_, ok = g.CellAt(-1, 0)
	assert.False(t, ok)
	_, ok = g.CellAt(3, 0)
	assert.False(t, ok)
}
