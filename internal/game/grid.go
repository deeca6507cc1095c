package game

import "math/rand"

// LandMix maps land types to the fraction of the grid they should cover.
// Fractions may sum to less than 1; the remainder is regular land.
type LandMix map[LandType]float64

// DefaultLandMix mirrors the stock distribution: mostly regular land with
// a thin seam of precious cells.
func DefaultLandMix() LandMix {
	return LandMix{
		LandRegular: 0.7,
		LandCopper:  0.2,
		LandSilver:  0.07,
		LandGold:    0.03,
	}
}

// Grid holds the fence lattices and land cells for one game.
//
// Horizontal[r][c] is the fence on the top edge of cell (r,c), so the
// lattice has Size+1 rows. Vertical[r][c] is the fence on the left edge
// of cell (r,c), so the lattice has Size+1 columns. Fence entries only
// ever transition false to true; the grid is never resized.
type Grid struct {
	Size       int        `json:"size"`
	Horizontal [][]bool   `json:"horizontal_fences"`
	Vertical   [][]bool   `json:"vertical_fences"`
	Cells      [][]LandCell `json:"land_cells"`
}

// NewGrid allocates an all-false fence lattice pair and distributes land
// types per the mix: integer counts per type, padded with regular land,
// then shuffled across all positions with rng.
func NewGrid(size int, mix LandMix, rng *rand.Rand) Grid {
	if size <= 0 {
		size = 5
	}
	if mix == nil {
		mix = DefaultLandMix()
	}

	g := Grid{
		Size:       size,
		Horizontal: make([][]bool, size+1),
		Vertical:   make([][]bool, size),
		Cells:      make([][]LandCell, size),
	}
	for r := range g.Horizontal {
		g.Horizontal[r] = make([]bool, size)
	}
	for r := range g.Vertical {
		g.Vertical[r] = make([]bool, size+1)
	}

	total := size * size
	types := make([]LandType, 0, total)
	for _, t := range []LandType{LandRegular, LandCopper, LandSilver, LandGold} {
		count := int(float64(total) * mix[t])
		for i := 0; i < count && len(types) < total; i++ {
			types = append(types, t)
		}
	}
	for len(types) < total {
		types = append(types, LandRegular)
	}
	rng.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})

	idx := 0
	for r := 0; r < size; r++ {
		g.Cells[r] = make([]LandCell, size)
		for c := 0; c < size; c++ {
			g.Cells[r][c] = NewLandCell(types[idx])
			idx++
		}
	}
	return g
}

// CellAt returns the cell at (row, col), or a zero cell when out of range.
func (g *Grid) CellAt(row, col int) (LandCell, bool) {
	if row < 0 || row >= g.Size || col < 0 || col >= g.Size {
		return LandCell{}, false
	}
	return g.Cells[row][col], true
}

// TotalValue sums the land value of every cell, owned or not.
func (g *Grid) TotalValue() int {
	total := 0
	for r := range g.Cells {
		for c := range g.Cells[r] {
			total += g.Cells[r][c].Value
		}
	}
	return total
}

// EnclosedUnclaimed returns the coordinates of every unowned cell whose
// four bounding fences are all present. Pure: it never mutates the grid,
// and calling it twice in a row yields the same answer.
func (g *Grid) EnclosedUnclaimed() []Coord {
	var claimed []Coord
	for r := 0; r < g.Size; r++ {
		for c := 0; c < g.Size; c++ {
			if g.Cells[r][c].Owner.Claimed() {
				continue
			}
			if g.Horizontal[r][c] && g.Horizontal[r+1][c] &&
				g.Vertical[r][c] && g.Vertical[r][c+1] {
				claimed = append(claimed, Coord{Row: r, Col: c})
			}
		}
	}
	return claimed
}
