// internal/grid/grid.go
//
// Letter board for a single Boggle round.
// Defines:
//   - Position: a (row, col) board coordinate with 8-directional adjacency.
//   - Grid: an immutable square matrix of uppercase letters.
//
// Construction validates shape and content up front: a non-square board or a
// non A–Z cell is a caller bug, not a recoverable runtime condition, so New
// rejects it with an error instead of limping along with corrupt state.

package grid

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// DefaultSize is the classic board side length.
const DefaultSize = 4

// Position identifies a cell on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Adjacent reports whether b touches a (including diagonals).
// A cell is never adjacent to itself.
func Adjacent(a, b Position) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr <= 1 && dc <= 1 && a != b
}

// Grid is a square matrix of uppercase letters. It is immutable for the
// lifetime of a round; a reset swaps in a whole new Grid.
type Grid struct {
	size  int
	cells [][]byte
}

// New builds a Grid from rows of single uppercase letters.
// Returns an error if the board is empty, non-square, or contains anything
// outside A–Z.
func New(rows [][]byte) (Grid, error) {
	n := len(rows)
	if n == 0 {
		return Grid{}, errors.New("grid: empty board")
	}
	cells := make([][]byte, n)
	for r, row := range rows {
		if len(row) != n {
			return Grid{}, fmt.Errorf("grid: row %d has %d cells, want %d", r, len(row), n)
		}
		cells[r] = make([]byte, n)
		for c, ch := range row {
			if ch < 'A' || ch > 'Z' {
				return Grid{}, fmt.Errorf("grid: cell (%d,%d) is not an uppercase letter: %q", r, c, ch)
			}
			cells[r][c] = ch
		}
	}
	return Grid{size: n, cells: cells}, nil
}

// Parse builds a Grid from row strings, e.g. []string{"CATS","OREN",...}.
// Lowercase input is normalized to uppercase.
func Parse(rows []string) (Grid, error) {
	b := make([][]byte, len(rows))
	for i, row := range rows {
		b[i] = []byte(strings.ToUpper(row))
	}
	return New(b)
}

// NewRandom draws an n×n board of uniform random uppercase letters from rng.
func NewRandom(n int, rng *rand.Rand) Grid {
	cells := make([][]byte, n)
	for r := range cells {
		cells[r] = make([]byte, n)
		for c := range cells[r] {
			cells[r][c] = byte('A' + rng.Intn(26))
		}
	}
	return Grid{size: n, cells: cells}
}

// Size returns the side length.
func (g Grid) Size() int { return g.size }

// Contains reports whether p is on the board.
func (g Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.size && p.Col >= 0 && p.Col < g.size
}

// Letter returns the letter at p. Panics if p is off the board; passing an
// out-of-range Position is a caller bug (spec: fail fast on invariant breaks).
func (g Grid) Letter(p Position) byte {
	if !g.Contains(p) {
		panic(fmt.Sprintf("grid: position (%d,%d) out of range for size %d", p.Row, p.Col, g.size))
	}
	return g.cells[p.Row][p.Col]
}

// Rows returns the board as row strings, for snapshots and logging.
func (g Grid) Rows() []string {
	out := make([]string, g.size)
	for r := range g.cells {
		out[r] = string(g.cells[r])
	}
	return out
}

// Neighbors appends the on-board positions adjacent to p to dst and
// returns it. At most 8 neighbors exist.
func (g Grid) Neighbors(p Position, dst []Position) []Position {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			q := Position{Row: p.Row + dr, Col: p.Col + dc}
			if g.Contains(q) {
				dst = append(dst, q)
			}
		}
	}
	return dst
}
