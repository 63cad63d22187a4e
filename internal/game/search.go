// internal/game/search.go
//
// Board word discovery: enumerate every dictionary word spellable by a
// simple path of adjacent cells.
//
// The search runs a depth-first traversal rooted at every cell, carrying an
// explicit frontier stack instead of recursing. Each frontier node owns its
// own visited set (copied on branch), so sibling branches cannot corrupt
// each other. Branches whose spelled string is not a prefix of any
// dictionary word are cut immediately; that bounds the work to the shape of
// the dictionary rather than the number of simple paths, which grows
// explosively even on a 4×4 board.
//
// Termination: every extension adds one unvisited cell to the path, and a
// path can hold at most N² cells, so no branch runs forever.

package game

import (
	"sort"

	"github.com/Isaiah-Swank/Boggle-AI/internal/grid"
	"github.com/Isaiah-Swank/Boggle-AI/internal/lexicon"
)

// frame is one frontier node of the board traversal.
type frame struct {
	pos     grid.Position
	word    string
	visited map[grid.Position]struct{}
}

// Discover returns every word of length ≥ MinWordLen that is in lex and can
// be spelled by a simple 8-adjacent path on g, sorted ascending. The result
// is deterministic for a given board and lexicon.
func Discover(g grid.Grid, lex *lexicon.Lexicon) []string {
	seen := make(map[string]struct{})

	var stack []frame
	var scratch []grid.Position // neighbor buffer reused across pops

	for r := 0; r < g.Size(); r++ {
		for c := 0; c < g.Size(); c++ {
			start := grid.Position{Row: r, Col: c}
			stack = append(stack, frame{
				pos:     start,
				word:    string(g.Letter(start)),
				visited: map[grid.Position]struct{}{start: {}},
			})
		}
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.word) >= MinWordLen && lex.ContainsWord(f.word) {
			// A valid word is not a dead end: longer extensions may also
			// be valid, so keep expanding below.
			seen[f.word] = struct{}{}
		}
		if !lex.ContainsPrefix(f.word) {
			continue
		}

		scratch = g.Neighbors(f.pos, scratch[:0])
		for _, next := range scratch {
			if _, ok := f.visited[next]; ok {
				continue
			}
			visited := make(map[grid.Position]struct{}, len(f.visited)+1)
			for p := range f.visited {
				visited[p] = struct{}{}
			}
			visited[next] = struct{}{}
			stack = append(stack, frame{
				pos:     next,
				word:    f.word + string(g.Letter(next)),
				visited: visited,
			})
		}
	}

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
