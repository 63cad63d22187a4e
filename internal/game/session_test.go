package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaiah-Swank/Boggle-AI/internal/grid"
	"github.com/Isaiah-Swank/Boggle-AI/internal/lexicon"
)

var catsBoard = []string{
	"CATS",
	"OREN",
	"LPID",
	"EMGH",
}

func newTestSession(t *testing.T, words []string) *Session {
	t.Helper()
	return NewSession(mustGrid(t, catsBoard), lexicon.Build(words), nil)
}

func TestSelectRules(t *testing.T) {
	s := newTestSession(t, []string{"CAT"})

	s.Select(grid.Position{Row: 0, Col: 0}) // C
	s.Select(grid.Position{Row: 0, Col: 1}) // A
	assert.Equal(t, "CA", s.Snapshot().CurrentWord)

	// Already-selected cell: no-op.
	s.Select(grid.Position{Row: 0, Col: 0})
	assert.Equal(t, "CA", s.Snapshot().CurrentWord)

	// Non-adjacent cell: no-op.
	s.Select(grid.Position{Row: 3, Col: 3})
	assert.Equal(t, "CA", s.Snapshot().CurrentWord)

	// Off-board cell: no-op.
	s.Select(grid.Position{Row: 4, Col: 0})
	assert.Equal(t, "CA", s.Snapshot().CurrentWord)

	// Adjacent continuation works, diagonals included.
	s.Select(grid.Position{Row: 1, Col: 2}) // E, diagonal from A
	assert.Equal(t, "CAE", s.Snapshot().CurrentWord)
	assert.Len(t, s.Snapshot().Selection, 3)
}

func TestSubmitScenario(t *testing.T) {
	// End-to-end: spell CAT, submit, then verify the reveal only contains
	// words a simple path exists for.
	s := newTestSession(t, []string{"CAT", "CATS", "CARS"})

	s.Select(grid.Position{Row: 0, Col: 0})
	s.Select(grid.Position{Row: 0, Col: 1})
	s.Select(grid.Position{Row: 0, Col: 2})
	s.Submit()

	snap := s.Snapshot()
	assert.Equal(t, "'CAT' is a valid word!", snap.Result)
	assert.Equal(t, []string{"CAT"}, snap.Found)
	assert.Equal(t, 1, snap.Score)
	assert.Empty(t, snap.Selection, "selection cleared after submit")
	assert.Empty(t, snap.CurrentWord)

	s.RequestReveal(time.Unix(0, 0))
	for _, w := range s.revealWords {
		assert.True(t, hasSimplePath(s.Board, w), "revealed %q without a path", w)
	}
	assert.Contains(t, s.revealWords, "CATS")
}

func TestSubmitEmpty(t *testing.T) {
	s := newTestSession(t, []string{"CAT"})
	s.Submit()
	assert.Equal(t, "No word entered.", s.Snapshot().Result)
	assert.Zero(t, s.Score())
}

func TestSubmitInvalid(t *testing.T) {
	s := newTestSession(t, []string{"CAT"})
	s.Select(grid.Position{Row: 0, Col: 0})
	s.Select(grid.Position{Row: 1, Col: 0})
	s.Submit()
	assert.Equal(t, "'CO' is NOT valid.", s.Snapshot().Result)
	assert.Zero(t, s.Score())
	assert.Empty(t, s.Found())
}

func TestSubmitNoDoubleCredit(t *testing.T) {
	s := newTestSession(t, []string{"CAT"})
	spellCAT := func() {
		s.Select(grid.Position{Row: 0, Col: 0})
		s.Select(grid.Position{Row: 0, Col: 1})
		s.Select(grid.Position{Row: 0, Col: 2})
		s.Submit()
	}
	spellCAT()
	require.Equal(t, 1, s.Score())

	spellCAT()
	assert.Equal(t, 1, s.Score(), "resubmission must not double-score")
	assert.Equal(t, []string{"CAT"}, s.Found())
	assert.Equal(t, "'CAT' was already found.", s.Snapshot().Result)
}

func TestRevealIdempotentAndLocksInput(t *testing.T) {
	s := newTestSession(t, []string{"CAT", "CATS"})
	t0 := time.Unix(1000, 0)

	s.RequestReveal(t0)
	require.Equal(t, Phase(PhaseRevealing), s.Phase())
	wordsBefore := len(s.revealWords)

	// Second request is a no-op.
	s.RequestReveal(t0.Add(10 * time.Second))
	assert.Equal(t, wordsBefore, len(s.revealWords))
	assert.Equal(t, 0, s.revealNext)

	// Select and Submit are ignored while revealing.
	s.Select(grid.Position{Row: 0, Col: 0})
	assert.Empty(t, s.Snapshot().CurrentWord)
	s.Submit()
	assert.Empty(t, s.Snapshot().Result)
}

func TestTickPacesReveal(t *testing.T) {
	s := newTestSession(t, []string{"CAT", "CATS"})
	t0 := time.Unix(1000, 0)
	s.RequestReveal(t0)
	require.Len(t, s.revealWords, 2) // CAT, CATS

	// Before the interval elapses nothing is disclosed.
	s.Tick(t0.Add(500 * time.Millisecond))
	assert.Empty(t, s.Found())

	s.Tick(t0.Add(1000 * time.Millisecond))
	assert.Equal(t, []string{"CAT"}, s.Found())
	assert.Equal(t, 1, s.Score())

	// Next word needs a full interval from the last advance.
	s.Tick(t0.Add(1200 * time.Millisecond))
	assert.Len(t, s.Found(), 1)

	s.Tick(t0.Add(2000 * time.Millisecond))
	assert.Equal(t, []string{"CAT", "CATS"}, s.Found())
	assert.Equal(t, 2, s.Score())
	assert.True(t, s.Snapshot().RevealDone)
}

func TestRevealDoesNotDoubleCreditFoundWords(t *testing.T) {
	s := newTestSession(t, []string{"CAT", "CATS"})
	s.Select(grid.Position{Row: 0, Col: 0})
	s.Select(grid.Position{Row: 0, Col: 1})
	s.Select(grid.Position{Row: 0, Col: 2})
	s.Submit()
	require.Equal(t, 1, s.Score())

	t0 := time.Unix(1000, 0)
	s.RequestReveal(t0)
	s.Tick(t0.Add(1 * time.Second)) // discloses CAT, already credited
	assert.Equal(t, 1, s.Score(), "reveal must not re-credit a found word")
	assert.Equal(t, []string{"CAT"}, s.Found())

	s.Tick(t0.Add(2 * time.Second)) // CATS is new
	assert.Equal(t, 2, s.Score())
}

func TestRevealTerminatesIntoFreshRound(t *testing.T) {
	drawn := 0
	fresh := func() grid.Grid {
		drawn++
		g, _ := grid.Parse([]string{"ZZZZ", "ZZZZ", "ZZZZ", "ZZZZ"})
		return g
	}
	s := NewSession(mustGrid(t, catsBoard), lexicon.Build([]string{"CAT"}), fresh)

	t0 := time.Unix(1000, 0)
	s.RequestReveal(t0)
	now := t0
	for i := 0; i < 200 && s.Phase() == PhaseRevealing; i++ {
		now = now.Add(250 * time.Millisecond)
		s.Tick(now)
	}

	require.Equal(t, Phase(PhaseSelecting), s.Phase(), "reveal did not terminate")
	assert.Equal(t, 1, drawn, "reset should draw exactly one new board")
	snap := s.Snapshot()
	assert.Equal(t, "ZZZZ", snap.Grid[0])
	assert.Empty(t, snap.Selection)
	assert.Empty(t, snap.Found)
	assert.Zero(t, snap.Score)
}

func TestTickMonotonicNoEarlyReset(t *testing.T) {
	s := newTestSession(t, []string{"CAT"})
	t0 := time.Unix(1000, 0)
	s.RequestReveal(t0)

	s.Tick(t0.Add(1 * time.Second)) // last word disclosed
	s.Tick(t0.Add(2 * time.Second)) // marks complete
	require.True(t, s.Snapshot().RevealDone)

	// Grace period not yet elapsed.
	s.Tick(t0.Add(4 * time.Second))
	assert.Equal(t, Phase(PhaseRevealing), s.Phase())

	s.Tick(t0.Add(8 * time.Second))
	assert.Equal(t, Phase(PhaseSelecting), s.Phase())
}

func TestEmptyLexiconRound(t *testing.T) {
	s := newTestSession(t, nil)
	s.Select(grid.Position{Row: 0, Col: 0})
	s.Select(grid.Position{Row: 0, Col: 1})
	s.Select(grid.Position{Row: 0, Col: 2})
	s.Submit()
	assert.Equal(t, "'CAT' is NOT valid.", s.Snapshot().Result)

	t0 := time.Unix(1000, 0)
	s.RequestReveal(t0)
	s.Tick(t0.Add(time.Second))
	assert.True(t, s.Snapshot().RevealDone, "empty reveal completes immediately")
}
