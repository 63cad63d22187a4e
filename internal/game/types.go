// internal/game/types.go
//
// Core type definitions for the Boggle game engine.
// Defines:
//   - Phase: the session's finite-state tag (selecting/revealing).
//   - Session: state for a single in-progress round.
//   - Snapshot: the read-only view handed to the presentation layer.

package game

import (
	"time"

	"github.com/Isaiah-Swank/Boggle-AI/internal/grid"
	"github.com/Isaiah-Swank/Boggle-AI/internal/lexicon"
)

// Phase represents the session's current mode.
// Possible values:
//   - "selecting": the player is building a path and submitting words.
//   - "revealing": the remaining board words are being disclosed on a timer.
type Phase string

const (
	PhaseSelecting Phase = "selecting"
	PhaseRevealing       = "revealing"
)

// MinWordLen is the shortest word the board credits. Fixed domain rule.
const MinWordLen = 3

const (
	// revealInterval paces the timed disclosure of undiscovered words.
	revealInterval = 1000 * time.Millisecond
	// resetGrace is how long a completed reveal stays up before the round
	// resets with a fresh board.
	resetGrace = 5000 * time.Millisecond
)

// Session holds the state of a single Boggle round. It has no internal
// locking: callers must serialize mutation (the store does, in this repo).
type Session struct {
	ID    string // unique session identifier (random hex string)
	Board grid.Grid
	Lex   *lexicon.Lexicon

	phase     Phase
	selection []grid.Position // path being built, in click order
	current   string          // word induced by selection
	found     []string        // credited words, kept sorted for display
	foundSet  map[string]struct{}
	score     int
	result    string // last submit outcome message, "" when none

	// Reveal state; meaningful only while phase == PhaseRevealing.
	revealWords []string  // full sorted discovery result
	revealNext  int       // cursor into revealWords
	lastAdvance time.Time // when the cursor last moved
	revealDone  bool
	completedAt time.Time

	// draw supplies a fresh board on reset. The lexicon is retained.
	draw func() grid.Grid
}

// Snapshot is the per-frame view of a Session consumed by the renderer.
type Snapshot struct {
	ID          string          `json:"id"`
	Grid        []string        `json:"grid"`
	Phase       Phase           `json:"phase"`
	Selection   []grid.Position `json:"selection"`
	CurrentWord string          `json:"currentWord"`
	Found       []string        `json:"found"`
	Score       int             `json:"score"`
	Result      string          `json:"result,omitempty"`

	Revealing     string `json:"revealing,omitempty"` // word disclosed most recently
	RevealPending int    `json:"revealPending"`       // words not yet disclosed
	RevealDone    bool   `json:"revealDone"`
}
