// internal/game/session.go
//
// Round state machine for a single Boggle session.
// Responsibilities:
//   - Track the in-progress selection path and its induced word.
//   - Validate and credit submitted words (no double credit).
//   - Run the give-up flow: one-shot board discovery, then a timed reveal
//     of every remaining word, then an automatic reset after a grace period.
//
// Every rejected operation is a silent no-op. Invalid clicks and mistimed
// events are normal interactive use, not faults, so nothing here returns an
// error; outcomes surface through the Snapshot instead.
//
// Time never comes from the wall clock: Tick and RequestReveal take an
// explicit timestamp, so the reveal pacing is synchronously testable.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/Isaiah-Swank/Boggle-AI/internal/grid"
	"github.com/Isaiah-Swank/Boggle-AI/internal/lexicon"
)

// NewSession starts a round on g. draw supplies replacement boards on reset;
// if nil, the board is kept across resets.
func NewSession(g grid.Grid, lex *lexicon.Lexicon, draw func() grid.Grid) *Session {
	return &Session{
		ID:       randomID(),
		Board:    g,
		Lex:      lex,
		phase:    PhaseSelecting,
		foundSet: make(map[string]struct{}),
		draw:     draw,
	}
}

// Select appends p to the selection path. No-op if p is already selected,
// not adjacent to the last selection, off the board, or the session is
// revealing.
func (s *Session) Select(p grid.Position) {
	if s.phase != PhaseSelecting || !s.Board.Contains(p) {
		return
	}
	for _, q := range s.selection {
		if q == p {
			return
		}
	}
	if len(s.selection) > 0 && !grid.Adjacent(s.selection[len(s.selection)-1], p) {
		return
	}
	s.selection = append(s.selection, p)
	s.current += string(s.Board.Letter(p))
	s.result = ""
}

// Submit checks the current word against the lexicon, crediting it when
// valid and not already found. The selection is cleared regardless of
// outcome. No-op while revealing.
func (s *Session) Submit() {
	if s.phase != PhaseSelecting {
		return
	}
	word := s.current
	s.selection = nil
	s.current = ""

	switch {
	case word == "":
		s.result = "No word entered."
	case !s.Lex.ContainsWord(word):
		s.result = fmt.Sprintf("'%s' is NOT valid.", word)
	case !s.credit(word):
		s.result = fmt.Sprintf("'%s' was already found.", word)
	default:
		s.result = fmt.Sprintf("'%s' is a valid word!", word)
	}
}

// RequestReveal gives up the round: it runs board discovery once and starts
// disclosing the result one word per interval. No-op if already revealing.
func (s *Session) RequestReveal(now time.Time) {
	if s.phase != PhaseSelecting {
		return
	}
	s.selection = nil
	s.current = ""
	s.result = ""
	s.revealWords = Discover(s.Board, s.Lex)
	s.revealNext = 0
	s.revealDone = false
	s.lastAdvance = now
	s.phase = PhaseRevealing
}

// Tick advances the reveal. Call once per frame with a non-decreasing
// timestamp; outside the revealing phase it is a no-op.
//
// One word is credited per elapsed interval. Words the player already found
// are disclosed but not re-credited. Once the list is exhausted and the
// grace period has passed, the round resets with a fresh board.
func (s *Session) Tick(now time.Time) {
	if s.phase != PhaseRevealing {
		return
	}
	if !s.revealDone {
		if s.revealNext < len(s.revealWords) && now.Sub(s.lastAdvance) >= revealInterval {
			s.credit(s.revealWords[s.revealNext])
			s.revealNext++
			s.lastAdvance = now
		}
		if s.revealNext >= len(s.revealWords) {
			s.revealDone = true
			s.completedAt = now
		}
		return
	}
	if now.Sub(s.completedAt) >= resetGrace {
		s.Reset()
	}
}

// Reset starts a fresh round: new board (when a draw source exists), empty
// selection and found list, score zero, selecting phase. The lexicon is
// retained.
func (s *Session) Reset() {
	if s.draw != nil {
		s.Board = s.draw()
	}
	s.phase = PhaseSelecting
	s.selection = nil
	s.current = ""
	s.found = nil
	s.foundSet = make(map[string]struct{})
	s.score = 0
	s.result = ""
	s.revealWords = nil
	s.revealNext = 0
	s.revealDone = false
}

// credit adds word to the found list and score exactly once.
// Returns false if the word was already credited.
func (s *Session) credit(word string) bool {
	if _, ok := s.foundSet[word]; ok {
		return false
	}
	s.foundSet[word] = struct{}{}
	s.found = append(s.found, word)
	sort.Strings(s.found)
	s.score += Points(word)
	return true
}

// Phase returns the session's finite-state tag.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// Found returns the credited words, sorted.
func (s *Session) Found() []string { return append([]string(nil), s.found...) }

// Snapshot renders the session for the presentation layer.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		Grid:        s.Board.Rows(),
		Phase:       s.phase,
		Selection:   append([]grid.Position{}, s.selection...),
		CurrentWord: s.current,
		Found:       append([]string{}, s.found...),
		Score:       s.score,
		Result:      s.result,
	}
	if s.phase == PhaseRevealing {
		if s.revealNext > 0 {
			snap.Revealing = s.revealWords[s.revealNext-1]
		}
		snap.RevealPending = len(s.revealWords) - s.revealNext
		snap.RevealDone = s.revealDone
	}
	return snap
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
