// internal/lexicon/lexicon.go
//
// Dictionary for the word-discovery engine.
//
// Responsibilities:
//   - Build an immutable word set plus a derived prefix set from a word list.
//   - O(1) membership checks for exact words and word prefixes.
//   - Load the default dictionary from an environment-provided file or fall
//     back to the embedded word list.
//
// The prefix set is what keeps board search tractable: every non-empty
// leading substring of every word is present, so a search branch whose
// spelled string is not in the set can never reach a dictionary word.
//
// Initialization behavior (Init):
//   1. If LEXICON_FILE is set, load one word per line from that file.
//   2. Otherwise use the embedded dictionary from the assets package.
//   3. A missing or unreadable source degrades to an empty Lexicon; the
//      round still runs, every submission just comes back invalid.
//
// Constraints:
//   • Words are normalized to uppercase; non-alphabetic lines are dropped.
//   • Initialization runs once (sync.Once).

package lexicon

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Isaiah-Swank/Boggle-AI/assets"
)

// Lexicon is an immutable word set with a derived prefix set.
type Lexicon struct {
	words    map[string]struct{}
	prefixes map[string]struct{}
}

// Build constructs a Lexicon from a word list. Words are uppercased and
// deduplicated; every non-empty leading substring of every word is recorded
// in the prefix set (the word itself included). An empty input yields an
// empty, usable Lexicon.
func Build(words []string) *Lexicon {
	l := &Lexicon{
		words:    make(map[string]struct{}, len(words)),
		prefixes: make(map[string]struct{}, len(words)*4),
	}
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		l.words[w] = struct{}{}
		for k := 1; k <= len(w); k++ {
			l.prefixes[w[:k]] = struct{}{}
		}
	}
	return l
}

// ContainsWord reports whether s (uppercased) is a dictionary word.
func (l *Lexicon) ContainsWord(s string) bool {
	_, ok := l.words[strings.ToUpper(s)]
	return ok
}

// ContainsPrefix reports whether s (uppercased) is a prefix of at least one
// dictionary word.
func (l *Lexicon) ContainsPrefix(s string) bool {
	_, ok := l.prefixes[strings.ToUpper(s)]
	return ok
}

// Words returns the dictionary contents in no particular order.
func (l *Lexicon) Words() []string {
	out := make([]string, 0, len(l.words))
	for w := range l.words {
		out = append(out, w)
	}
	return out
}

// Stats returns counts of loaded words and prefixes.
func (l *Lexicon) Stats() (wordCount, prefixCount int) {
	return len(l.words), len(l.prefixes)
}

// --- default dictionary -----------------------------------------------------

var (
	initOnce   sync.Once
	defaultLex *Lexicon
)

// Init loads the default Lexicon exactly once. Load failures are logged and
// degrade to an empty Lexicon; they never fail the process.
func Init() {
	initOnce.Do(func() {
		if path := os.Getenv("LEXICON_FILE"); path != "" {
			words, err := readWordFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("lexicon file unreadable, starting empty")
				defaultLex = Build(nil)
				return
			}
			defaultLex = Build(words)
			return
		}
		words, err := assets.Dictionary()
		if err != nil {
			log.Warn().Err(err).Msg("embedded dictionary unreadable, starting empty")
			defaultLex = Build(nil)
			return
		}
		defaultLex = Build(words)
	})
}

// Default returns the process-wide Lexicon, loading it on first use.
func Default() *Lexicon {
	Init()
	return defaultLex
}

// readWordFile loads one word per line, trimming whitespace and keeping only
// alphabetic entries.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w != "" && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// isAlpha reports whether s is ASCII letters only (either case).
func isAlpha(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
