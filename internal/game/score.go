package game

// Points maps a word's length to its score:
//   3–4 letters: 1 point
//   5 letters:   2 points
//   6 letters:   3 points
//   7+ letters:  5 points
// Anything shorter than MinWordLen scores 0.
func Points(word string) int {
	switch n := len(word); {
	case n < MinWordLen:
		return 0
	case n <= 4:
		return 1
	case n == 5:
		return 2
	case n == 6:
		return 3
	default:
		return 5
	}
}
