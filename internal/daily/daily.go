package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// GridSeed returns a deterministic board seed for a date using
// HMAC(salt, YYYY-MM-DD): every player sees the same daily board.
func GridSeed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared, keeps math/rand.NewSource happy
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
