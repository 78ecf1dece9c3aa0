// Package dirhash predicts the snapshot directory name the editor assigns to
// a file, so that snapshots can be matched to a file before the editor has
// written an index record for them.
package dirhash

import (
	"strconv"
	"unicode/utf16"

	"github.com/keshon/ghist/internal/history/store"
)

// seed is folded into the accumulator before the first code unit.
const seed = 149417

// Hash returns the directory id for a canonical identifier (a file URI).
//
// The identifier is folded as UTF-16 code units into a 32-bit signed
// accumulator with acc = acc*31 + unit, wrapping on overflow. The result is
// rendered in lowercase hex and keeps its minus sign.
func Hash(id string) string {
	acc := fold(0, seed)
	for _, unit := range utf16.Encode([]rune(id)) {
		acc = fold(acc, int32(unit))
	}
	return strconv.FormatInt(int64(acc), 16)
}

// ForPath returns the directory id for a local file path.
func ForPath(path string) string {
	return Hash(store.ResourceURI(path))
}

func fold(acc, v int32) int32 {
	return acc*31 + v
}
