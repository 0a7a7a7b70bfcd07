package skills

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio scores two strings from 0 to 100 where 100 means identical. It is the
// Levenshtein distance normalized by the longer string, rounded to the
// nearest integer.
func Ratio(a, b string) int {
	longest := max(runeLen(a), runeLen(b))
	if longest == 0 {
		return 100
	}

	distance := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(distance)/float64(longest))))
}

// fuzzyCandidates returns the vocabulary skills whose length allows a ratio
// above the threshold. With ratio = 1 - d/max(len), a skill of length n can
// only score above t against a word of length w when n/w lies in (t, 1/t).
func (e *Extractor) fuzzyCandidates(word string) []string {
	w := runeLen(word)
	share := float64(e.threshold) / 100
	if share <= 0 {
		share = 0.01
	}

	low := int(math.Floor(float64(w) * share))
	high := int(math.Ceil(float64(w) / share))

	var out []string
	for length := low; length <= high; length++ {
		out = append(out, e.byLength[length]...)
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
