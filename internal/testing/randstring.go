package testing

import (
	"math/rand"
	"strings"
)

const latin = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandString generates random string of n symbols from lower- and uppercase latin alphabet
func RandString(n int) string {
	var out strings.Builder
	for i := 0; i < n; i++ {
		out.WriteByte(latin[rand.Intn(len(latin))])
	}
	return out.String()
}

// RepeatRune returns a string of exactly n copies of r, handy for length limits
// measured in characters rather than bytes
func RepeatRune(r rune, n int) string {
	return strings.Repeat(string(r), n)
}
