package codegen

import (
	"regexp"
	"strconv"
)

var integerLiteral = regexp.MustCompile(`^-?\d+$`)

// ZeroBasedIndex converts a rendered 1-based index to a 0-based one. A
// literal integer is decremented now; anything else gets a trailing " - 1",
// so the caller must render it at OrderAdditive or tighter.
func ZeroBasedIndex(code string) string {
	if n, ok := IntegerLiteral(code); ok {
		return strconv.Itoa(n - 1)
	}
	return code + " - 1"
}

// IntegerLiteral parses code as an optionally negative decimal integer.
func IntegerLiteral(code string) (int, bool) {
	if !integerLiteral.MatchString(code) {
		return 0, false
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false
	}
	return n, true
}
