package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/kalimbatab/kalimba"
)

// Group renders one column. No tokens gives the rest token, one token is
// written bare, and several are wrapped in parentheses in the order given.
// The bool is false when nothing should be emitted for the column.
func Group(tokens []kalimba.Token, rest string) (string, bool) {
	switch len(tokens) {
	case 0:
		return rest, rest != ""
	case 1:
		return tokens[0].String(), true
	}
	var b strings.Builder
	b.WriteString("(")
	for _, t := range tokens {
		b.WriteString(t.String())
	}
	b.WriteString(")")
	return b.String(), true
}

// CreateChordKey identifies a set of MIDI keys regardless of order, e.g. "40-47-52".
func CreateChordKey(keys []int) string {
	sorted := append([]int(nil), keys...)
	sort.Ints(sorted)
	var res string
	for i, key := range sorted {
		res += fmt.Sprintf("%v", key)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}
