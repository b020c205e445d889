package tuning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/kalimbatab/pitch"
)

type StringID int

const (
	ELow StringID = iota
	A
	D
	G
	B
	EHigh
)

const NumStrings = 6

var (
	ErrUnknownString            = errors.New("unknown guitar string")
	ErrAmbiguousOrUnknownString = errors.New("no unique guitar string")
	ErrDuplicateString          = errors.New("guitar string appears twice in block")
)

type String struct {
	ID     StringID
	Letter byte
	Open   pitch.Pitch
}

// Strings is standard tuning, lowest string first. Never mutated.
var Strings = [NumStrings]String{
	{ELow, 'E', pitch.MustNew("E", 2)},
	{A, 'A', pitch.MustNew("A", 2)},
	{D, 'D', pitch.MustNew("D", 3)},
	{G, 'G', pitch.MustNew("G", 3)},
	{B, 'B', pitch.MustNew("B", 3)},
	{EHigh, 'E', pitch.MustNew("E", 4)},
}

func (id StringID) String() string {
	switch id {
	case ELow:
		return "E_LOW"
	case EHigh:
		return "E_HIGH"
	}
	if id.valid() {
		return string(Strings[id].Letter)
	}
	return fmt.Sprintf("StringID(%d)", int(id))
}

func (id StringID) valid() bool {
	return id >= ELow && id <= EHigh
}

func OpenPitch(id StringID) (pitch.Pitch, error) {
	if !id.valid() {
		return pitch.Pitch{}, fmt.Errorf("%w: %v", ErrUnknownString, id)
	}
	return Strings[id].Open, nil
}

// AmbiguousStringError reports a letter/octave pair that matched zero or
// several strings.
type AmbiguousStringError struct {
	Letter  byte
	Octave  *int
	Matches int
}

func (e *AmbiguousStringError) Error() string {
	octave := "any"
	if e.Octave != nil {
		octave = fmt.Sprint(*e.Octave)
	}
	return fmt.Sprintf("no unique guitar string for letter %q and octave %s (%d matches)", e.Letter, octave, e.Matches)
}

func (e *AmbiguousStringError) Is(target error) bool {
	return target == ErrAmbiguousOrUnknownString
}

// Resolve finds the single string whose open pitch has the given letter and,
// when octave is non-nil, the given octave. Letters are case-insensitive, so
// "E" without an octave is ambiguous.
func Resolve(letter byte, octave *int) (StringID, error) {
	want := strings.ToUpper(string(letter))
	var found []StringID
	for _, s := range Strings {
		if string(s.Letter) != want {
			continue
		}
		if octave != nil && s.Open.Octave() != *octave {
			continue
		}
		found = append(found, s.ID)
	}
	if len(found) != 1 {
		return 0, &AmbiguousStringError{Letter: letter, Octave: octave, Matches: len(found)}
	}
	return found[0], nil
}

// ResolveBlock maps the label letters of a six-line block to strings. Every
// letter but E is unique. The two E lines are told apart by letter case
// ('e' high, 'E' low) when their cases differ, otherwise by position: a block
// with its B line above its A line is written high string first.
func ResolveBlock(letters []byte) ([]StringID, error) {
	res := make([]StringID, len(letters))
	var eLines []int
	for i, l := range letters {
		if l == 'e' || l == 'E' {
			eLines = append(eLines, i)
			continue
		}
		id, err := Resolve(l, nil)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		res[i] = id
	}

	switch len(eLines) {
	case 0:
	case 1:
		// a lone E line is only decidable by case
		res[eLines[0]] = ELow
		if letters[eLines[0]] == 'e' {
			res[eLines[0]] = EHigh
		}
	case 2:
		first, second := eLines[0], eLines[1]
		highFirst := letters[first] == 'e' && letters[second] == 'E'
		if letters[first] == letters[second] {
			highFirst = highStringFirst(letters)
		}
		lowOctave, highOctave := Strings[ELow].Open.Octave(), Strings[EHigh].Open.Octave()
		firstOctave, secondOctave := lowOctave, highOctave
		if highFirst {
			firstOctave, secondOctave = highOctave, lowOctave
		}
		for _, pair := range []struct {
			line   int
			octave int
		}{{first, firstOctave}, {second, secondOctave}} {
			octave := pair.octave
			id, err := Resolve(letters[pair.line], &octave)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", pair.line+1, err)
			}
			res[pair.line] = id
		}
	default:
		return nil, fmt.Errorf("line %d: %w", eLines[2]+1, &AmbiguousStringError{Letter: letters[eLines[2]], Matches: 2})
	}

	seen := make(map[StringID]int)
	for i, id := range res {
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("lines %d and %d: %w: %v", prev+1, i+1, ErrDuplicateString, id)
		}
		seen[id] = i
	}
	return res, nil
}

func highStringFirst(letters []byte) bool {
	posA, posB := -1, -1
	for i, l := range letters {
		switch l {
		case 'A', 'a':
			posA = i
		case 'B', 'b':
			posB = i
		}
	}
	return posA >= 0 && posB >= 0 && posB < posA
}
