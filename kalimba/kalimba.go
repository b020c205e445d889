package kalimba

import (
	"fmt"

	"github.com/jsphweid/kalimbatab/pitch"
	"github.com/jsphweid/kalimbatab/util"
)

const DefaultBaseOctave = 3

// Letters is the diatonic tine order: C is tine 1, B is tine 7.
var Letters = [7]byte{'C', 'D', 'E', 'F', 'G', 'A', 'B'}

// Loss flags the ways an encoding dropped information from the pitch.
type Loss uint8

const (
	SharpCollapsed Loss = 1 << iota
	ClampedLow
	ClampedHigh
)

type Token struct {
	Tine   int
	Marker string
	Loss   Loss
}

func (t Token) String() string {
	return fmt.Sprintf("%d%s", t.Tine, t.Marker)
}

func (t Token) Lossy() bool { return t.Loss != 0 }

// Pitch is the note a player sounds for this token: the tine's natural
// letter, raised one octave per marker dot.
func (t Token) Pitch(baseOctave int) pitch.Pitch {
	octave := baseOctave
	switch t.Marker {
	case ".":
		octave++
	case ":":
		octave += 2
	}
	return pitch.MustNew(string(Letters[t.Tine-1]), octave)
}

// Encode maps a pitch to numbered notation relative to baseOctave.
//
//	below base     -> "1", no marker
//	base           -> tine
//	base+1         -> tine + "."
//	base+2         -> tine + ":"
//	base+3         -> tine, no marker
//	above base+3   -> min(3, tine) + ":"
//
// Sharps fall onto the natural letter's tine.
func Encode(p pitch.Pitch, baseOctave int) Token {
	tok := Token{Tine: tine(p.Letter())}
	if p.IsSharp() {
		tok.Loss |= SharpCollapsed
	}

	diff := p.Octave() - baseOctave
	switch {
	case diff < 0:
		tok.Tine = 1
		tok.Loss |= ClampedLow
	case diff == 1:
		tok.Marker = "."
	case diff == 2:
		tok.Marker = ":"
	case diff > 3:
		tok.Marker = ":"
		tok.Tine = util.Min(3, tok.Tine)
		tok.Loss |= ClampedHigh
	}
	return tok
}

func tine(letter byte) int {
	for i, l := range Letters {
		if l == letter {
			return i + 1
		}
	}
	// unreachable for a valid pitch
	panic(fmt.Sprintf("kalimba: no tine for letter %q", letter))
}
