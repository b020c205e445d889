package pitch

import (
	"errors"
	"fmt"
)

// ChromaticScale is the sharps-only pitch class order, C first.
var ChromaticScale = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var ErrUnknownName = errors.New("unknown pitch name")

// Pitch is a named pitch class plus an octave. Values are immutable; Transpose
// always returns a new Pitch.
type Pitch struct {
	name   string
	octave int
}

func New(name string, octave int) (Pitch, error) {
	if indexOf(name) < 0 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return Pitch{name: name, octave: octave}, nil
}

func MustNew(name string, octave int) Pitch {
	p, err := New(name, octave)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pitch) Name() string { return p.name }
func (p Pitch) Octave() int  { return p.octave }

// Index is the position of the pitch class in ChromaticScale.
func (p Pitch) Index() int { return indexOf(p.name) }

// Letter is the natural letter of the pitch class, dropping any sharp.
func (p Pitch) Letter() byte { return p.name[0] }

func (p Pitch) IsSharp() bool { return len(p.name) > 1 }

// Transpose moves the pitch by the given number of semitones, carrying into
// the octave with floor division so negative offsets cross octaves correctly.
func (p Pitch) Transpose(semitones int) Pitch {
	n := p.Index() + semitones
	return Pitch{
		name:   ChromaticScale[floorMod(n, 12)],
		octave: p.octave + floorDiv(n, 12),
	}
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", p.name, p.octave)
}

// MidiKey follows the C4 = 60 convention, so E2 is 40.
func (p Pitch) MidiKey() int {
	return (p.octave+1)*12 + p.Index()
}

// FromMidiKey is the inverse of MidiKey.
func FromMidiKey(key int) Pitch {
	return Pitch{name: ChromaticScale[floorMod(key, 12)], octave: floorDiv(key, 12) - 1}
}

func indexOf(name string) int {
	for i, v := range ChromaticScale {
		if v == name {
			return i
		}
	}
	return -1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
