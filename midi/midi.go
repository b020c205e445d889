package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/kalimbatab/phrase"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrKeyOutOfRange is returned when a note falls outside MIDI keys 0-127,
// usually because of an extreme base octave.
var ErrKeyOutOfRange = errors.New("note outside the MIDI key range")

const maxKey = 127

type Options struct {
	BPM        float64
	Velocity   uint8
	Channel    uint8
	BaseOctave int
	// Guitar exports the fretted guitar pitches instead of the kalimba
	// rendition of each token.
	Guitar bool
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// smf can panic on broken input
	defer func() {
		if r := recover(); r != nil {
			s, e = &blank, fmt.Errorf("parsing midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file %s: %w", filepath, err)
	}
	return res, nil
}

// FromGrids lays the grids out as quarter notes on one track. Chords sound
// together and rest columns advance time by a quarter.
func FromGrids(grids []phrase.Grid, opts Options) (*smf.SMF, error) {
	if len(grids) == 0 {
		return nil, errors.New("nothing to export")
	}
	s := smf.New()
	quarter := s.TimeFormat.(smf.MetricTicks).Ticks4th()

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(opts.BPM))

	var pending uint32
	for _, g := range grids {
		for _, col := range g.Columns {
			if len(col) == 0 {
				pending += quarter
				continue
			}
			keys, err := columnKeys(col, opts)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", g.Block, err)
			}
			for i, key := range keys {
				delta := uint32(0)
				if i == 0 {
					delta = pending
				}
				tr.Add(delta, gomidi.NoteOn(opts.Channel, key, opts.Velocity))
			}
			for i, key := range keys {
				delta := uint32(0)
				if i == 0 {
					delta = quarter
				}
				tr.Add(delta, gomidi.NoteOff(opts.Channel, key))
			}
			pending = 0
		}
	}
	tr.Close(pending)

	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("adding track: %w", err)
	}
	return s, nil
}

func columnKeys(col phrase.Column, opts Options) ([]uint8, error) {
	seen := make(map[uint8]bool)
	var keys []uint8
	for _, n := range col {
		p := n.Token.Pitch(opts.BaseOctave)
		if opts.Guitar {
			p = n.Pitch
		}
		k := p.MidiKey()
		if k < 0 || k > maxKey {
			return nil, fmt.Errorf("%w: %v (key %d)", ErrKeyOutOfRange, p, k)
		}
		key := uint8(k)
		// two strings can land on the same kalimba tine
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}

func Write(w io.Writer, s *smf.SMF) error {
	_, err := s.WriteTo(w)
	return err
}

func WriteMidiFile(path string, s *smf.SMF) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, s); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// NoteKeys lists the keys of every note-on in track order.
func NoteKeys(s *smf.SMF) []uint8 {
	var res []uint8
	for _, track := range s.Tracks {
		for _, event := range track {
			var channel, key, velocity uint8
			if event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				res = append(res, key)
			}
		}
	}
	return res
}
