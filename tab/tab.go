package tab

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jsphweid/kalimbatab/model"
)

const (
	separator = "|"
	// fretStep is the width of one time step; the fret digit sits at
	// fretSlot inside it.
	fretStep = 4
	fretSlot = 1
)

var (
	ErrMalformedLine = errors.New("malformed tab line")
	ErrBlockCount    = errors.New("tab line count is not a multiple of six")
)

var tabLinePattern = regexp.MustCompile(`^[eBGDAE]\|[-0-9|]+$`)

type MalformedLineError struct {
	Line   string
	Column int
	Reason string
}

func (e *MalformedLineError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("malformed tab line %q at column %d: %s", e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("malformed tab line %q: %s", e.Line, e.Reason)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// IsTabLine reports whether a raw line looks like one string of a tab:
// a string letter, a bar, then only digits, dashes and bars.
func IsTabLine(line string) bool {
	return tabLinePattern.MatchString(strings.TrimSpace(line))
}

// ParseLine reads the string letter and the fret cells of one tab line. Each
// bar-separated segment after the label is read in 4-character steps, taking
// the character in the second position of every step.
func ParseLine(raw string) (model.TabLine, error) {
	var res model.TabLine
	line := strings.TrimSpace(raw)
	segments := strings.Split(line, separator)
	if len(segments) < 2 {
		return res, &MalformedLineError{Line: line, Reason: "missing " + separator + " separator"}
	}
	if segments[0] == "" {
		return res, &MalformedLineError{Line: line, Reason: "missing string letter"}
	}
	res.Letter = segments[0][0]

	column := len(segments[0]) + 1
	for _, seg := range segments[1:] {
		for i := fretSlot; i < len(seg); i += fretStep {
			switch ch := seg[i]; {
			case ch >= '0' && ch <= '9':
				res.Frets = append(res.Frets, model.FretCell(ch-'0'))
			case ch == '-':
				res.Frets = append(res.Frets, model.Unplayed)
			default:
				return model.TabLine{}, &MalformedLineError{
					Line:   line,
					Column: column + i + 1,
					Reason: fmt.Sprintf("%q is neither a fret digit nor -", ch),
				}
			}
		}
		column += len(seg) + 1
	}
	return res, nil
}

// Extract picks the tab lines out of a text in order and groups them into
// blocks of six. Non-tab lines are skipped.
func Extract(lines []string) ([]model.Block, error) {
	var tabs []string
	for _, line := range lines {
		if IsTabLine(line) {
			tabs = append(tabs, strings.TrimSpace(line))
		}
	}
	if len(tabs)%model.BlockSize != 0 {
		return nil, fmt.Errorf("%w: found %d", ErrBlockCount, len(tabs))
	}

	blocks := make([]model.Block, 0, len(tabs)/model.BlockSize)
	for i := 0; i < len(tabs); i += model.BlockSize {
		b := model.Block{Number: len(blocks) + 1}
		copy(b.Lines[:], tabs[i:i+model.BlockSize])
		blocks = append(blocks, b)
	}
	return blocks, nil
}
