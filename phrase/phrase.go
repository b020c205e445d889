package phrase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jsphweid/kalimbatab/chord"
	"github.com/jsphweid/kalimbatab/kalimba"
	"github.com/jsphweid/kalimbatab/model"
	"github.com/jsphweid/kalimbatab/pitch"
	"github.com/jsphweid/kalimbatab/tab"
	"github.com/jsphweid/kalimbatab/tuning"
	"github.com/jsphweid/kalimbatab/util"
)

var ErrRaggedBlock = errors.New("tab lines in block have different lengths")

type Options struct {
	BaseOctave int
	// RestToken is written for a column with no played notes. Empty drops
	// such columns from the output.
	RestToken string
	// TruncateRagged cuts every line to the shortest one instead of failing.
	TruncateRagged bool
}

func DefaultOptions() Options {
	return Options{BaseOctave: kalimba.DefaultBaseOctave, RestToken: "0"}
}

// Note is one played cell of the grid.
type Note struct {
	String tuning.StringID
	Fret   model.FretCell
	Pitch  pitch.Pitch
	Token  kalimba.Token
}

// Column holds the notes sounding at one time step, lowest string first.
type Column []Note

type Grid struct {
	Block   int
	Columns []Column
}

// BuildGrid parses the six lines of a block, resolves their strings and lays
// the encoded notes out column by column.
func BuildGrid(block model.Block, opts Options) (Grid, error) {
	grid := Grid{Block: block.Number}

	lines := make([]model.TabLine, model.BlockSize)
	letters := make([]byte, model.BlockSize)
	for i, raw := range block.Lines {
		line, err := tab.ParseLine(raw)
		if err != nil {
			return grid, fmt.Errorf("block %d line %d: %w", block.Number, i+1, err)
		}
		lines[i] = line
		letters[i] = line.Letter
	}

	strs, err := tuning.ResolveBlock(letters)
	if err != nil {
		return grid, fmt.Errorf("block %d: %w", block.Number, err)
	}

	if err := checkLengths(block.Number, lines, opts.TruncateRagged); err != nil {
		return grid, err
	}

	// rows go in string order so columns come out lowest string first
	order := make([]int, model.BlockSize)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return strs[order[a]] < strs[order[b]] })

	rows := make([][]*Note, 0, model.BlockSize)
	for _, i := range order {
		open, err := tuning.OpenPitch(strs[i])
		if err != nil {
			return grid, fmt.Errorf("block %d line %d: %w", block.Number, i+1, err)
		}
		row := make([]*Note, len(lines[i].Frets))
		for c, fret := range lines[i].Frets {
			if !fret.Played() {
				continue
			}
			p := open.Transpose(int(fret))
			row[c] = &Note{String: strs[i], Fret: fret, Pitch: p, Token: kalimba.Encode(p, opts.BaseOctave)}
		}
		rows = append(rows, row)
	}

	for _, cells := range util.Columns(rows) {
		var col Column
		for _, n := range util.Filter(cells, func(n *Note) bool { return n != nil }) {
			col = append(col, *n)
		}
		grid.Columns = append(grid.Columns, col)
	}
	slog.Debug("built grid", "block", block.Number, "columns", len(grid.Columns))
	return grid, nil
}

func checkLengths(blockNum int, lines []model.TabLine, truncate bool) error {
	lengths := make([]int, len(lines))
	ragged := false
	for i, l := range lines {
		lengths[i] = len(l.Frets)
		if lengths[i] != lengths[0] {
			ragged = true
		}
	}
	if !ragged {
		return nil
	}
	if !truncate {
		return fmt.Errorf("block %d: %w: %v", blockNum, ErrRaggedBlock, lengths)
	}
	slog.Warn("truncating ragged block to its shortest line", "block", blockNum, "lengths", lengths)
	return nil
}

func (c Column) Tokens() []kalimba.Token {
	res := make([]kalimba.Token, len(c))
	for i, n := range c {
		res[i] = n.Token
	}
	return res
}

// Line renders the grid as one line of whitespace-separated tokens.
func (g Grid) Line(rest string) string {
	out := make([]string, 0, len(g.Columns))
	for _, col := range g.Columns {
		if s, ok := chord.Group(col.Tokens(), rest); ok {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

func Render(block model.Block, opts Options) (string, error) {
	g, err := BuildGrid(block, opts)
	if err != nil {
		return "", err
	}
	return g.Line(opts.RestToken), nil
}

// BuildGrids builds every block, stopping at the first error.
func BuildGrids(blocks []model.Block, opts Options) ([]Grid, error) {
	grids := make([]Grid, 0, len(blocks))
	for _, b := range blocks {
		g, err := BuildGrid(b, opts)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// RenderAll renders every block. Nothing is returned unless all blocks render.
func RenderAll(blocks []model.Block, opts Options) ([]string, error) {
	grids, err := BuildGrids(blocks, opts)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(grids))
	for i, g := range grids {
		res[i] = g.Line(opts.RestToken)
	}
	return res, nil
}
