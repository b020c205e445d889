package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsphweid/kalimbatab/chord"
	"github.com/jsphweid/kalimbatab/kalimba"
	"github.com/jsphweid/kalimbatab/phrase"
	"github.com/jsphweid/kalimbatab/util"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Summarizes a tab file",
	Long: `Report counts the blocks, columns, notes and chords of a tab file and how
many notes lost information on the way to the kalimba.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks, err := loadBlocks(args[0], cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		grids, err := phrase.BuildGrids(blocks, renderOptions())
		if err != nil {
			return err
		}
		analyzeGrids(grids).print(cmd.OutOrStdout())
		return nil
	},
}

type tabReport struct {
	numBlocks      int
	numColumns     int
	numRests       int
	numNotes       int
	numChords      int
	sharpCollapsed int
	clampedLow     int
	clampedHigh    int
	notesPerBlock  []int
	// keyed by chord.CreateChordKey
	chordShapes map[string]int
}

func analyzeGrids(grids []phrase.Grid) tabReport {
	report := tabReport{chordShapes: make(map[string]int)}
	for _, g := range grids {
		report.numBlocks += 1
		var blockNotes int
		for _, col := range g.Columns {
			report.numColumns += 1
			blockNotes += len(col)
			switch {
			case len(col) == 0:
				report.numRests += 1
			case len(col) > 1:
				report.numChords += 1
				keys := make([]int, len(col))
				for i, n := range col {
					keys[i] = n.Pitch.MidiKey()
				}
				report.chordShapes[chord.CreateChordKey(keys)] += 1
			}
			for _, n := range col {
				if n.Token.Loss&kalimba.SharpCollapsed != 0 {
					report.sharpCollapsed += 1
				}
				if n.Token.Loss&kalimba.ClampedLow != 0 {
					report.clampedLow += 1
				}
				if n.Token.Loss&kalimba.ClampedHigh != 0 {
					report.clampedHigh += 1
				}
			}
		}
		report.notesPerBlock = append(report.notesPerBlock, blockNotes)
	}
	report.numNotes = int(util.Sum(report.notesPerBlock))
	return report
}

func (r tabReport) print(w io.Writer) {
	fmt.Fprintf(w, "blocks: %v\n", r.numBlocks)
	fmt.Fprintf(w, "columns: %v (rests: %v)\n", r.numColumns, r.numRests)
	fmt.Fprintf(w, "notes: %v\n", r.numNotes)
	fmt.Fprintf(w, "notes per block: %v\n", r.notesPerBlock)
	fmt.Fprintf(w, "chords: %v (distinct: %v)\n", r.numChords, len(r.chordShapes))
	for _, key := range util.GetKeys(r.chordShapes) {
		fmt.Fprintf(w, "  %v x%v\n", key, r.chordShapes[key])
	}
	fmt.Fprintf(w, "sharps collapsed: %v\n", r.sharpCollapsed)
	fmt.Fprintf(w, "clamped below range: %v\n", r.clampedLow)
	fmt.Fprintf(w, "clamped above range: %v\n", r.clampedHigh)
}
