package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/kalimbatab/phrase"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Shows how each tab column maps to kalimba tines",
	Long: `Inspect prints every column of every tab block with the string, fret,
guitar pitch and kalimba token of each played note.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func inspect(path string, out, errOut io.Writer) error {
	blocks, err := loadBlocks(path, errOut)
	if err != nil {
		return err
	}
	opts := renderOptions()
	grids, err := phrase.BuildGrids(blocks, opts)
	if err != nil {
		return err
	}

	for _, g := range grids {
		fmt.Fprintf(out, "block %d: %s\n", g.Block, g.Line(opts.RestToken))
		for c, col := range g.Columns {
			if len(col) == 0 {
				fmt.Fprintf(out, "  %3d  rest\n", c+1)
				continue
			}
			notes := make([]string, len(col))
			for i, n := range col {
				mark := ""
				if n.Token.Lossy() {
					mark = "*"
				}
				notes[i] = fmt.Sprintf("%v/%d %v->%v%s", n.String, n.Fret, n.Pitch, n.Token, mark)
			}
			fmt.Fprintf(out, "  %3d  %s\n", c+1, strings.Join(notes, "  "))
		}
	}
	return nil
}
