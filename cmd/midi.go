package cmd

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/kalimbatab/constants"
	"github.com/jsphweid/kalimbatab/midi"
	"github.com/jsphweid/kalimbatab/phrase"
	"github.com/jsphweid/kalimbatab/pitch"
	"github.com/jsphweid/kalimbatab/sample"
)

func init() {
	midiCmd.Flags().StringP("out", "o", "", "output .mid path (default: input path with .mid extension)")
	midiCmd.Flags().Bool("guitar", false, "export the guitar pitches instead of the kalimba rendition")
	midiCmd.Flags().Int("preview", 0, "only write the first N notes")
	midiCmd.Flags().Uint64("from-tick", 0, "with --preview, skip notes starting before this tick")

	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi <file>",
	Short: "Exports the converted tab as a MIDI file",
	Long: `Midi writes a Standard MIDI File with one quarter note per tab column.
By default the notes are the ones a kalimba player sounds for each token;
--guitar writes the original fretted pitches instead.

Given a .mid file instead of a tab, midi copies it, which together with
--preview cuts an excerpt out of an earlier export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		guitar, _ := cmd.Flags().GetBool("guitar")
		preview, _ := cmd.Flags().GetInt("preview")
		fromTick, _ := cmd.Flags().GetUint64("from-tick")
		if out == "" {
			out = defaultMidiOut(args[0])
		}
		return exportMidi(args[0], out, guitar, preview, fromTick, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func isMidiFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return true
	}
	return false
}

func defaultMidiOut(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if isMidiFile(path) {
		return base + ".preview.mid"
	}
	return base + ".mid"
}

func exportMidi(path, outPath string, guitar bool, preview int, fromTick uint64, out, errOut io.Writer) error {
	var s *smf.SMF
	var err error
	if isMidiFile(path) {
		s, err = midi.ReadMidiFile(path)
	} else {
		s, err = tabToMidi(path, guitar, errOut)
	}
	if err != nil || s == nil {
		return err
	}
	if preview > 0 {
		s = sample.Create(s, fromTick, preview)
	}

	if err := midi.WriteMidiFile(outPath, s); err != nil {
		return err
	}
	keys := midi.NoteKeys(s)
	slog.Debug("wrote midi file", "path", outPath, "notes", len(keys))
	success(out, "Wrote %s\n", outPath)
	info(out, "notes: %s\n", describeKeys(keys))
	return nil
}

// tabToMidi returns a nil SMF when the tab file could not be read.
func tabToMidi(path string, guitar bool, errOut io.Writer) (*smf.SMF, error) {
	blocks, err := loadBlocks(path, errOut)
	if err != nil || len(blocks) == 0 {
		return nil, err
	}
	opts := renderOptions()
	grids, err := phrase.BuildGrids(blocks, opts)
	if err != nil {
		return nil, err
	}
	return midi.FromGrids(grids, midi.Options{
		BPM:        constants.GetMidiBPM(),
		Velocity:   constants.GetMidiVelocity(),
		BaseOctave: opts.BaseOctave,
		Guitar:     guitar,
	})
}

func describeKeys(keys []uint8) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = pitch.FromMidiKey(int(k)).String()
	}
	return strings.Join(names, " ")
}
