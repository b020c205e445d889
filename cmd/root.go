package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jsphweid/kalimbatab/constants"
	"github.com/jsphweid/kalimbatab/file"
	"github.com/jsphweid/kalimbatab/model"
	"github.com/jsphweid/kalimbatab/phrase"
	"github.com/jsphweid/kalimbatab/tab"
)

// version is set at build time via ldflags.
var version = "dev"

var errUsage = errors.New("missing input file")

var rootCmd = &cobra.Command{
	Use:   "kalimbatab <file>",
	Short: "Converts guitar tabs to kalimba tabs",
	Long: `kalimbatab reads six-line guitar tablature from a text file and prints one
line of kalimba numbered notation per tab block. Fretted notes are moved onto
a 17-tine kalimba in C; simultaneous notes are grouped in parentheses.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(constants.GetDebug())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			cmd.Usage()
			return errUsage
		}
		return convert(args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./kalimbatab.yaml or ~/.config/kalimbatab/kalimbatab.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.Int("base-octave", 3, "octave played by the kalimba's unmarked tines")
	flags.String("rest", "0", "token written for columns with no notes (empty drops them)")
	flags.Bool("truncate-ragged", false, "cut ragged blocks to their shortest line instead of failing")

	viper.BindPFlag(constants.KeyDebug, flags.Lookup("debug"))
	viper.BindPFlag(constants.KeyBaseOctave, flags.Lookup("base-octave"))
	viper.BindPFlag(constants.KeyRestToken, flags.Lookup("rest"))
	viper.BindPFlag(constants.KeyTruncateRagged, flags.Lookup("truncate-ragged"))
}

func initConfig() {
	constants.SetDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(constants.AppName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", constants.AppName))
		}
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogger installs a text slog handler on stderr as the default logger.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func renderOptions() phrase.Options {
	return phrase.Options{
		BaseOctave:     constants.GetBaseOctave(),
		RestToken:      constants.GetRestToken(),
		TruncateRagged: constants.GetTruncateRagged(),
	}
}

// loadBlocks reads and splits the input file. A file that cannot be read is
// reported on errOut and yields no blocks and no error, so callers simply
// have nothing to process. A file that reads but does not split into whole
// blocks is an error.
func loadBlocks(path string, errOut io.Writer) ([]model.Block, error) {
	lines, err := file.ReadLines(path)
	if errors.Is(err, file.ErrFileNotFound) {
		warning(errOut, "The file was not found. Please check the filename and try again.\n")
		return nil, nil
	}
	if err != nil {
		warning(errOut, "An error occurred: %v\n", err)
		return nil, nil
	}

	blocks, err := tab.Extract(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("extracted tab blocks", "path", path, "lines", len(lines), "blocks", len(blocks))
	return blocks, nil
}

func convert(path string, out, errOut io.Writer) error {
	blocks, err := loadBlocks(path, errOut)
	if err != nil {
		return err
	}
	rendered, err := phrase.RenderAll(blocks, renderOptions())
	if err != nil {
		return err
	}
	for _, line := range rendered {
		fmt.Fprintln(out, line)
	}
	return nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
