package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jsphweid/kalimbatab/constants"
)

func init() {
	watchCmd.Flags().Duration("debounce", 0, "wait this long after the last change before converting (default from config)")
	viper.BindPFlag(constants.KeyWatchDebounce, watchCmd.Flags().Lookup("debounce"))
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Converts the file again every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watch(ctx, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// watch converts path once, then again after each burst of writes to it,
// until ctx is done.
func watch(ctx context.Context, path string, out, errOut io.Writer) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	// editors often replace the file, so watch its directory
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	render := func() {
		info(out, "--- %s\n", path)
		if err := convert(path, out, errOut); err != nil {
			warning(errOut, "%v\n", err)
		}
	}
	render()

	debounced := debounce.New(constants.GetWatchDebounce())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			slog.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			debounced(render)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		}
	}
}
