package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/jsbind/bindings"
	"github.com/teranos/jsbind/display"
	"github.com/teranos/jsbind/manifest"
)

// WatchCmd represents the watch command
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate when headers or descriptors change",
	Long: `Generate once, then watch the module descriptors and every directory
holding a bound header. Changes are debounced (watch.debounce_ms) into a
single regeneration. A failed run is reported and watching continues.

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w, err := bindings.NewWatcher(cfg)
	if err != nil {
		return err
	}
	defer w.Stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	w.OnRun(func(m *manifest.Manifest, err error) {
		if err != nil {
			display.ReportError(errOut, err)
			return
		}
		display.Success(out, "Regenerated %d files", len(m.Files))
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.Run(ctx)
	w.Start(ctx)
	display.Success(out, "Watching %d directories", len(w.Dirs()))

	<-ctx.Done()
	display.Success(out, "Stopped")
	return nil
}
