package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stylec/colors"
	"stylec/internal/config"
	"stylec/internal/watch"
)

func newWatchCommand(s *settings) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Compile stylesheets and recompile them when their directories change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.resolve(cmd)
			if err != nil {
				return err
			}
			opts := compileOptions(cfg, cmd.ErrOrStderr())

			rebuild := func() {
				err := buildFiles(cmd, cfg, opts, args)
				switch {
				case err == nil:
				case errors.Is(err, ErrFailed):
					colors.RED.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
				default:
					opts.Logger.Error("rebuild failed", slog.String("error", err.Error()))
				}
			}
			rebuild()

			w, err := watch.New(watchDirs(cfg, args), func(changes []watch.Change) {
				// our own output must not trigger another build
				changes = outsideDir(changes, cfg.OutDir)
				if len(changes) == 0 {
					return
				}
				for _, c := range changes {
					opts.Logger.Debug("change detected",
						slog.String("path", c.Path),
						slog.String("op", c.Op.String()),
					)
				}
				colors.CYAN.Fprintf(cmd.ErrOrStderr(), "%s changed, rebuilding\n", describeChanges(changes))
				rebuild()
			}, &watch.Options{Debounce: debounce, Logger: opts.Logger})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()

			if err := w.Start(cmd.Context()); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			colors.GREY.Fprintf(cmd.ErrOrStderr(), "watching for changes, press Ctrl+C to stop\n")

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "quiet period before a batch of changes triggers a rebuild")
	return cmd
}

// watchDirs returns the directories of the entry files followed by the
// configured load paths.
func watchDirs(cfg *config.Config, files []string) []string {
	dirs := make([]string, 0, len(files)+len(cfg.LoadPaths))
	for _, f := range files {
		dirs = append(dirs, filepath.Dir(f))
	}
	return append(dirs, cfg.LoadPaths...)
}

func describeChanges(changes []watch.Change) string {
	if len(changes) == 1 {
		return filepath.Base(changes[0].Path)
	}
	names := make([]string, 0, 3)
	for i, c := range changes {
		if i == 3 {
			names = append(names, fmt.Sprintf("and %d more", len(changes)-3))
			break
		}
		names = append(names, filepath.Base(c.Path))
	}
	return strings.Join(names, ", ")
}


func outsideDir(changes []watch.Change, dir string) []watch.Change {
	if dir == "" {
		return changes
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return changes
	}
	kept := changes[:0:0]
	for _, c := range changes {
		rel, err := filepath.Rel(abs, c.Path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
