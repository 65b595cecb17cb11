package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amirhadar/pdep-go/cmd/pdep/example"
)

// newDevCommand watches a directory and re-runs a dry-run plan on every
// change, debouncing bursts of writes the way a save-all in an editor
// produces. Grounded on pkg/policy/loader.go's Watch/processEvents: the
// same fsnotify recursive-add-plus-debounced-reload shape, driving a plan
// preview here instead of a policy cache reload.
func newDevCommand() *cobra.Command {
	var watchPath string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Watch a directory and re-plan the example deployment on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			if err := addRecursive(watcher, watchPath); err != nil {
				return fmt.Errorf("watch %s: %w", watchPath, err)
			}

			log.Info().Str("path", watchPath).Msg("watching for changes")
			if err := runPlanOnce(ctx); err != nil {
				log.Error().Err(err).Msg("initial plan failed")
			}

			return watchLoop(ctx, watcher, debounce)
		},
	}

	cmd.Flags().StringVar(&watchPath, "watch", ".", "directory to watch for changes")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "delay after the last detected change before re-planning")
	return cmd
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration) error {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if err := runPlanOnce(ctx); err != nil {
					log.Error().Err(err).Msg("re-plan failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

func runPlanOnce(ctx context.Context) error {
	orch, err := buildOrchestrator(ctx)
	if err != nil {
		return err
	}
	root := example.NewDeployment(deploymentInput(), log.Logger)
	applyUUID, err := orch.Apply(ctx, root, true, false)
	if err != nil {
		return err
	}
	log.Info().Str("apply_uuid", applyUUID.String()).Msg("re-planned")
	return nil
}
