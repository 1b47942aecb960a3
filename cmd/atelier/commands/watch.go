package commands

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/atelier-dev/atelier/pkg/workspace"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the members directory and re-validate on changes",
		Long: `Watch the workspace's members directory for changes and re-check the
member invariants (identity and port uniqueness) whenever a member is
added or removed.

The watch is read-only: it reports drift, it never repairs it. Stop
with Ctrl+C.`,
		Example: `  # Watch the current workspace
  atelier watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Open(workspaceDir, log.Logger)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(ws.MembersDir()); err != nil {
				return fmt.Errorf("failed to watch %s: %w", ws.MembersDir(), err)
			}

			fmt.Printf("Watching %s (Ctrl+C to stop)\n", ws.MembersDir())

			// Debounce re-validation: a clone touches many paths at once.
			var revalidate *time.Timer
			const delay = 500 * time.Millisecond

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					log.Debug().
						Str("path", event.Name).
						Str("op", event.Op.String()).
						Msg("Members directory changed")

					if revalidate != nil {
						revalidate.Stop()
					}
					revalidate = time.AfterFunc(delay, func() {
						if err := ws.CheckInvariants(); err != nil {
							log.Warn().Err(err).Msg("Workspace invariants violated")
							return
						}
						members, err := ws.Members()
						if err != nil {
							log.Warn().Err(err).Msg("Failed to scan members")
							return
						}
						log.Info().Int("members", len(members)).Msg("Workspace consistent")
					})

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Warn().Err(err).Msg("Watcher error")
				}
			}
		},
	}

	return cmd
}
