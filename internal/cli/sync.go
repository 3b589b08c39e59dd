package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	syncengine "github.com/heritagebakes/bakebook/internal/offline/sync"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay queued edits against the server",
		Long: `Drain the local outbox against the server.

With --watch, keep running and probe connectivity periodically; whenever
the server becomes reachable after an offline stretch, queued edits are
replayed automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}

			res, err := e.engine.ProcessOutbox(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d, errors %d\n", res.Synced, res.Errors)

			if !watch {
				return nil
			}

			watcher := syncengine.NewConnectivityWatcher(e.engine, e.client, watchInterval)
			watcher.Start()
			defer watcher.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and sync when connectivity returns")
	return cmd
}

// NewOutboxCommand creates the outbox command.
func NewOutboxCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outbox",
		Short: "Show queued edits and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}

			items, err := e.queue.Items(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "outbox is empty")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tOP\tRECIPE\tSTATUS\tERROR")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Op, it.RecipeID, it.Status, it.Error)
			}
			return w.Flush()
		},
	}
}
