// Package cli implements the bakebook command line client: an
// offline-capable front end that caches server data locally and queues
// edits made while disconnected.
package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/heritagebakes/bakebook/internal/offline/api"
	"github.com/heritagebakes/bakebook/internal/offline/outbox"
	"github.com/heritagebakes/bakebook/internal/offline/store"
	syncengine "github.com/heritagebakes/bakebook/internal/offline/sync"
	"github.com/heritagebakes/bakebook/pkg/database"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server  string
	DBPath  string
	Offline bool // skip the online attempt and queue mutations directly
}

// NewRootCommand creates the root command for the bakebook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bakebook",
		Short:         "BakeBook - your family recipes, online or off",
		Long:          "An offline-capable client for a BakeBook recipe server. Edits made while disconnected are queued locally and replayed when connectivity returns.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultDB := "bakebook.db"
	if home, err := os.UserHomeDir(); err == nil {
		defaultDB = filepath.Join(home, ".bakebook", "local.db")
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", envOr("BAKEBOOK_SERVER", "http://localhost:8080"), "base URL of the BakeBook server")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", envOr("BAKEBOOK_DB", defaultDB), "path to the local SQLite cache")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "queue mutations without contacting the server")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewOutboxCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// env bundles the client-side components wired over one local store.
type env struct {
	store  *store.Store
	queue  *outbox.Queue
	client *api.Client
	engine *syncengine.Engine
}

// newEnv opens the local store and wires the offline components.
func newEnv(opts *RootOptions) (*env, error) {
	db, err := database.NewSQLiteConnection(opts.DBPath)
	if err != nil {
		return nil, err
	}
	st, err := store.New(db)
	if err != nil {
		return nil, err
	}

	q := outbox.NewQueue(st)
	client := api.NewClient(opts.Server, st)
	return &env{
		store:  st,
		queue:  q,
		client: client,
		engine: syncengine.NewEngine(st, q, client),
	}, nil
}

// watchInterval is how often the sync command's --watch mode probes
// connectivity.
const watchInterval = 30 * time.Second
