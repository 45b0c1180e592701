// Package historycmder provides the history command for browsing saved
// invocations.
package historycmder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spoolhq/spool/pkg/config"
	"github.com/spoolhq/spool/pkg/dotdir"
	"github.com/spoolhq/spool/pkg/history"
	historyinmemory "github.com/spoolhq/spool/pkg/history/inmemory"
	historypostgres "github.com/spoolhq/spool/pkg/history/postgres"
	historysqlite "github.com/spoolhq/spool/pkg/history/sqlite"
)

const historyLongDesc string = `Browse saved invocations.

Every completed invocation is saved to the configured history backend
(history.* config keys; SQLite in .spool/history.db by default).

Subcommands:
  spool history list          List recent invocations
  spool history show <id>     Show one invocation's prompt and transcript

Examples:
  spool history list
  spool history list --limit 5
  spool history show 3e7c9a4f-...`

const historyShortDesc string = "Browse saved invocations"

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())

	return cmd
}

// openStore opens the configured history backend.
func openStore(ctx context.Context, configDir string) (history.Store, error) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	switch cfg.History.Backend {
	case "sqlite", "":
		path := cfg.History.SQLitePath
		if path == "" {
			ddm := dotdir.NewManager()
			target, err := ddm.Target(configDir)
			if err != nil {
				return nil, fmt.Errorf("resolving the history database path: %w", err)
			}
			path = filepath.Join(target, "history.db")
		}
		return historysqlite.NewStore(path)
	case "postgres":
		if cfg.History.PostgresDSN == "" {
			return nil, fmt.Errorf("history.postgres_dsn is not set")
		}
		return historypostgres.NewStore(ctx, cfg.History.PostgresDSN)
	case "memory":
		return historyinmemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}
