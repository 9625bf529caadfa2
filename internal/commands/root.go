package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ledgerrun-dev/ledgerrun/internal/buildinfo"
	"github.com/ledgerrun-dev/ledgerrun/internal/config"
	"github.com/ledgerrun-dev/ledgerrun/internal/logging"
	"github.com/ledgerrun-dev/ledgerrun/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerrun",
		Short:   "Recurring financial ledger engine",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "ledgerrun.yaml", "path to config file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newDaemonCommand())

	return rootCmd
}

// env is everything a command needs once the config is loaded.
type env struct {
	cfg *config.Config
	db  *store.DB
	log zerolog.Logger
	loc *time.Location
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	log := logging.New(level)

	loc := time.Local
	if tz := cfg.Engine.Timezone; tz != "" && tz != "Local" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", tz, err)
		}
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, db: db, log: log, loc: loc}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.log.Error().Err(err).Msg("closing store")
	}
}

// today is the current calendar date in the reference timezone.
func (e *env) today() time.Time {
	now := time.Now().In(e.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
}
