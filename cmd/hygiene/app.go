package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nexuscrm/hygiene/internal/application/services"
	"github.com/nexuscrm/hygiene/internal/config"
	"github.com/nexuscrm/hygiene/internal/infrastructure/database"
	"github.com/nexuscrm/hygiene/internal/infrastructure/persistence"
	"github.com/nexuscrm/hygiene/pkg/logging"
)

var errNoDatabase = errors.New("no database configured: set database.host or TIDB_HOST")

// App holds the state shared by every command
type App struct {
	configFile string
	envFile    string
	logLevel   string

	out    io.Writer
	cfg    *config.Config
	logger zerolog.Logger
}

// NewApp creates an App that prints command output to out
func NewApp(out io.Writer) *App {
	return &App{out: out, logger: zerolog.Nop()}
}

// Execute parses args and runs the selected command
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	return root.ExecuteContext(ctx)
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "hygiene",
		Short:   "CRM data hygiene checks",
		Version: version,
		Long: `hygiene checks CRM records for missing fields, invalid values,
duplicates and stale deals, normalizes and enriches them, and reports a
0-100 health score with per-issue insights.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, off")

	root.AddCommand(
		a.runCommand(),
		a.serveCommand(),
		a.tokenCommand(),
		a.migrateCommand(),
		a.runsCommand(),
	)
	return root
}

func (a *App) setup(_ *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.envFile, a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		v.Set("log.level", a.logLevel)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	a.logger = logging.Configure(logCfg)
	return nil
}

// openDatabase connects when a database host is configured; it returns nil otherwise
func (a *App) openDatabase(ctx context.Context) (*database.Connection, error) {
	if !a.cfg.Database.Enabled() {
		return nil, nil
	}
	return database.Open(ctx, a.cfg.Database.Config)
}

// requireDatabase connects and migrates, failing when no database is configured
func (a *App) requireDatabase(ctx context.Context) (*database.Connection, error) {
	db, err := a.openDatabase(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errNoDatabase
	}
	if err := persistence.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newServices loads the hygiene profile and wires the services
func (a *App) newServices(profilePath string, db *database.Connection, opts services.ManagerOptions) (*services.ServiceManager, error) {
	if profilePath == "" {
		profilePath = a.cfg.Profile
	}
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return nil, err
	}
	sm, err := services.NewServiceManager(a.cfg, profile, db, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return sm, nil
}
