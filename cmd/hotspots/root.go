package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/config"
	"github.com/hotspot-explorer/internal/pkg/logger"
	"github.com/hotspot-explorer/internal/repository/sqlstore"
	"github.com/hotspot-explorer/internal/usecase"
)

type rootOptions struct {
	envFile  string
	driver   string
	dsn      string
	logLevel string
}

// app is built once per invocation, after flags are parsed.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *sqlstore.Store

	hotspot   *usecase.HotspotUseCase
	drillDown *usecase.DrillDownUseCase
	facet     *usecase.FacetUseCase
}

func newRootCmd(a *app) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hotspots",
		Short: "Explore road-safety incident hotspots",
		Long: "Aggregates geolocated incidents into grid cells, ranks the cells by risk score, " +
			"casualties or collisions and drills a cell down to its severity breakdown and records.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}
			return a.init(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "env file read underneath the environment")
	flags.StringVar(&opts.driver, "driver", "", "record store driver: sqlite or postgres (default from DB_DRIVER)")
	flags.StringVar(&opts.dsn, "dsn", "", "sqlite file path or postgres connection string")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, logs go to stderr (default from LOG_LEVEL)")

	cmd.AddCommand(
		newRankCmd(a),
		newSummaryCmd(a),
		newRecordsCmd(a),
		newFacetsCmd(a),
		newLocateCmd(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.LoadFile(opts.envFile)
	if err != nil {
		return eris.Wrap(err, "load config")
	}
	if opts.driver != "" {
		cfg.Database.Driver = opts.driver
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	a.cfg = cfg

	log, err := logger.NewWithOutput("hotspots-cli", cfg.Log.Level, "stderr")
	if err != nil {
		return eris.Wrap(err, "init logger")
	}
	a.logger = log

	if opts.dsn != "" {
		a.store, err = sqlstore.Open(cfg.Database.Driver, opts.dsn, log)
	} else {
		a.store, err = sqlstore.New(&cfg.Database, log)
	}
	if err != nil {
		return eris.Wrap(err, "open record store")
	}

	guard := usecase.NewSchemaGuard(a.store, log, nil)
	if err := guard.Check(cmd.Context()); err != nil {
		return err
	}

	a.hotspot = usecase.NewHotspotUseCase(a.store, guard, log, nil, cfg.Hotspot.MaxTopK)
	a.drillDown = usecase.NewDrillDownUseCase(a.store, guard, log, nil, cfg.Hotspot.MaxPageSize)
	a.facet = usecase.NewFacetUseCase(a.store, guard, nil, log, nil, nil, cfg.Hotspot.FacetLimit)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
