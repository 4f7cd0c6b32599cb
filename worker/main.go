package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/logingood/yt-snmp-checks/config"
	"github.com/logingood/yt-snmp-checks/devices"
	"github.com/logingood/yt-snmp-checks/devices/sql"
	"github.com/logingood/yt-snmp-checks/internal/lgr"
	"github.com/logingood/yt-snmp-checks/models"
	"github.com/logingood/yt-snmp-checks/storer/chouse"
	"github.com/olorin/nagiosplugin"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X .../worker.Version=...".
var Version = "dev"

type ParseFunc func(args []string, env *config.FromEnv) (*config.Check, error)

// Main runs a plugin and returns its exit code.
func Main(name string, parse ParseFunc, args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := config.LoadEnv(ctx, envconfig.OsLookuper())
	if err != nil {
		return report(stdout, models.ResultFromError(fmt.Errorf("%w: %v", models.ErrConfig, err)))
	}

	check, err := parse(args, env)
	switch {
	case config.IsHelp(err):
		fmt.Fprintln(stderr, err)
		return int(nagiosplugin.UNKNOWN)
	case errors.Is(err, config.ErrVersionRequested):
		fmt.Fprintf(stdout, "%s %s\n", name, Version)
		return int(nagiosplugin.UNKNOWN)
	case err != nil:
		return report(stdout, models.ResultFromError(err))
	}

	logger, err := lgr.InitializeLogger(env.LogLevel, check.Verbose)
	if err != nil {
		fmt.Fprintln(stderr, err)
		logger = zap.NewNop()
	}
	defer logger.Sync()

	inventory, archive, cleanup := Setup(ctx, env, check.Timeout, logger)
	defer cleanup()

	result := New(logger, inventory, archive).Run(ctx, check)
	return report(stdout, result)
}

func report(w io.Writer, result models.CheckResult) int {
	fmt.Fprintln(w, result.String())
	return result.ExitCode()
}

// Setup connects the optional inventory and archive. Either one failing is
// logged and the check runs without it.
func Setup(ctx context.Context, env *config.FromEnv, timeout time.Duration, logger *zap.Logger) (devices.Devices, Archive, func()) {
	var (
		inventory devices.Devices
		archive   Archive
		closers   []func()
	)

	if env.InventoryEnabled() {
		db, err := openInventory(ctx, env.InventoryDSN, timeout)
		if err != nil {
			logger.Warn("error create mysql conn", zap.Error(err))
		} else {
			closers = append(closers, func() { db.Close() })
			inventory = sql.New(db, env.InventoryQuery, logger)
		}
	}

	if env.ArchiveEnabled() {
		conn, err := chouse.Open(env, timeout)
		if err != nil {
			logger.Warn("error create clickhouse conn", zap.Error(err))
		} else {
			closers = append(closers, func() { conn.Close() })
			archive = chouse.New(logger, conn, env.ClickhouseDb, env.ClickhouseTable)
		}
	}

	return inventory, archive, func() {
		for _, c := range closers {
			c()
		}
	}
}

// openInventory bounds the MySQL dial by the check timeout unless the DSN
// sets its own.
func openInventory(ctx context.Context, dsn string, timeout time.Duration) (*sqlx.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = timeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sqlx.ConnectContext(cctx, "mysql", cfg.FormatDSN())
}
