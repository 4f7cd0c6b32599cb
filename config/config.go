package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// FromEnv holds the settings that never appear on a Nagios command line.
type FromEnv struct {
	LogLevel string `env:"LOG_LEVEL,default=WARN"`

	// LibreNMS style device inventory, used to fill in SNMP credentials
	InventoryDSN   string `env:"INVENTORY_DSN"`
	InventoryQuery string `env:"INVENTORY_QUERY"`

	// Results archive, disabled without an address
	ClickhouseAddr     string `env:"CLICKHOUSE_ADDR"`
	ClickhousePort     string `env:"CLICKHOUSE_PORT,default=9000"`
	ClickhouseDb       string `env:"CLICKHOUSE_DB,default=default"`
	ClickhouseUsername string `env:"CLICKHOUSE_USERNAME,default=default"`
	ClickhousePassword string `env:"CLICKHOUSE_PASSWORD"`
	ClickhouseTable    string `env:"CLICKHOUSE_TABLE,default=check_results"`
}

// LoadEnv reads FromEnv through l; pass envconfig.OsLookuper() outside tests.
func LoadEnv(ctx context.Context, l envconfig.Lookuper) (*FromEnv, error) {
	var cfg FromEnv
	if err := envconfig.ProcessWith(ctx, &cfg, l); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (e *FromEnv) InventoryEnabled() bool {
	return e != nil && e.InventoryDSN != ""
}

func (e *FromEnv) ArchiveEnabled() bool {
	return e != nil && e.ClickhouseAddr != ""
}
