package chouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/logingood/yt-snmp-checks/config"
	"github.com/logingood/yt-snmp-checks/models"
	"go.uber.org/zap"
)

type ClickhouseClient struct {
	dbName    string
	tableName string
	conn      driver.Conn
	logger    *zap.Logger
}

func New(logger *zap.Logger, conn driver.Conn, dbName, tableName string) *ClickhouseClient {
	return &ClickhouseClient{
		logger:    logger,
		conn:      conn,
		dbName:    dbName,
		tableName: tableName,
	}
}

// Open connects with the archive settings from the environment. Dialing is
// bounded by timeout so an unreachable archive cannot outlast the check.
func Open(cfg *config.FromEnv, timeout time.Duration) (driver.Conn, error) {
	return clickhouse.Open(ConnOptions(cfg, timeout))
}

func ConnOptions(cfg *config.FromEnv, timeout time.Duration) *clickhouse.Options {
	return &clickhouse.Options{
		DialTimeout: timeout,
		Addr:        []string{fmt.Sprintf("%s:%s", cfg.ClickhouseAddr, cfg.ClickhousePort)},
		Auth: clickhouse.Auth{
			Database: cfg.ClickhouseDb,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}

// Row is the column order of the results table.
func Row(record models.ResultRecord) []interface{} {
	return []interface{}{
		record.Time.UnixMilli(),
		record.Hostname,
		record.Plugin,
		uint8(record.Status),
		record.Status.String(),
		record.Text,
		record.PerfData,
	}
}

func (c *ClickhouseClient) Write(ctx context.Context, record models.ResultRecord) error {
	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.%s", c.dbName, c.tableName))
	if err != nil {
		return err
	}
	if err := batch.Append(Row(record)...); err != nil {
		return err
	}
	if err := batch.Send(); err != nil {
		return err
	}
	c.logger.Debug("archived result", zap.String("hostname", record.Hostname), zap.String("plugin", record.Plugin))
	return nil
}

func (c *ClickhouseClient) InitDb(ctx context.Context) error {
	return c.conn.Exec(ctx, CreateTableStatement(c.dbName, c.tableName))
}

func CreateTableStatement(dbName, tableName string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		time Int64,
		hostname VARCHAR(255),
		plugin VARCHAR(64),
		exit_code UInt8,
		status VARCHAR(16),
		text String,
		perf_data String
	)
	ENGINE = MergeTree
	ORDER BY (hostname, plugin, time)`,
		dbName, tableName)
}
