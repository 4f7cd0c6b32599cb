package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/logingood/yt-snmp-checks/models"
	"go.uber.org/zap"
)

// LookupQuery reads a LibreNMS devices row. Override it with INVENTORY_QUERY;
// the replacement must take the hostname as its only argument.
const LookupQuery = `SELECT device_id, hostname, community, authlevel, authname, authpass, authalgo, cryptopass, cryptoalgo, snmpver, port, transport FROM devices WHERE hostname = ? LIMIT 1;`

type Client struct {
	db     *sqlx.DB
	query  string
	logger *zap.Logger
}

func New(db *sqlx.DB, query string, logger *zap.Logger) *Client {
	if query == "" {
		query = LookupQuery
	}
	return &Client{
		db:     db,
		query:  query,
		logger: logger,
	}
}

func (c *Client) LookupDevice(ctx context.Context, hostname string) (*models.Device, error) {
	var device models.Device
	err := c.db.GetContext(ctx, &device, c.query, hostname)
	if errors.Is(err, sql.ErrNoRows) {
		c.logger.Debug("device not in inventory", zap.String("hostname", hostname))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("error lookup device", zap.String("hostname", hostname), zap.Error(err))
		return nil, err
	}
	return &device, nil
}
