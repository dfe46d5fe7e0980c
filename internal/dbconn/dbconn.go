// Package dbconn opens the single native pgx connection the CLI
// demonstrator hands to the catalog loader and the analyzer.
package dbconn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/leapstack-labs/sqltyper/internal/config"
)

// Open connects to the database described by db and pings it before
// returning, so callers never hold a connection that fails on first use.
// If logger is nil, a discard logger is used.
func Open(ctx context.Context, db config.Database, logger *slog.Logger) (*pgx.Conn, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("connecting to postgres", slog.String("host", db.Host), slog.Int("port", db.Port), slog.String("dbname", db.Name))

	conn, err := pgx.Connect(ctx, db.DSN())
	if err != nil {
		return nil, fmt.Errorf("dbconn: connect: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("dbconn: ping: %w", err)
	}

	return conn, nil
}
