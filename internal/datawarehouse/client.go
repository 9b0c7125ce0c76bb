// Package datawarehouse pushes the shop's cash ledger (payments and refunds)
// into the accounting MS SQL Server warehouse.
package datawarehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/autoshop/shop-api/internal/config"
	"github.com/google/uuid"
	_ "github.com/microsoft/go-mssqldb" // sqlserver driver
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	connectAttempts = 3
	firstBackoff    = time.Second
	maxBackoff      = 10 * time.Second
	pingTimeout     = 5 * time.Second
)

// Ledger entry kinds
const (
	EntryPayment = "payment"
	EntryRefund  = "refund"
)

// LedgerEntry is one cash movement as the accounting side sees it.
// Refund amounts are negative.
type LedgerEntry struct {
	SourceID    uuid.UUID
	Kind        string
	OrderID     uuid.UUID
	ClientID    uuid.UUID
	Amount      decimal.Decimal
	BookedAt    time.Time
	RecordedBy  string
	Description string
}

// Client writes ledger entries to the warehouse. A nil *Client is valid and
// behaves as a disabled connection.
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
	table        string
}

// NewClient opens the warehouse pool. It returns (nil, nil) when the export is
// disabled or credentials are incomplete, so callers treat nil as "off".
func NewClient(cfg *config.DataWarehouseConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Ledger export target disabled")
		return nil, nil
	}
	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Ledger export enabled without complete credentials",
			zap.Bool("url_set", cfg.URL != ""),
			zap.Bool("user_set", cfg.User != ""),
			zap.Bool("password_set", cfg.Password != ""),
		)
		return nil, nil
	}

	dsn, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	db, attempts, err := connectWithRetry(dsn, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("data warehouse unreachable after %d attempts: %w", attempts, err)
	}
	logger.Info("Data warehouse connected",
		zap.Int("attempts", attempts),
		zap.String("table", exportTable(cfg.ExportTable)),
	)

	return &Client{
		db:           db,
		logger:       logger,
		queryTimeout: cfg.QueryTimeoutDuration(),
		table:        exportTable(cfg.ExportTable),
	}, nil
}

// connectWithRetry opens and pings the pool, backing off exponentially
// between failed attempts.
func connectWithRetry(dsn string, cfg *config.DataWarehouseConfig, logger *zap.Logger) (*sql.DB, int, error) {
	var lastErr error
	wait := firstBackoff
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(wait)
			wait = min(wait*2, maxBackoff)
		}

		db, err := sql.Open("sqlserver", dsn)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			err = db.PingContext(ctx)
			cancel()
			if err == nil {
				return db, attempt, nil
			}
			_ = db.Close()
		}

		lastErr = err
		logger.Warn("Data warehouse connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return nil, connectAttempts, lastErr
}

// buildConnectionString turns "host[:port][/database]" plus credentials into
// a sqlserver:// DSN with TLS required.
func buildConnectionString(cfg *config.DataWarehouseConfig) (string, error) {
	hostPort, database, _ := strings.Cut(cfg.URL, "/")
	host, port, found := strings.Cut(hostPort, ":")
	if !found || port == "" {
		port = "1433"
	}
	if host == "" {
		return "", fmt.Errorf("missing host in %q", cfg.URL)
	}

	query := url.Values{}
	query.Set("encrypt", "true")
	query.Set("TrustServerCertificate", "false")
	query.Set("connection timeout", "30")
	if database != "" {
		query.Set("database", database)
	}

	dsn := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     host + ":" + port,
		RawQuery: query.Encode(),
	}
	return dsn.String(), nil
}

// Ping checks the warehouse is reachable, bounded by a short timeout
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.db == nil {
		return errors.New("data warehouse client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.db.PingContext(ctx)
}

// Close releases the pool
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close data warehouse connection: %w", err)
	}
	c.logger.Info("Data warehouse connection closed")
	return nil
}

// ExportLedgerEntries upserts entries keyed by source id, so re-running an
// export window never duplicates rows. All entries go in one transaction.
func (c *Client) ExportLedgerEntries(ctx context.Context, entries []LedgerEntry) error {
	if c == nil || c.db == nil {
		return errors.New("data warehouse client not initialized")
	}
	if len(entries) == 0 {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout*time.Duration(1+len(entries)/100))
		defer cancel()
	}

	start := time.Now()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin export transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, mergeStatement(c.table))
	if err != nil {
		return fmt.Errorf("failed to prepare merge: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			sql.Named("source_id", e.SourceID.String()),
			sql.Named("kind", e.Kind),
			sql.Named("order_id", e.OrderID.String()),
			sql.Named("client_id", e.ClientID.String()),
			sql.Named("amount", e.Amount.StringFixed(2)),
			sql.Named("booked_at", e.BookedAt),
			sql.Named("recorded_by", e.RecordedBy),
			sql.Named("description", e.Description),
		)
		if err != nil {
			c.logger.Error("Ledger entry export failed",
				zap.String("source_id", e.SourceID.String()),
				zap.String("kind", e.Kind),
				zap.Error(err),
			)
			return fmt.Errorf("failed to export ledger entry %s: %w", e.SourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}

	c.logger.Info("Ledger entries exported",
		zap.Int("entries", len(entries)),
		zap.String("table", c.table),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func mergeStatement(table string) string {
	return fmt.Sprintf(`MERGE INTO %s AS target
USING (SELECT @source_id AS source_id) AS src
ON target.source_id = src.source_id
WHEN MATCHED THEN UPDATE SET
	kind = @kind, order_id = @order_id, client_id = @client_id,
	amount = CAST(@amount AS DECIMAL(12,2)), booked_at = @booked_at,
	recorded_by = @recorded_by, description = @description
WHEN NOT MATCHED THEN INSERT
	(source_id, kind, order_id, client_id, amount, booked_at, recorded_by, description)
	VALUES (@source_id, @kind, @order_id, @client_id, CAST(@amount AS DECIMAL(12,2)), @booked_at, @recorded_by, @description);`, table)
}

// exportTable accepts schema-qualified identifiers only, falling back to the default
func exportTable(name string) string {
	const fallback = "dbo.shop_ledger_entries"
	if name == "" {
		return fallback
	}
	for _, r := range name {
		if r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fallback
		}
	}
	if !strings.Contains(name, ".") {
		return "dbo." + name
	}
	return name
}


