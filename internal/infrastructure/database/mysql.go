package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/nexuscrm/hygiene/pkg/constants"
)

// Config holds MySQL/TiDB connection settings
type Config struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// Enabled reports whether a database host is configured
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Connection wraps the shared *sql.DB.
// sql.DB is already safe for concurrent use and pools connections itself,
// so no extra locking is added here.
type Connection struct {
	db *sql.DB
}

var tlsOnce sync.Once

const tlsConfigName = "hygiene"

// DSN builds the driver DSN. Remote hosts get TLS; localhost does not.
func DSN(cfg Config) string {
	port := cfg.Port
	if port == "" {
		port = constants.DefaultDatabasePort
	}
	name := cfg.Name
	if name == "" {
		name = constants.DefaultDatabaseName
	}

	tlsParam := ""
	if isRemote(cfg.Host) {
		tlsParam = "&tls=" + tlsConfigName
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local%s",
		cfg.User, cfg.Password, cfg.Host, port, name, tlsParam)
}

func isRemote(host string) bool {
	return host != "" && host != "127.0.0.1" && host != "localhost"
}

// Open connects and pings the database
func Open(ctx context.Context, cfg Config) (*Connection, error) {
	if isRemote(cfg.Host) {
		tlsOnce.Do(func() {
			if err := mysql.RegisterTLSConfig(tlsConfigName, &tls.Config{
				MinVersion: tls.VersionTLS12,
				ServerName: cfg.Host,
			}); err != nil {
				log.Error().Err(err).Msg("Failed to register TLS config")
			}
		})
	}

	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Idle must match open to avoid churning connections under load.
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(50)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("🗄️ Database connected")
	return &Connection{db: db}, nil
}

// NewConnection wraps an existing handle
func NewConnection(db *sql.DB) *Connection {
	return &Connection{db: db}
}

// QueryContext executes a SELECT query with context
func (c *Connection) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns at most one row
func (c *Connection) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

// ExecContext executes an INSERT, UPDATE, DELETE or DDL statement
func (c *Connection) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a new transaction with context
func (c *Connection) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, opts)
}

// DB returns the underlying *sql.DB
func (c *Connection) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.db.Close()
}
