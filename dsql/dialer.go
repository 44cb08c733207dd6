package dsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonwraymond/querycache/credential"
	"github.com/jonwraymond/querycache/pool"
)

// Config configures the DSQL dialer.
type Config struct {
	// Endpoint is the cluster endpoint host.
	Endpoint string

	// Port is the PostgreSQL wire port.
	// Default: 5432
	Port int

	// Database is the database name.
	// Default: "postgres"
	Database string

	// User is the database role to connect as.
	// Default: "admin"
	User string

	// ConnectTimeout bounds session establishment.
	// Default: 10 seconds
	ConnectTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 5432
	}
	if c.Database == "" {
		c.Database = "postgres"
	}
	if c.User == "" {
		c.User = "admin"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
}

// Dialer opens authenticated DSQL sessions. The token is presented as the
// connection password; tokens authenticate only at session establishment,
// so a token refresh always means a new session.
type Dialer struct {
	config Config
}

// NewDialer creates a DSQL dialer.
func NewDialer(config Config) (*Dialer, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("dsql: endpoint is required")
	}
	config.applyDefaults()
	return &Dialer{config: config}, nil
}

// Dial opens a session authenticated by token.
func (d *Dialer) Dial(ctx context.Context, token credential.Token) (pool.Conn, error) {
	cfg, err := pgx.ParseConfig(d.dsn())
	if err != nil {
		return nil, fmt.Errorf("dsql: parse config: %w", err)
	}
	cfg.Password = token.Value

	pgconn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("dsql: connect %s: %w", d.config.Endpoint, err)
	}
	return &conn{conn: pgconn}, nil
}

// dsn builds the connection string, without credentials.
func (d *Dialer) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=require connect_timeout=%d",
		d.config.Endpoint,
		d.config.Port,
		d.config.User,
		d.config.Database,
		int(d.config.ConnectTimeout.Seconds()),
	)
}

// Ensure Dialer implements pool.Dialer
var _ pool.Dialer = (*Dialer)(nil)
