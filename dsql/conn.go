package dsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonwraymond/querycache/pool"
)

// ResultSet is the serialized form of one query execution.
type ResultSet struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	RowCount int        `json:"row_count"`
}

// conn wraps one pgx session as a pool.Conn.
type conn struct {
	conn *pgx.Conn
}

// Query executes the literal query string, drains the result set, and
// returns it serialized as a ResultSet along with the measured elapsed
// wall time of the round trip.
func (c *conn) Query(ctx context.Context, query string) ([]byte, time.Duration, error) {
	start := time.Now()
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, time.Since(start), fmt.Errorf("dsql: query: %w", err)
	}
	defer rows.Close()

	var columns []string
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}

	var out [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, time.Since(start), fmt.Errorf("dsql: read row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = stringify(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Since(start), fmt.Errorf("dsql: drain rows: %w", err)
	}
	elapsed := time.Since(start)

	payload, err := json.Marshal(ResultSet{
		Columns:  columns,
		Rows:     out,
		RowCount: len(out),
	})
	if err != nil {
		return nil, elapsed, fmt.Errorf("dsql: encode result: %w", err)
	}
	return payload, elapsed, nil
}

// Ping verifies the session is alive.
func (c *conn) Ping(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return fmt.Errorf("dsql: ping: %w", err)
	}
	return nil
}

// Close ends the session.
func (c *conn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// stringify renders a column value. Drivers hand back heterogeneous Go
// types; string form keeps the cached payload stable and serializable,
// matching what a cache hit replays.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}

// Ensure conn implements pool.Conn
var _ pool.Conn = (*conn)(nil)
