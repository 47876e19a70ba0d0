// Package ch provides a clickhouse client over clickhouse-go
package ch

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL  string
	Role string
	Tag  string
}

// Rows is the minimal result set iteration for ch
// driver.Rows satisfies it directly
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a clickhouse native connection
type CH struct {
	conn driver.Conn
}

// Open parses the DSN and opens a lazy connection pool
// connectivity is verified by Ping, not here
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &CH{conn: conn}, nil
}

// Insert appends data into table via a prepared batch
// data may be [][]any (positional rows), a struct, or a pointer to struct
func (c *CH) Insert(ctx context.Context, table string, data any) error {
	if c == nil || c.conn == nil {
		return errors.New("ch: nil client")
	}
	if err := checkInsertShape(data); err != nil {
		return err
	}

	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare batch: %w", err)
	}

	switch v := data.(type) {
	case [][]any:
		for _, row := range v {
			if err := batch.Append(row...); err != nil {
				return fmt.Errorf("ch: append: %w", err)
			}
		}
	default:
		if err := batch.AppendStruct(data); err != nil {
			return fmt.Errorf("ch: append struct: %w", err)
		}
	}
	return batch.Send()
}

// checkInsertShape rejects unsupported payloads before any network work
func checkInsertShape(data any) error {
	if _, ok := data.([][]any); ok {
		return nil
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		return nil
	}
	return fmt.Errorf("ch: unsupported insert shape %T (want [][]any or struct)", data)
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c == nil || c.conn == nil {
		return nil, errors.New("ch: nil client")
	}
	return c.conn.Query(ctx, sql, args...)
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return errors.New("ch: nil client")
	}
	return c.conn.Ping(ctx)
}

// Close closes the connection pool
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
