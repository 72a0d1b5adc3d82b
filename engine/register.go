package engine

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/marcboeker/go-duckdb"

	"github.com/spektr-org/asksql/dataset"
)

// register creates the table and bulk-loads every row of view through the
// DuckDB appender. Values are copied; the view is only read.
func register(ctx context.Context, conn *sqlx.Conn, table string, view dataset.View) error {
	cols := view.Columns()
	if len(cols) == 0 {
		return fmt.Errorf("dataset has no columns")
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c.Name) + " " + c.Type.SQLType()
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	return conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}

		appender, err := duckdb.NewAppenderFromConn(dc, "", table)
		if err != nil {
			return fmt.Errorf("create appender: %w", err)
		}

		row := make([]driver.Value, len(cols))
		for i := 0; i < view.Len(); i++ {
			for j := range cols {
				row[j] = view.Value(i, j)
			}
			if err := appender.AppendRow(row...); err != nil {
				_ = appender.Close()
				return fmt.Errorf("append row %d: %w", i, err)
			}
		}

		// Close flushes the buffered rows.
		if err := appender.Close(); err != nil {
			return fmt.Errorf("flush appender: %w", err)
		}
		return nil
	})
}

// sandbox forbids file, network and extension access for the rest of the
// connection's life and freezes the configuration so a query cannot undo it.
func sandbox(ctx context.Context, conn *sqlx.Conn) error {
	for _, stmt := range []string{
		"SET enable_external_access = false",
		"SET lock_configuration = true",
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
