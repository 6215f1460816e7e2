// Package dialect provides the database dialect abstraction used by the
// Strata schema tooling.
//
// The package defines the interfaces for database-specific operations,
// allowing the schema exporter to target multiple backends.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
// The Driver interface wraps all database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// Opening a database connection:
//
//	import (
//	    "github.com/strataorm/strata/dialect"
//	    "github.com/strataorm/strata/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: database/sql-backed driver implementation
//   - dialect/sql/schema: relational metamodel and DDL export
//   - dialect/sqlschema: SQL-specific schema annotations
package dialect
