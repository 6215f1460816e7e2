package schema

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/strataorm/strata/dialect"
	"github.com/strataorm/strata/schema/field"
)

// dialectFeatures describes the DDL capabilities of a dialect that affect
// foreign-key constraint assembly.
type dialectFeatures struct {
	// addConstraint reports whether ALTER TABLE ... ADD CONSTRAINT is
	// available. SQLite requires constraints to be declared inline in
	// CREATE TABLE.
	addConstraint bool
	// dropKeyword is the clause used to drop a foreign key.
	dropKeyword string
	// ifExistsBeforeName places IF EXISTS before the constraint name.
	ifExistsBeforeName bool
	// ifExistsAfterName places IF EXISTS after the constraint name.
	ifExistsAfterName bool
	// cascadeActions reports whether ON DELETE / ON UPDATE actions
	// are supported.
	cascadeActions bool
	// refColumnsRequired forces the referenced column list even when the
	// constraint references the target primary key.
	refColumnsRequired bool
}

var dialects = map[string]dialectFeatures{
	dialect.Postgres: {
		addConstraint:      true,
		dropKeyword:        "DROP CONSTRAINT",
		ifExistsBeforeName: true,
		cascadeActions:     true,
	},
	dialect.MySQL: {
		addConstraint:      true,
		dropKeyword:        "DROP FOREIGN KEY",
		cascadeActions:     true,
		refColumnsRequired: true,
	},
	dialect.SQLite: {
		cascadeActions:     true,
		refColumnsRequired: true,
	},
}

// features returns the DDL capabilities of the given dialect. Unknown
// dialects get conservative ANSI defaults.
func features(name string) dialectFeatures {
	if f, ok := dialects[name]; ok {
		return f
	}
	return dialectFeatures{
		addConstraint:  true,
		dropKeyword:    "DROP CONSTRAINT",
		cascadeActions: true,
	}
}

// quote returns the identifier quoted for the given dialect.
func quote(dialectName, ident string) string {
	switch dialectName {
	case dialect.Postgres:
		return pq.QuoteIdentifier(ident)
	case dialect.MySQL, dialect.SQLite:
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	default:
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	}
}

// cType returns the column type of the given dialect, honoring per-dialect
// schema-type overrides declared on the column.
func cType(dialectName string, c *Column) (string, error) {
	if c.SchemaType != nil {
		if t, ok := c.SchemaType[dialectName]; ok {
			return t, nil
		}
	}
	switch dialectName {
	case dialect.Postgres:
		return pgType(c)
	case dialect.MySQL:
		return mysqlType(c)
	case dialect.SQLite:
		return sqliteType(c)
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialectName)
	}
}

func pgType(c *Column) (string, error) {
	switch c.Type {
	case field.TypeBool:
		return "boolean", nil
	case field.TypeInt8, field.TypeInt16, field.TypeUint8, field.TypeUint16:
		return "smallint", nil
	case field.TypeInt32, field.TypeUint32:
		return "integer", nil
	case field.TypeInt, field.TypeInt64, field.TypeUint, field.TypeUint64:
		if c.Increment {
			return "bigserial", nil
		}
		return "bigint", nil
	case field.TypeFloat32:
		return "real", nil
	case field.TypeFloat64:
		return "double precision", nil
	case field.TypeString, field.TypeEnum:
		if c.Size > 0 && c.Size < maxCharSize {
			return fmt.Sprintf("varchar(%d)", c.Size), nil
		}
		return "varchar", nil
	case field.TypeTime:
		return "timestamptz", nil
	case field.TypeBytes:
		return "bytea", nil
	case field.TypeJSON:
		return "jsonb", nil
	case field.TypeUUID:
		return "uuid", nil
	default:
		return "", fmt.Errorf("unsupported type %q for column %q", c.Type, c.Name)
	}
}

func mysqlType(c *Column) (string, error) {
	switch c.Type {
	case field.TypeBool:
		return "bool", nil
	case field.TypeInt8:
		return "tinyint", nil
	case field.TypeUint8:
		return "tinyint unsigned", nil
	case field.TypeInt16:
		return "smallint", nil
	case field.TypeUint16:
		return "smallint unsigned", nil
	case field.TypeInt32:
		return "int", nil
	case field.TypeUint32:
		return "int unsigned", nil
	case field.TypeInt, field.TypeInt64:
		return "bigint", nil
	case field.TypeUint, field.TypeUint64:
		return "bigint unsigned", nil
	case field.TypeFloat32:
		return "float", nil
	case field.TypeFloat64:
		return "double", nil
	case field.TypeString:
		size := c.Size
		if size == 0 {
			size = defaultCharSize
		}
		if size < maxCharSize {
			return fmt.Sprintf("varchar(%d)", size), nil
		}
		return "longtext", nil
	case field.TypeEnum:
		values := make([]string, len(c.Enums))
		for i, e := range c.Enums {
			values[i] = fmt.Sprintf("'%s'", e)
		}
		return fmt.Sprintf("enum(%s)", strings.Join(values, ", ")), nil
	case field.TypeTime:
		return "timestamp", nil
	case field.TypeBytes:
		return "blob", nil
	case field.TypeJSON:
		return "json", nil
	case field.TypeUUID:
		return "char(36)", nil
	default:
		return "", fmt.Errorf("unsupported type %q for column %q", c.Type, c.Name)
	}
}

func sqliteType(c *Column) (string, error) {
	switch c.Type {
	case field.TypeBool:
		return "bool", nil
	case field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt, field.TypeInt64,
		field.TypeUint8, field.TypeUint16, field.TypeUint32, field.TypeUint, field.TypeUint64:
		return "integer", nil
	case field.TypeFloat32, field.TypeFloat64:
		return "real", nil
	case field.TypeString, field.TypeEnum:
		return "text", nil
	case field.TypeTime:
		return "datetime", nil
	case field.TypeBytes:
		return "blob", nil
	case field.TypeJSON:
		return "json", nil
	case field.TypeUUID:
		return "uuid", nil
	default:
		return "", fmt.Errorf("unsupported type %q for column %q", c.Type, c.Name)
	}
}

const (
	// defaultCharSize is the default size for mysql varchar columns.
	defaultCharSize = 255
	// maxCharSize is the threshold above which text types are used.
	maxCharSize = 1 << 16
)
