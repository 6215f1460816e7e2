package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures diff validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn     bool
	allowDropTable      bool
	allowDropIndex      bool
	allowDropConstraint bool
	allowNullToNotNull  bool
}

// AllowDropColumn allows dropping columns without error.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable allows dropping tables without error.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowDropIndex allows dropping indexes without error.
func AllowDropIndex() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropIndex = true
	}
}

// AllowDropConstraint allows dropping foreign-key constraints without error.
func AllowDropConstraint() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropConstraint = true
	}
}

// AllowNullToNotNull allows changing nullable columns to not null.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

// ValidateDiff validates the difference between the current and the
// desired schema. Breaking changes are reported as errors unless an
// option downgrades them to warnings, potentially dangerous operations
// are reported as warnings.
//
// Example:
//
//	result := schema.ValidateDiff(current, desired)
//	if result.HasBreakingChanges() {
//	    log.Fatal("breaking changes detected:", result)
//	}
func ValidateDiff(current, desired []*Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	result := &ValidationResult{}
	currentMap := make(map[string]*Table, len(current))
	for _, t := range current {
		currentMap[t.Name] = t
	}
	desiredMap := make(map[string]*Table, len(desired))
	for _, t := range desired {
		desiredMap[t.Name] = t
	}

	for _, t := range current {
		if _, ok := desiredMap[t.Name]; !ok {
			err := &ValidationError{
				Table:    t.Name,
				Message:  "table will be dropped",
				Breaking: true,
			}
			if cfg.allowDropTable {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
		}
	}

	for _, t := range desired {
		curr, exists := currentMap[t.Name]
		if !exists {
			// New table, nothing to diff against.
			continue
		}
		validateTableDiff(curr, t, cfg, result)
	}

	return result
}

func validateTableDiff(current, desired *Table, cfg *validateConfig, result *ValidationResult) {
	currentCols := make(map[string]*Column, len(current.Columns))
	for _, c := range current.Columns {
		currentCols[c.Name] = c
	}

	for _, c := range current.Columns {
		if desired.HasColumn(c.Name) {
			continue
		}
		err := &ValidationError{
			Table:    current.Name,
			Column:   c.Name,
			Message:  "column will be dropped",
			Breaking: true,
		}
		if cfg.allowDropColumn {
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Errors = append(result.Errors, err)
		}
	}

	for _, desiredCol := range desired.Columns {
		currentCol, exists := currentCols[desiredCol.Name]
		if !exists {
			if !desiredCol.Nullable && desiredCol.Default == nil {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   current.Name,
					Column:  desiredCol.Name,
					Message: "new NOT NULL column without default value may fail if table has data",
				})
			}
			continue
		}
		if currentCol.Type != desiredCol.Type {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column type changing from %v to %v", currentCol.Type, desiredCol.Type),
			})
		}
		if currentCol.Nullable && !desiredCol.Nullable {
			err := &ValidationError{
				Table:    current.Name,
				Column:   desiredCol.Name,
				Message:  "column changing from NULL to NOT NULL may fail if column has NULL values",
				Breaking: true,
			}
			if cfg.allowNullToNotNull {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
		}
		if currentCol.Size > 0 && desiredCol.Size > 0 && desiredCol.Size < currentCol.Size {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column size reducing from %d to %d may truncate data", currentCol.Size, desiredCol.Size),
			})
		}
		if !currentCol.Unique && desiredCol.Unique {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: "adding UNIQUE constraint may fail if duplicate values exist",
			})
		}
	}

	desiredIdxs := make(map[string]*Index, len(desired.Indexes))
	for _, idx := range desired.Indexes {
		desiredIdxs[idx.Name] = idx
	}
	for _, idx := range current.Indexes {
		if _, ok := desiredIdxs[idx.Name]; ok {
			continue
		}
		err := &ValidationError{
			Table:   current.Name,
			Message: fmt.Sprintf("index %q will be dropped", idx.Name),
		}
		if cfg.allowDropIndex {
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Errors = append(result.Errors, err)
		}
	}

	currentFKs := make(map[string]*ForeignKey, len(current.ForeignKeys))
	for _, fk := range current.ForeignKeys {
		currentFKs[fk.Symbol] = fk
	}
	desiredFKs := make(map[string]*ForeignKey, len(desired.ForeignKeys))
	for _, fk := range desired.ForeignKeys {
		desiredFKs[fk.Symbol] = fk
	}
	for _, fk := range current.ForeignKeys {
		if _, ok := desiredFKs[fk.Symbol]; ok {
			continue
		}
		err := &ValidationError{
			Table:    current.Name,
			Message:  fmt.Sprintf("foreign key %q will be dropped", fk.Symbol),
			Breaking: true,
		}
		if cfg.allowDropConstraint {
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Errors = append(result.Errors, err)
		}
	}
	for _, fk := range desired.ForeignKeys {
		if _, ok := currentFKs[fk.Symbol]; ok {
			continue
		}
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   current.Name,
			Message: fmt.Sprintf("adding foreign key %q may fail if existing rows violate it", fk.Symbol),
		})
	}
}

// ValidateTable validates a single table definition.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}

	if len(t.PrimaryColumns()) == 0 {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}

	colNames := make(map[string]bool)
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true
	}

	idxNames := make(map[string]bool)
	for _, idx := range t.Indexes {
		if idxNames[idx.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("duplicate index name: %s", idx.Name),
			})
		}
		idxNames[idx.Name] = true
		for _, col := range idx.ColumnNames() {
			if !colNames[col] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("index %q references non-existent column %q", idx.Name, col),
				})
			}
		}
	}

	for _, fk := range t.ForeignKeys {
		validateForeignKey(t, fk, colNames, result)
	}

	return result
}

// validateForeignKey checks a single constraint: source columns must exist
// in the owning table, explicit target columns must exist in the target
// table, and the resolved source and target column lists must be equal in
// length.
func validateForeignKey(t *Table, fk *ForeignKey, colNames map[string]bool, result *ValidationResult) {
	for _, col := range fk.Columns {
		if !colNames[col.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("foreign key %q references non-existent column %q", fk.Symbol, col.Name),
			})
		}
	}
	if fk.RefTable == nil {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.Name,
			Message: fmt.Sprintf("foreign key %q has no target table", fk.Symbol),
		})
		return
	}
	for _, col := range fk.RefColumns {
		if !fk.RefTable.HasColumn(col.Name) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("foreign key %q target column %q is not in target table %q", fk.Symbol, col.Name, fk.RefTable.Name),
			})
		}
	}
	if refs := fk.ReferencedColumns(); len(refs) != len(fk.Columns) {
		result.Errors = append(result.Errors, &ValidationError{
			Table:    t.Name,
			Message:  fmt.Sprintf("foreign key %q has %d columns but references %d columns", fk.Symbol, len(fk.Columns), len(refs)),
			Breaking: true,
		})
	}
}

// ValidateSchema validates all tables in a schema, including cross-table
// foreign-key references.
func ValidateSchema(tables []*Table) *ValidationResult {
	result := &ValidationResult{}

	tableNames := make(map[string]bool)
	for _, t := range tables {
		if tableNames[t.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}
		tableNames[t.Name] = true

		tableResult := ValidateTable(t)
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)
	}

	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable != nil && !tableNames[fk.RefTable.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key %q references non-existent table %q", fk.Symbol, fk.RefTable.Name),
				})
			}
		}
	}

	return result
}
