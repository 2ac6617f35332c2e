package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is a WHERE fragment written with ? markers. Markers are
// renumbered to postgres positional placeholders when the statement is
// rendered, so fragments compose without knowing their final position.
type Condition struct {
	sql  string
	args []any
}

func Eq(column string, value any) Condition {
	return Condition{sql: column + " = ?", args: []any{value}}
}

func In(column string, values []any) Condition {
	if len(values) == 0 {
		// Matches nothing rather than producing invalid SQL.
		return Condition{sql: "1=0"}
	}

	markers := make([]string, len(values))
	for i := range markers {
		markers[i] = "?"
	}
	return Condition{
		sql:  column + " IN (" + strings.Join(markers, ", ") + ")",
		args: append([]any(nil), values...),
	}
}

func IsNull(column string) Condition {
	return Condition{sql: column + " IS NULL"}
}

// Expr wraps a raw SQL fragment with ? markers for its arguments.
func Expr(expr string, args ...any) Condition {
	return Condition{sql: expr, args: append([]any(nil), args...)}
}

// statement accumulates SQL text with ? markers plus the matching argument
// list. render numbers the markers left to right; markers beyond the
// argument count pass through untouched, which keeps literal ? characters
// in arg-free suffixes intact.
type statement struct {
	buf  strings.Builder
	args []any
}

func (s *statement) text(sql string) {
	s.buf.WriteString(sql)
}

func (s *statement) marker(value any) {
	s.buf.WriteByte('?')
	s.args = append(s.args, value)
}

func (s *statement) condition(c Condition) {
	s.buf.WriteString(c.sql)
	s.args = append(s.args, c.args...)
}

func (s *statement) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			s.text(" WHERE ")
		} else {
			s.text(" AND ")
		}
		s.condition(c)
	}
}

func (s *statement) render() (string, []any) {
	raw := s.buf.String()
	if len(s.args) == 0 {
		return raw, s.args
	}

	var out strings.Builder
	out.Grow(len(raw) + 2*len(s.args))
	position := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '?' || position >= len(s.args) {
			out.WriteByte(raw[i])
			continue
		}
		position++
		out.WriteByte('$')
		out.WriteString(strconv.Itoa(position))
	}
	return out.String(), s.args
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var stmt statement
	stmt.text("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	stmt.where(b.where)
	if len(b.orderBy) > 0 {
		stmt.text(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		stmt.text(" LIMIT " + strconv.Itoa(b.limit))
	}

	query, args := stmt.render()
	return query, args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends trailing SQL such as an ON CONFLICT clause or RETURNING
// list.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var stmt statement
	stmt.text("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			stmt.text(", ")
		}
		stmt.text("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				stmt.text(", ")
			}
			stmt.marker(value)
		}
		stmt.text(")")
	}
	if b.suffix != "" {
		stmt.text(" " + b.suffix)
	}

	query, args := stmt.render()
	return query, args, nil
}

type UpdateBuilder struct {
	table  string
	sets   []Condition
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, Condition{sql: column + " = ?", args: []any{value}})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, Condition{
		sql:  column + " = " + expr,
		args: append([]any(nil), args...),
	})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var stmt statement
	stmt.text("UPDATE " + b.table + " SET ")
	for i, set := range b.sets {
		if i > 0 {
			stmt.text(", ")
		}
		stmt.condition(set)
	}
	stmt.where(b.where)
	if b.suffix != "" {
		stmt.text(" " + b.suffix)
	}

	query, args := stmt.render()
	return query, args, nil
}
