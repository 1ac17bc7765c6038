// Package querybuilder renders postgres statements with numbered placeholders.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type part struct {
	name  string
	empty bool
}

func need(name string, empty bool) part { return part{name: name, empty: empty} }

// missing reports the first empty required part of a statement.
func missing(stmt string, parts ...part) error {
	for _, p := range parts {
		if p.empty {
			return fmt.Errorf("querybuilder: %s needs %s", stmt, p.name)
		}
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// SelectQuery is a SELECT statement under construction.
type SelectQuery struct {
	columns []string
	table   string
	joins   []string
	where   []Condition
	order   []string
	limit   int
	tail    string
}

func Select(columns ...string) *SelectQuery {
	return &SelectQuery{columns: append([]string(nil), columns...)}
}

func (q *SelectQuery) From(table string) *SelectQuery {
	q.table = table
	return q
}

// Join appends a raw join clause, e.g. "JOIN players p ON p.player_id = s.player_id".
func (q *SelectQuery) Join(clause string) *SelectQuery {
	q.joins = append(q.joins, strings.TrimSpace(clause))
	return q
}

func (q *SelectQuery) Where(conditions ...Condition) *SelectQuery {
	q.where = append(q.where, conditions...)
	return q
}

func (q *SelectQuery) OrderBy(terms ...string) *SelectQuery {
	q.order = append(q.order, terms...)
	return q
}

func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.limit = n
	return q
}

// Suffix is appended after LIMIT, e.g. "FOR UPDATE OF s".
func (q *SelectQuery) Suffix(sql string) *SelectQuery {
	q.tail = strings.TrimSpace(sql)
	return q
}

func (q *SelectQuery) Build() (string, []any, error) {
	if err := missing("select", need("columns", len(q.columns) == 0), need("a table", blank(q.table))); err != nil {
		return "", nil, err
	}

	w := &writer{}
	w.WriteString("SELECT ")
	w.WriteString(strings.Join(q.columns, ", "))
	w.WriteString(" FROM ")
	w.WriteString(q.table)
	for _, clause := range q.joins {
		w.WriteString(" ")
		w.WriteString(clause)
	}
	w.where(q.where)
	if len(q.order) > 0 {
		w.WriteString(" ORDER BY ")
		w.WriteString(strings.Join(q.order, ", "))
	}
	if q.limit > 0 {
		w.WriteString(" LIMIT ")
		w.WriteString(strconv.Itoa(q.limit))
	}
	w.tail(q.tail)
	return w.String(), w.args, nil
}

// InsertQuery is a possibly multi-row INSERT statement.
type InsertQuery struct {
	table   string
	columns []string
	rows    [][]any
	tail    string
}

func InsertInto(table string) *InsertQuery {
	return &InsertQuery{table: table}
}

func (q *InsertQuery) Columns(columns ...string) *InsertQuery {
	q.columns = append([]string(nil), columns...)
	return q
}

// Values adds one row; call it once per row for a multi-row insert.
func (q *InsertQuery) Values(values ...any) *InsertQuery {
	q.rows = append(q.rows, append([]any(nil), values...))
	return q
}

// Suffix follows VALUES, e.g. "ON CONFLICT (team_id, player_id, game_date) DO NOTHING".
func (q *InsertQuery) Suffix(sql string) *InsertQuery {
	q.tail = strings.TrimSpace(sql)
	return q
}

var errRowWidth = errors.New("querybuilder: insert row width differs from columns")

func (q *InsertQuery) Build() (string, []any, error) {
	err := missing("insert",
		need("a table", blank(q.table)),
		need("columns", len(q.columns) == 0),
		need("values", len(q.rows) == 0),
	)
	if err != nil {
		return "", nil, err
	}

	w := &writer{args: make([]any, 0, len(q.rows)*len(q.columns))}
	w.WriteString("INSERT INTO ")
	w.WriteString(q.table)
	w.WriteString(" (")
	w.WriteString(strings.Join(q.columns, ", "))
	w.WriteString(") VALUES ")
	for i, row := range q.rows {
		if len(row) != len(q.columns) {
			return "", nil, fmt.Errorf("%w: row %d has %d values for %d columns", errRowWidth, i, len(row), len(q.columns))
		}
		w.sep(i, ", ")
		w.WriteByte('(')
		for j, value := range row {
			w.sep(j, ", ")
			w.bind(value, "")
		}
		w.WriteByte(')')
	}
	w.tail(q.tail)
	return w.String(), w.args, nil
}

type assignment struct {
	column string
	value  any
}

// UpdateQuery is an UPDATE statement with bound SET values.
type UpdateQuery struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateQuery {
	return &UpdateQuery{table: table}
}

func (q *UpdateQuery) Set(column string, value any) *UpdateQuery {
	q.sets = append(q.sets, assignment{column: column, value: value})
	return q
}

func (q *UpdateQuery) Where(conditions ...Condition) *UpdateQuery {
	q.where = append(q.where, conditions...)
	return q
}

func (q *UpdateQuery) Build() (string, []any, error) {
	if err := missing("update", need("a table", blank(q.table)), need("assignments", len(q.sets) == 0)); err != nil {
		return "", nil, err
	}

	w := &writer{}
	w.WriteString("UPDATE ")
	w.WriteString(q.table)
	w.WriteString(" SET ")
	for i, set := range q.sets {
		w.sep(i, ", ")
		w.WriteString(set.column)
		w.WriteString(" = ")
		w.bind(set.value, "")
	}
	w.where(q.where)
	return w.String(), w.args, nil
}

func placeholder(i int) string {
	return "$" + strconv.Itoa(i)
}
