package querybuilder

import "strings"

// Condition renders one WHERE predicate with numbered postgres placeholders.
type Condition interface {
	appendSQL(w *writer)
}

type compare struct {
	column string
	op     string
	value  any
	cast   string
}

func (c compare) appendSQL(w *writer) {
	w.WriteString(c.column)
	w.WriteString(" " + c.op + " ")
	w.bind(c.value, c.cast)
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return compare{column: column, op: ">=", value: value}
}

func Lt(column string, value any) Condition {
	return compare{column: column, op: "<", value: value}
}

// OnDate matches a DATE column against a YYYY-MM-DD string.
func OnDate(column, day string) Condition {
	return compare{column: column, op: "=", value: day, cast: "date"}
}

func DateGte(column, day string) Condition {
	return compare{column: column, op: ">=", value: day, cast: "date"}
}

func DateLte(column, day string) Condition {
	return compare{column: column, op: "<=", value: day, cast: "date"}
}

type between struct {
	column   string
	from, to any
	cast     string
}

func (c between) appendSQL(w *writer) {
	w.WriteString(c.column)
	w.WriteString(" BETWEEN ")
	w.bind(c.from, c.cast)
	w.WriteString(" AND ")
	w.bind(c.to, c.cast)
}

// DateWithin matches an inclusive [from, to] range of YYYY-MM-DD strings.
func DateWithin(column, from, to string) Condition {
	return between{column: column, from: from, to: to, cast: "date"}
}

type expr struct {
	sql  string
	args []any
}

func (e expr) appendSQL(w *writer) {
	w.WriteString(w.rewrite(e.sql, e.args))
}

// Expr is raw SQL with ? markers bound to args in order.
func Expr(sql string, args ...any) Condition {
	return expr{sql: sql, args: args}
}

// writer accumulates SQL text and the positional args behind its placeholders.
type writer struct {
	strings.Builder
	args []any
}

func (w *writer) bind(value any, cast string) {
	w.args = append(w.args, value)
	w.WriteString(placeholder(len(w.args)))
	if cast != "" {
		w.WriteString("::" + cast)
	}
}

func (w *writer) rewrite(sql string, args []any) string {
	if len(args) == 0 {
		return sql
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' || next >= len(args) {
			out.WriteByte(sql[i])
			continue
		}
		w.args = append(w.args, args[next])
		out.WriteString(placeholder(len(w.args)))
		next++
	}
	return out.String()
}

func (w *writer) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		c.appendSQL(w)
	}
}

// sep writes s before every item but the first.
func (w *writer) sep(i int, s string) {
	if i > 0 {
		w.WriteString(s)
	}
}

func (w *writer) tail(sql string) {
	if sql != "" {
		w.WriteByte(' ')
		w.WriteString(sql)
	}
}
