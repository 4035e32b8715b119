package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/cashflow90/internal/model"
)

// Op is a filter comparison.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
)

// Filter restricts rows to those where Field compares to Value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Order sorts rows by Field.
type Order struct {
	Field string
	Desc  bool
}

// Query is a single-table read: equality filters, ordering, an optional
// row limit, and whether at most one row is expected.
type Query struct {
	Table   string
	Filters []Filter
	Orders  []Order
	Max     int
	Single  bool
}

// From starts a query against table.
func From(table string) Query {
	return Query{Table: table}
}

// Eq adds an equality filter.
func (q Query) Eq(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: OpEq, Value: value})
	return q
}

// Neq adds an inequality filter.
func (q Query) Neq(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: OpNeq, Value: value})
	return q
}

// Asc orders ascending by field.
func (q Query) Asc(field string) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Field: field})
	return q
}

// Desc orders descending by field.
func (q Query) Desc(field string) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Field: field, Desc: true})
	return q
}

// Limit caps the number of rows returned.
func (q Query) Limit(n int) Query {
	q.Max = n
	return q
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks the table against the schema and every column name
// against the identifier grammar.
func (q Query) Validate() error {
	if !KnownTable(q.Table) {
		return fmt.Errorf("%w: %q", ErrUnknownTable, q.Table)
	}
	for _, f := range q.Filters {
		if !identRe.MatchString(f.Field) {
			return fmt.Errorf("source: invalid filter column %q", f.Field)
		}
		if f.Op != OpEq && f.Op != OpNeq {
			return fmt.Errorf("source: unsupported operator %q", f.Op)
		}
	}
	for _, o := range q.Orders {
		if !identRe.MatchString(o.Field) {
			return fmt.Errorf("source: invalid order column %q", o.Field)
		}
	}
	if q.Max < 0 {
		return fmt.Errorf("source: negative limit %d", q.Max)
	}
	return nil
}

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// QuestionMark is the SQLite placeholder style.
func QuestionMark(int) string { return "?" }

// Dollar is the Postgres placeholder style.
func Dollar(n int) string { return "$" + strconv.Itoa(n) }

// SQL renders q as a SELECT statement with bound arguments. Dates and
// timestamps are bound in their text form.
func (q Query) SQL(ph Placeholder) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(quoteIdent(q.Table))

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		op := "="
		if f.Op == OpNeq {
			op = "<>"
		}
		args = append(args, bindValue(f.Value))
		fmt.Fprintf(&b, "%s %s %s", quoteIdent(f.Field), op, ph(len(args)))
	}

	for i, o := range q.Orders {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(o.Field))
		if o.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	limit := q.Max
	if q.Single && (limit == 0 || limit > 2) {
		// two rows are enough to detect an ambiguous single-row query
		limit = 2
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	return b.String(), args, nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func bindValue(v any) any {
	switch t := v.(type) {
	case model.Date:
		return t.String()
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
