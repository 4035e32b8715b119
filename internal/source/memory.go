package source

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Source backed by per-table row slices. Failures
// can be scripted per table. Every executed query is recorded.
type Memory struct {
	mu      sync.Mutex
	tables  map[string][]Row
	errs    map[string]error
	queries []Query
}

// NewMemory returns an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string][]Row),
		errs:   make(map[string]error),
	}
}

// Put appends rows to table.
func (m *Memory) Put(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
}

// PutAll encodes items and appends them to table.
func PutAll[T any](m *Memory, table string, items []T) error {
	rows, err := EncodeAll(items)
	if err != nil {
		return err
	}
	m.Put(table, rows...)
	return nil
}

// Fail makes every query against table return err.
func (m *Memory) Fail(table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[table] = err
}

// Queries returns the queries executed so far.
func (m *Memory) Queries() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.queries...)
}

// QueriedTables returns the table of each executed query, in order.
func (m *Memory) QueriedTables() []string {
	qs := m.Queries()
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Table
	}
	return out
}

func (m *Memory) Fetch(ctx context.Context, q Query) ([]Row, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.queries = append(m.queries, q)
	if err := m.errs[q.Table]; err != nil {
		m.mu.Unlock()
		return nil, err
	}
	var out []Row
	for _, row := range m.tables[q.Table] {
		if matches(row, q.Filters) {
			out = append(out, row)
		}
	}
	m.mu.Unlock()

	if len(q.Orders) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Orders {
				c := compare(out[i][o.Field], out[j][o.Field])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	if q.Max > 0 && len(out) > q.Max {
		out = out[:q.Max]
	}
	return out, nil
}

func matches(row Row, filters []Filter) bool {
	for _, f := range filters {
		v, ok := row[f.Field]
		if !ok || v == nil {
			// SQL comparisons against NULL never match
			return false
		}
		eq := fmt.Sprint(v) == fmt.Sprint(bindValue(f.Value))
		if (f.Op == OpEq) != eq {
			return false
		}
	}
	return true
}

func compare(a, b any) int {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
