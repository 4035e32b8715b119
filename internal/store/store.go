// Package store is a SQLite-backed source of dashboard data. It mirrors the
// upstream schema so the same queries run locally.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/cashflow90/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store reads and writes the dashboard tables in a local SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fetch implements source.Source.
func (s *Store) Fetch(ctx context.Context, q source.Query) ([]source.Row, error) {
	query, args, err := q.SQL(source.QuestionMark)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", q.Table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []source.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(source.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Insert writes rows into table, replacing rows with the same key. Map and
// slice values are stored as JSON text.
func (s *Store) Insert(ctx context.Context, table string, rows []source.Row) (int, error) {
	if !source.KnownTable(table) || table == source.ViewWorkingCapital {
		return 0, fmt.Errorf("%w: %q", source.ErrUnknownTable, table)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmts := make(map[string]*sql.Stmt)
	defer func() {
		for _, st := range stmts {
			_ = st.Close()
		}
	}()

	for i, row := range rows {
		cols := row.Columns()
		key := strings.Join(cols, ",")
		st, ok := stmts[key]
		if !ok {
			quoted := make([]string, len(cols))
			for j, c := range cols {
				if !validColumn(c) {
					return 0, fmt.Errorf("invalid column %q", c)
				}
				quoted[j] = `"` + c + `"`
			}
			ph := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
			st, err = tx.PrepareContext(ctx, fmt.Sprintf(`INSERT OR REPLACE INTO "%s" (%s) VALUES (%s)`,
				table, strings.Join(quoted, ", "), ph))
			if err != nil {
				return 0, fmt.Errorf("preparing insert into %s: %w", table, err)
			}
			stmts[key] = st
		}

		args := make([]any, len(cols))
		for j, c := range cols {
			v, err := columnValue(row[c])
			if err != nil {
				return 0, fmt.Errorf("row %d column %s: %w", i, c, err)
			}
			args[j] = v
		}
		if _, err := st.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("inserting into %s row %d: %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// InsertAll encodes items and inserts them into table.
func InsertAll[T any](ctx context.Context, s *Store, table string, items []T) (int, error) {
	rows, err := source.EncodeAll(items)
	if err != nil {
		return 0, err
	}
	return s.Insert(ctx, table, rows)
}

// Counts returns the row count of every base table.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	tables := []string{
		source.TableDailyActuals, source.TableBankTransactions, source.TableForecastRuns,
		source.TableDailyForecasts, source.TableAlertEvents, source.TableScenarios,
		source.TableInvoicesAR, source.TableBillsAP, source.TableWorkingCapitalRaw,
	}
	out := make(map[string]int, len(tables))
	for _, t := range tables {
		var n int
		if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, t)).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", t, err)
		}
		out[t] = n
	}
	return out, nil
}

func validColumn(c string) bool {
	if c == "" {
		return false
	}
	for _, r := range c {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

func columnValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	default:
		return v, nil
	}
}
