package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"project_armada/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TableManager maintains the Postgres mirror of the sheet that PostgresRowSource reads
type TableManager struct {
	db *pgxpool.Pool
}

func NewTableManager(db *pgxpool.Pool) *TableManager {
	return &TableManager{db: db}
}

// ColumnsOf returns every column used by rows: known sheet columns first in
// sheet order, then any extra columns sorted by name.
func ColumnsOf(rows []entities.Row) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			seen[col] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for _, col := range entities.Columns {
		if seen[col] {
			columns = append(columns, col)
			delete(seen, col)
		}
	}
	extra := make([]string, 0, len(seen))
	for col := range seen {
		extra = append(extra, col)
	}
	sort.Strings(extra)
	return append(columns, extra...)
}

// ReplaceRows recreates table with one TEXT column per sheet column and copies
// rows into it, all in one transaction. Readers see either the old or the new snapshot.
func (m *TableManager) ReplaceRows(ctx context.Context, table string, rows []entities.Row) (int64, error) {
	if !tableNamePattern.MatchString(table) {
		return 0, fmt.Errorf("invalid table name %q", table)
	}
	columns := ColumnsOf(rows)
	if len(columns) == 0 {
		return 0, fmt.Errorf("no columns to mirror into %s", table)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ident := pgx.Identifier{table}.Sanitize()
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return 0, fmt.Errorf("failed to drop table %s: %w", table, err)
	}

	colDefs := make([]string, len(columns))
	for i, col := range columns {
		colDefs[i] = pgx.Identifier{col}.Sanitize() + " TEXT NOT NULL DEFAULT ''"
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", ident, strings.Join(colDefs, ", "))
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			values := make([]any, len(columns))
			for j, col := range columns {
				values[j] = rows[i].Get(col)
			}
			return values, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return copied, nil
}
