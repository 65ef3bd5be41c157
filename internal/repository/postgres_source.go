package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"project_armada/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// PostgresRowSource reads a mirror of the sheet kept in a Postgres table
type PostgresRowSource struct {
	db    *pgxpool.Pool
	table string
}

func NewPostgresRowSource(db *pgxpool.Pool, table string) (*PostgresRowSource, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresRowSource{db: db, table: table}, nil
}

// FetchAllRows returns every row with column names as keys and NULL as ""
func (r *PostgresRowSource) FetchAllRows(ctx context.Context) ([]entities.Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{r.table}.Sanitize())
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, entities.NewError(entities.KindDataSource, "query "+r.table, err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	results := []entities.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, entities.NewError(entities.KindDataSource, "scan "+r.table, err)
		}
		row := make(entities.Row, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[fd.Name] = cellString(values[i])
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, entities.NewError(entities.KindDataSource, "query "+r.table, err)
	}
	return results, nil
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format("02/01/2006")
	default:
		return fmt.Sprint(t)
	}
}
