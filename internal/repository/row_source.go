package repository

import (
	"context"

	"project_armada/internal/config"
	"project_armada/internal/entities"
	"project_armada/internal/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRowSource builds the row source selected by cfg. db is only needed for the
// postgres source. A source lacking settings yields a CONFIGURATION_MISSING error.
func NewRowSource(ctx context.Context, cfg *config.Config, db *pgxpool.Pool) (interfaces.RowSource, error) {
	if missing := cfg.MissingRowSettings(); len(missing) > 0 {
		return nil, entities.ErrConfigurationMissing(missing[0])
	}

	switch cfg.RowSource {
	case config.RowSourceCSV:
		return NewCSVRowSource(cfg.CSVPath), nil
	case config.RowSourcePostgres:
		if db == nil {
			return nil, entities.ErrConfigurationMissing("DATABASE_URL")
		}
		src, err := NewPostgresRowSource(db, cfg.PGTable)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		src, err := NewSheetsRowSource(ctx, cfg.SheetURL, cfg.SheetName, cfg.GoogleCredentials)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}
