package trials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/trialatlas/backend/pkg/logger"
)

// PostgresSource loads trial records from the trials table.
type PostgresSource struct {
	Pool *pgxpool.Pool
}

// RunMigrations applies pending schema migrations before the first load.
func RunMigrations(databaseURL string, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *PostgresSource) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT nct_id,
		       COALESCE(brief_title, ''),
		       COALESCE(lead_sponsor, ''),
		       COALESCE(collaborators, ''),
		       COALESCE(officials, ''),
		       start_date,
		       COALESCE(phases, ''),
		       COALESCE(conditions, ''),
		       COALESCE(country, ''),
		       COALESCE(overall_status, '')
		FROM trials
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var records []Record
	skipped := 0
	for rows.Next() {
		var rec Record
		var startDate *time.Time
		err := rows.Scan(
			&rec.NCTID,
			&rec.Title,
			&rec.LeadSponsor,
			&rec.Collaborators,
			&rec.Officials,
			&startDate,
			&rec.Phases,
			&rec.Conditions,
			&rec.Country,
			&rec.Status,
		)
		if err != nil {
			skipped++
			continue
		}
		if rec.NCTID == "" {
			skipped++
			continue
		}
		if startDate != nil {
			rec.StartDate = *startDate
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trials: %w", err)
	}

	if skipped > 0 {
		logger.Debug("[Trials] Skipped unreadable trial rows", "count", skipped)
	}

	return records, nil
}
