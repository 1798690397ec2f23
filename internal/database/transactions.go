package database

import (
	"context"
	"fmt"
	"time"

	"country-pulse-go/internal/models"

	"go.uber.org/zap"
)

// ApplyRefresh atomically commits one refresh run: every merged country is
// upserted and the metadata row is recounted inside a single database
// transaction. Any failure rolls the whole run back, leaving prior state
// untouched.
func (s *Service) ApplyRefresh(ctx context.Context, countries []models.Country) (*models.RefreshMetadata, error) {
	refreshedAt := time.Now().UTC()

	zap.L().Info("Applying refresh transaction",
		zap.Int("records", len(countries)),
		zap.Time("refreshed_at", refreshedAt))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, queryUpsertCountry)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, country := range countries {
		country.LastRefreshedAt = refreshedAt
		if _, err := stmt.ExecContext(ctx, upsertArgs(country)...); err != nil {
			return nil, fmt.Errorf("failed to upsert country %q: %w", country.Name, err)
		}
	}

	var count int64
	if err := tx.QueryRowContext(ctx, queryCountCountries).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to recount countries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryUpdateMetadata, count, refreshedAt); err != nil {
		return nil, fmt.Errorf("failed to update refresh metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Refresh transaction committed",
		zap.Int("upserted", len(countries)),
		zap.Int64("total_countries", count))

	return &models.RefreshMetadata{
		TotalCountries:  count,
		LastRefreshedAt: refreshedAt,
	}, nil
}
