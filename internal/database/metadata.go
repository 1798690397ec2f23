package database

import (
	"context"
	"database/sql"
	"fmt"

	"country-pulse-go/internal/models"

	"go.uber.org/zap"
)

// GetMetadata returns the singleton refresh bookkeeping record. The row is
// seeded at schema init, so a missing row is a genuine store failure.
func (s *Service) GetMetadata(ctx context.Context) (*models.RefreshMetadata, error) {
	var metadata models.RefreshMetadata
	var refreshedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, queryGetMetadata).Scan(&metadata.TotalCountries, &refreshedAt)
	if err != nil {
		zap.L().Error("Failed to query refresh metadata", zap.Error(err))
		return nil, fmt.Errorf("unable to query refresh metadata: %w", err)
	}

	if refreshedAt.Valid {
		metadata.LastRefreshedAt = refreshedAt.Time.UTC()
	}
	return &metadata, nil
}
