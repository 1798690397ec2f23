/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"errors"
	"fmt"

	"country-pulse-go/internal/models"
	"country-pulse-go/internal/store"

	"go.uber.org/zap"
)

// ListCountries returns all countries matching the filter, mapped to their
// wire shape. An unknown sort key silently falls back to the store default.
func (s *CountryService) ListCountries(ctx context.Context, filter store.ListFilter) ([]models.CountryResponse, error) {
	countries, err := s.store.ListFiltered(ctx, filter)
	if err != nil {
		zap.L().Error("Failed to list countries",
			zap.String("region", filter.Region),
			zap.String("currency", filter.Currency),
			zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve countries")
	}

	result := make([]models.CountryResponse, len(countries))
	for i, country := range countries {
		result[i] = models.NewCountryResponse(country)
	}
	return result, nil
}

// GetCountry looks a country up by name, case-insensitively. A miss is
// store.ErrNotFound, a normal outcome rather than an internal error.
func (s *CountryService) GetCountry(ctx context.Context, name string) (*models.CountryResponse, error) {
	if name == "" {
		return nil, store.ErrNotFound
	}

	country, err := s.store.FindByNameCaseInsensitive(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		zap.L().Error("Failed to get country", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve country")
	}

	response := models.NewCountryResponse(*country)
	return &response, nil
}

// DeleteCountry removes a country by name, case-insensitively. The store
// recounts the metadata total in the same transaction.
func (s *CountryService) DeleteCountry(ctx context.Context, name string) error {
	if name == "" {
		return store.ErrNotFound
	}

	affected, err := s.store.DeleteByNameCaseInsensitive(ctx, name)
	if err != nil {
		zap.L().Error("Failed to delete country", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to delete country")
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Status reports the cached refresh bookkeeping record.
func (s *CountryService) Status(ctx context.Context) (*models.StatusResponse, error) {
	metadata, err := s.store.GetMetadata(ctx)
	if err != nil {
		zap.L().Error("Failed to get refresh metadata", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve status")
	}

	status := &models.StatusResponse{
		TotalCountries: metadata.TotalCountries,
	}
	if !metadata.LastRefreshedAt.IsZero() {
		refreshedAt := metadata.LastRefreshedAt.UTC()
		status.LastRefreshedAt = &refreshedAt
	}
	return status, nil
}
