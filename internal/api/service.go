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
	"fmt"

	"country-pulse-go/internal/store"
)

// CountryService provides the stateless query surface over the record store.
type CountryService struct {
	store store.CountryStore
}

func NewCountryService(countryStore store.CountryStore) *CountryService {
	return &CountryService{
		store: countryStore,
	}
}

func (s *CountryService) HealthCheck(ctx context.Context) error {
	_, err := s.store.CountCountries(ctx)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
