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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"country-pulse-go/internal/models"
	"country-pulse-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// sortClauses maps the accepted sort keys to their ORDER BY clause.
// Unknown keys fall back to the store default (name ascending).
var sortClauses = map[string]string{
	store.SortGdpDesc:        "estimated_gdp DESC NULLS LAST, name ASC",
	store.SortGdpAsc:         "estimated_gdp ASC NULLS LAST, name ASC",
	store.SortPopulationDesc: "population DESC, name ASC",
	store.SortPopulationAsc:  "population ASC, name ASC",
	store.SortNameAsc:        "name ASC",
	store.SortNameDesc:       "name DESC",
}

// UpsertCountry inserts or updates one country keyed by its exact name,
// refreshing last_refreshed_at.
func (s *Service) UpsertCountry(ctx context.Context, country models.Country) error {
	country.LastRefreshedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, queryUpsertCountry, upsertArgs(country)...)
	if err != nil {
		zap.L().Error("Failed to upsert country", zap.String("name", country.Name), zap.Error(err))
		return fmt.Errorf("unable to upsert country: %w", err)
	}
	return nil
}

func (s *Service) CountCountries(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, queryCountCountries).Scan(&count); err != nil {
		zap.L().Error("Failed to count countries", zap.Error(err))
		return 0, fmt.Errorf("unable to count countries: %w", err)
	}
	return count, nil
}

func (s *Service) FindByNameCaseInsensitive(ctx context.Context, name string) (*models.Country, error) {
	zap.L().Debug("Querying country by name", zap.String("name", name))

	row := s.db.QueryRowContext(ctx, queryGetCountryByName, name)
	country, err := scanCountry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		zap.L().Error("Failed to query country by name", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("unable to query country by name: %w", err)
	}

	return country, nil
}

// DeleteByNameCaseInsensitive removes a country and recounts the metadata
// total in the same transaction. Returns the number of rows deleted; a miss
// is 0 rows, not an error.
func (s *Service) DeleteByNameCaseInsensitive(ctx context.Context, name string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queryDeleteCountryByName, name)
	if err != nil {
		zap.L().Error("Failed to delete country", zap.String("name", name), zap.Error(err))
		return 0, fmt.Errorf("unable to delete country: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if affected == 0 {
		// Nothing deleted, metadata stays untouched.
		return 0, nil
	}

	var count int64
	if err := tx.QueryRowContext(ctx, queryCountCountries).Scan(&count); err != nil {
		return 0, fmt.Errorf("unable to recount countries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryUpdateMetadataCount, count); err != nil {
		return 0, fmt.Errorf("unable to update metadata count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Country deleted",
		zap.String("name", name),
		zap.Int64("affected", affected),
		zap.Int64("remaining", count))
	return affected, nil
}

func (s *Service) ListFiltered(ctx context.Context, filter store.ListFilter) ([]models.Country, error) {
	query := querySelectCountryColumns
	var clauses []string
	var args []interface{}

	if filter.Region != "" {
		clauses = append(clauses, "region = ?")
		args = append(args, filter.Region)
	}
	if filter.Currency != "" {
		clauses = append(clauses, "currency_code = ?")
		args = append(args, filter.Currency)
	}
	if len(clauses) > 0 {
		query += "\n\t\tWHERE " + strings.Join(clauses, " AND ")
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = "name ASC"
	}
	query += "\n\t\tORDER BY " + orderBy

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to list countries", zap.Error(err))
		return nil, fmt.Errorf("unable to list countries: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	return collectCountries(rows)
}

// TopByGdpDescending returns the n highest-GDP countries, null GDP sorted last.
func (s *Service) TopByGdpDescending(ctx context.Context, n int) ([]models.Country, error) {
	rows, err := s.db.QueryContext(ctx, queryTopCountriesByGdp, n)
	if err != nil {
		zap.L().Error("Failed to query top countries by GDP", zap.Error(err))
		return nil, fmt.Errorf("unable to query top countries: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	return collectCountries(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCountry(row rowScanner) (*models.Country, error) {
	var country models.Country
	var capital, region, currencyCode, flagUrl sql.NullString
	var exchangeRate, estimatedGdp sql.NullString

	err := row.Scan(&country.Name, &capital, &region, &country.Population,
		&currencyCode, &exchangeRate, &estimatedGdp, &flagUrl, &country.LastRefreshedAt)
	if err != nil {
		return nil, err
	}

	country.Capital = capital.String
	country.Region = region.String
	country.CurrencyCode = currencyCode.String
	country.FlagUrl = flagUrl.String

	if country.ExchangeRate, err = parseNullDecimal(exchangeRate); err != nil {
		return nil, fmt.Errorf("failed to parse exchange rate: %w", err)
	}
	if country.EstimatedGdp, err = parseNullDecimal(estimatedGdp); err != nil {
		return nil, fmt.Errorf("failed to parse estimated GDP: %w", err)
	}

	return &country, nil
}

func collectCountries(rows *sql.Rows) ([]models.Country, error) {
	var countries []models.Country
	for rows.Next() {
		country, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan country row: %w", err)
		}
		countries = append(countries, *country)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during country row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating country rows: %w", err)
	}

	return countries, nil
}

func parseNullDecimal(value sql.NullString) (decimal.NullDecimal, error) {
	if !value.Valid {
		return decimal.NullDecimal{}, nil
	}
	parsed, err := decimal.NewFromString(value.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid decimal %q: %w", value.String, err)
	}
	return decimal.NullDecimal{Decimal: parsed, Valid: true}, nil
}

// upsertArgs binds a country for queryUpsertCountry; decimals go in as
// strings, optional text fields as NULL when empty.
func upsertArgs(country models.Country) []interface{} {
	return []interface{}{
		country.Name,
		nullString(country.Capital),
		nullString(country.Region),
		country.Population,
		nullString(country.CurrencyCode),
		nullDecimalArg(country.ExchangeRate),
		nullDecimalArg(country.EstimatedGdp),
		nullString(country.FlagUrl),
		country.LastRefreshedAt,
	}
}

func nullString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullDecimalArg(value decimal.NullDecimal) interface{} {
	if !value.Valid {
		return nil
	}
	return value.Decimal.String()
}
