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

const (
	// Country queries
	querySelectCountryColumns = `
		SELECT name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at
		FROM countries`

	queryUpsertCountry = `
		INSERT INTO countries (name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			capital = excluded.capital,
			region = excluded.region,
			population = excluded.population,
			currency_code = excluded.currency_code,
			exchange_rate = excluded.exchange_rate,
			estimated_gdp = excluded.estimated_gdp,
			flag_url = excluded.flag_url,
			last_refreshed_at = excluded.last_refreshed_at`

	queryCountCountries = `
		SELECT COUNT(*) FROM countries`

	queryGetCountryByName = querySelectCountryColumns + `
		WHERE LOWER(name) = LOWER(?)`

	queryDeleteCountryByName = `
		DELETE FROM countries WHERE LOWER(name) = LOWER(?)`

	queryTopCountriesByGdp = querySelectCountryColumns + `
		ORDER BY estimated_gdp DESC NULLS LAST, name ASC
		LIMIT ?`

	// Metadata queries (single row, id pinned to 1)
	queryGetMetadata = `
		SELECT total_countries, last_refreshed_at
		FROM refresh_metadata
		WHERE id = 1`

	queryUpdateMetadata = `
		UPDATE refresh_metadata
		SET total_countries = ?, last_refreshed_at = ?
		WHERE id = 1`

	queryUpdateMetadataCount = `
		UPDATE refresh_metadata
		SET total_countries = ?
		WHERE id = 1`
)
