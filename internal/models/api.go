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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountryResponse is the JSON wire shape of a country record. Optional
// fields serialize as null when absent.
type CountryResponse struct {
	Name            string           `json:"name"`
	Capital         *string          `json:"capital"`
	Region          *string          `json:"region"`
	Population      int64            `json:"population"`
	CurrencyCode    *string          `json:"currency_code"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate"`
	EstimatedGdp    *decimal.Decimal `json:"estimated_gdp"`
	FlagUrl         *string          `json:"flag_url"`
	LastRefreshedAt time.Time        `json:"last_refreshed_at"`
}

// NewCountryResponse maps a stored country to its wire shape.
func NewCountryResponse(c Country) CountryResponse {
	resp := CountryResponse{
		Name:            c.Name,
		Population:      c.Population,
		LastRefreshedAt: c.LastRefreshedAt.UTC(),
	}
	if c.Capital != "" {
		resp.Capital = &c.Capital
	}
	if c.Region != "" {
		resp.Region = &c.Region
	}
	if c.CurrencyCode != "" {
		resp.CurrencyCode = &c.CurrencyCode
	}
	if c.ExchangeRate.Valid {
		resp.ExchangeRate = &c.ExchangeRate.Decimal
	}
	if c.EstimatedGdp.Valid {
		resp.EstimatedGdp = &c.EstimatedGdp.Decimal
	}
	if c.FlagUrl != "" {
		resp.FlagUrl = &c.FlagUrl
	}
	return resp
}

// RefreshResponse is returned by the refresh endpoint.
type RefreshResponse struct {
	Message         string     `json:"message"`
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// StatusResponse is returned by the status endpoint.
type StatusResponse struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// MessageResponse carries a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a sanitized error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
