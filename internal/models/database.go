package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Country represents one enriched country row
type Country struct {
	Name            string              `db:"name"`
	Capital         string              `db:"capital"`
	Region          string              `db:"region"`
	Population      int64               `db:"population"`
	CurrencyCode    string              `db:"currency_code"`
	ExchangeRate    decimal.NullDecimal `db:"exchange_rate"`
	EstimatedGdp    decimal.NullDecimal `db:"estimated_gdp"`
	FlagUrl         string              `db:"flag_url"`
	LastRefreshedAt time.Time           `db:"last_refreshed_at"`
}

// RefreshMetadata is the single-row bookkeeping record updated on every
// successful refresh and delete
type RefreshMetadata struct {
	TotalCountries  int64     `db:"total_countries"`
	LastRefreshedAt time.Time `db:"last_refreshed_at"`
}

// HasCurrency reports whether the country carries a usable currency code.
func (c *Country) HasCurrency() bool {
	return c.CurrencyCode != ""
}
