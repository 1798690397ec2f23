package models

import "github.com/shopspring/decimal"

// CatalogEntry is one raw country entry as returned by the country catalog
// source, before any merge work.
type CatalogEntry struct {
	Name       string         `json:"name"`
	Capital    string         `json:"capital"`
	Region     string         `json:"region"`
	Population int64          `json:"population"`
	Flag       string         `json:"flag"`
	Currencies []CatalogMoney `json:"currencies"`
}

// CatalogMoney is one currency declared by a catalog entry. Only the code
// is used; the first listed currency wins.
type CatalogMoney struct {
	Code string `json:"code"`
}

// FirstCurrencyCode returns the first listed currency code, or "" when the
// entry declares no currencies.
func (e *CatalogEntry) FirstCurrencyCode() string {
	if len(e.Currencies) == 0 {
		return ""
	}
	return e.Currencies[0].Code
}

// RateSnapshot maps currency code to its rate against the base currency.
type RateSnapshot map[string]decimal.Decimal
