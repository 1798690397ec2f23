package refresh

import (
	"math/rand"
	"time"

	"country-pulse-go/internal/models"

	"github.com/shopspring/decimal"
)

// GDP multiplier bounds. The multiplier is drawn fresh per record per run
// from the process-global source, never seeded and never memoized, so
// repeated refreshes on identical upstream data produce different estimates.
const (
	gdpMultiplierMin = 1000
	gdpMultiplierMax = 2000
)

// Merge combines one catalog snapshot with one rate snapshot into derived
// country records. Each entry is processed independently:
//   - no declared currencies: currency_code null, exchange_rate null,
//     estimated_gdp exactly 0
//   - first listed currency missing from the rate snapshot: exchange_rate
//     null, estimated_gdp null
//   - resolvable currency: estimated_gdp = population * U / rate with U
//     uniform in [1000, 2000)
func Merge(catalog []models.CatalogEntry, rates models.RateSnapshot, refreshedAt time.Time) []models.Country {
	countries := make([]models.Country, 0, len(catalog))
	for _, entry := range catalog {
		countries = append(countries, mergeEntry(entry, rates, refreshedAt))
	}
	return countries
}

func mergeEntry(entry models.CatalogEntry, rates models.RateSnapshot, refreshedAt time.Time) models.Country {
	country := models.Country{
		Name:            entry.Name,
		Capital:         entry.Capital,
		Region:          entry.Region,
		Population:      entry.Population,
		FlagUrl:         entry.Flag,
		LastRefreshedAt: refreshedAt,
	}

	code := entry.FirstCurrencyCode()
	if code == "" {
		// No currency at all: GDP is exactly zero, not random.
		country.EstimatedGdp = decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
		return country
	}

	country.CurrencyCode = code
	rate, ok := rates[code]
	if !ok || !rate.IsPositive() {
		// Currency known but no usable rate: both stay null.
		return country
	}

	country.ExchangeRate = decimal.NullDecimal{Decimal: rate, Valid: true}
	country.EstimatedGdp = decimal.NullDecimal{
		Decimal: estimateGdp(entry.Population, rate),
		Valid:   true,
	}
	return country
}

func estimateGdp(population int64, rate decimal.Decimal) decimal.Decimal {
	multiplier := gdpMultiplierMin + rand.Float64()*(gdpMultiplierMax-gdpMultiplierMin)
	return decimal.NewFromInt(population).
		Mul(decimal.NewFromFloat(multiplier)).
		Div(rate)
}
