package refresh

import (
	"testing"
	"time"

	"country-pulse-go/internal/models"

	"github.com/shopspring/decimal"
)

func rateSnapshot(pairs map[string]string) models.RateSnapshot {
	rates := make(models.RateSnapshot, len(pairs))
	for code, rate := range pairs {
		rates[code] = decimal.RequireFromString(rate)
	}
	return rates
}

func TestMerge_NoCurrencies(t *testing.T) {
	catalog := []models.CatalogEntry{
		{Name: "Atlantis", Population: 1000},
		{Name: "Lemuria", Population: 0, Currencies: []models.CatalogMoney{}},
	}
	rates := rateSnapshot(map[string]string{"NGN": "1500"})

	countries := Merge(catalog, rates, time.Now().UTC())
	if len(countries) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(countries))
	}

	for _, country := range countries {
		if country.CurrencyCode != "" {
			t.Errorf("%s: expected no currency code, got %q", country.Name, country.CurrencyCode)
		}
		if country.ExchangeRate.Valid {
			t.Errorf("%s: expected null exchange rate", country.Name)
		}
		if !country.EstimatedGdp.Valid || !country.EstimatedGdp.Decimal.Equal(decimal.Zero) {
			t.Errorf("%s: expected estimated GDP exactly 0, got %v", country.Name, country.EstimatedGdp)
		}
	}
}

func TestMerge_UnresolvableCurrency(t *testing.T) {
	catalog := []models.CatalogEntry{
		{Name: "Wakanda", Population: 6000000, Currencies: []models.CatalogMoney{{Code: "VBR"}}},
	}
	rates := rateSnapshot(map[string]string{"NGN": "1500"})

	countries := Merge(catalog, rates, time.Now().UTC())
	country := countries[0]

	if country.CurrencyCode != "VBR" {
		t.Errorf("Expected currency code VBR, got %q", country.CurrencyCode)
	}
	if country.ExchangeRate.Valid {
		t.Errorf("Expected null exchange rate, got %v", country.ExchangeRate)
	}
	if country.EstimatedGdp.Valid {
		t.Errorf("Expected null estimated GDP, got %v", country.EstimatedGdp)
	}
}

func TestMerge_ResolvableCurrencyBounds(t *testing.T) {
	population := int64(200000000)
	rate := decimal.RequireFromString("1500")
	catalog := []models.CatalogEntry{
		{Name: "Nigeria", Population: population, Currencies: []models.CatalogMoney{{Code: "NGN"}}},
	}
	rates := rateSnapshot(map[string]string{"NGN": "1500"})

	lower := decimal.NewFromInt(population).Mul(decimal.NewFromInt(gdpMultiplierMin)).Div(rate)
	upper := decimal.NewFromInt(population).Mul(decimal.NewFromInt(gdpMultiplierMax)).Div(rate)

	// Distributional bounds only: the multiplier is intentionally
	// non-deterministic, so exact values cannot be asserted.
	for i := 0; i < 50; i++ {
		country := Merge(catalog, rates, time.Now().UTC())[0]

		if country.CurrencyCode != "NGN" {
			t.Fatalf("Expected currency code NGN, got %q", country.CurrencyCode)
		}
		if !country.ExchangeRate.Valid || !country.ExchangeRate.Decimal.Equal(rate) {
			t.Fatalf("Expected exchange rate %s, got %v", rate, country.ExchangeRate)
		}
		if !country.EstimatedGdp.Valid {
			t.Fatal("Expected estimated GDP to be set")
		}
		gdp := country.EstimatedGdp.Decimal
		if gdp.LessThan(lower) || gdp.GreaterThanOrEqual(upper) {
			t.Fatalf("Estimated GDP %s outside [%s, %s)", gdp, lower, upper)
		}
	}
}

func TestMerge_RepeatedRunsVaryGdp(t *testing.T) {
	catalog := []models.CatalogEntry{
		{Name: "Nigeria", Population: 200000000, Currencies: []models.CatalogMoney{{Code: "NGN"}}},
	}
	rates := rateSnapshot(map[string]string{"NGN": "1500"})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		country := Merge(catalog, rates, time.Now().UTC())[0]
		seen[country.EstimatedGdp.Decimal.String()] = true
	}

	// Ten independent draws collapsing to one value would mean the
	// multiplier is memoized.
	if len(seen) < 2 {
		t.Errorf("Expected varying GDP estimates across runs, got %d distinct value(s)", len(seen))
	}
}

func TestMerge_FirstListedCurrencyWins(t *testing.T) {
	catalog := []models.CatalogEntry{
		{Name: "Bhutan", Population: 770000, Currencies: []models.CatalogMoney{{Code: "BTN"}, {Code: "INR"}}},
	}
	rates := rateSnapshot(map[string]string{"BTN": "83", "INR": "83"})

	country := Merge(catalog, rates, time.Now().UTC())[0]
	if country.CurrencyCode != "BTN" {
		t.Errorf("Expected first listed currency BTN, got %q", country.CurrencyCode)
	}
}

func TestMerge_NonPositiveRateTreatedAsUnresolvable(t *testing.T) {
	catalog := []models.CatalogEntry{
		{Name: "Nowhere", Population: 100, Currencies: []models.CatalogMoney{{Code: "ZRO"}}},
	}
	rates := rateSnapshot(map[string]string{"ZRO": "0"})

	country := Merge(catalog, rates, time.Now().UTC())[0]
	if country.ExchangeRate.Valid || country.EstimatedGdp.Valid {
		t.Errorf("Expected null rate and GDP for non-positive rate, got %+v", country)
	}
}
