package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"country-pulse-go/internal/models"
	"country-pulse-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := &Service{db: db}

	// Use the actual schema initialization
	if err := service.initSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func testCountry(name, region, currency string, population int64, rate, gdp string) models.Country {
	country := models.Country{
		Name:            name,
		Capital:         "Capital of " + name,
		Region:          region,
		Population:      population,
		CurrencyCode:    currency,
		LastRefreshedAt: time.Now().UTC(),
	}
	if rate != "" {
		country.ExchangeRate = decimal.NullDecimal{Decimal: decimal.RequireFromString(rate), Valid: true}
	}
	if gdp != "" {
		country.EstimatedGdp = decimal.NullDecimal{Decimal: decimal.RequireFromString(gdp), Valid: true}
	}
	return country
}

func TestUpsertCountry_InsertThenUpdate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	first := testCountry("Nigeria", "Africa", "NGN", 200000000, "1500", "250000000")
	if err := service.UpsertCountry(ctx, first); err != nil {
		t.Fatalf("UpsertCountry failed: %v", err)
	}

	// Same name must update in place, not duplicate.
	second := testCountry("Nigeria", "Africa", "NGN", 210000000, "1600", "260000000")
	if err := service.UpsertCountry(ctx, second); err != nil {
		t.Fatalf("UpsertCountry (update) failed: %v", err)
	}

	count, err := service.CountCountries(ctx)
	if err != nil {
		t.Fatalf("CountCountries failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 country after double upsert, got %d", count)
	}

	stored, err := service.FindByNameCaseInsensitive(ctx, "Nigeria")
	if err != nil {
		t.Fatalf("FindByNameCaseInsensitive failed: %v", err)
	}
	if stored.Population != 210000000 {
		t.Errorf("Expected updated population 210000000, got %d", stored.Population)
	}
	if !stored.ExchangeRate.Valid || !stored.ExchangeRate.Decimal.Equal(decimal.RequireFromString("1600")) {
		t.Errorf("Expected updated exchange rate 1600, got %v", stored.ExchangeRate)
	}
}

func TestFindByNameCaseInsensitive(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.UpsertCountry(ctx, testCountry("Nigeria", "Africa", "NGN", 200000000, "1500", "250000000")); err != nil {
		t.Fatalf("UpsertCountry failed: %v", err)
	}

	for _, name := range []string{"Nigeria", "nigeria", "NIGERIA", "nIgErIa"} {
		country, err := service.FindByNameCaseInsensitive(ctx, name)
		if err != nil {
			t.Fatalf("FindByNameCaseInsensitive(%q) failed: %v", name, err)
		}
		if country.Name != "Nigeria" {
			t.Errorf("FindByNameCaseInsensitive(%q) returned %q", name, country.Name)
		}
	}

	_, err := service.FindByNameCaseInsensitive(ctx, "Atlantis")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing country, got %v", err)
	}
}

func TestDeleteByNameCaseInsensitive_RecountsMetadata(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	countries := []models.Country{
		testCountry("Nigeria", "Africa", "NGN", 200000000, "1500", "250000000"),
		testCountry("Ghana", "Africa", "GHS", 31000000, "15", "3100000000"),
	}
	if _, err := service.ApplyRefresh(ctx, countries); err != nil {
		t.Fatalf("ApplyRefresh failed: %v", err)
	}

	affected, err := service.DeleteByNameCaseInsensitive(ctx, "NIGERIA")
	if err != nil {
		t.Fatalf("DeleteByNameCaseInsensitive failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Expected 1 row deleted, got %d", affected)
	}

	metadata, err := service.GetMetadata(ctx)
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if metadata.TotalCountries != 1 {
		t.Errorf("Expected metadata total 1 after delete, got %d", metadata.TotalCountries)
	}

	// Miss: zero rows, metadata untouched.
	affected, err = service.DeleteByNameCaseInsensitive(ctx, "Atlantis")
	if err != nil {
		t.Fatalf("DeleteByNameCaseInsensitive (miss) failed: %v", err)
	}
	if affected != 0 {
		t.Errorf("Expected 0 rows deleted for missing country, got %d", affected)
	}
	metadata, err = service.GetMetadata(ctx)
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if metadata.TotalCountries != 1 {
		t.Errorf("Expected metadata total still 1 after miss, got %d", metadata.TotalCountries)
	}
}

func TestListFiltered(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	countries := []models.Country{
		testCountry("Nigeria", "Africa", "NGN", 200000000, "1500", "250000000"),
		testCountry("Ghana", "Africa", "GHS", 31000000, "15", "3100000000"),
		testCountry("France", "Europe", "EUR", 67000000, "0.9", "110000000000"),
	}
	if _, err := service.ApplyRefresh(ctx, countries); err != nil {
		t.Fatalf("ApplyRefresh failed: %v", err)
	}

	africa, err := service.ListFiltered(ctx, store.ListFilter{Region: "Africa"})
	if err != nil {
		t.Fatalf("ListFiltered(region) failed: %v", err)
	}
	if len(africa) != 2 {
		t.Fatalf("Expected 2 African countries, got %d", len(africa))
	}

	eur, err := service.ListFiltered(ctx, store.ListFilter{Currency: "EUR"})
	if err != nil {
		t.Fatalf("ListFiltered(currency) failed: %v", err)
	}
	if len(eur) != 1 || eur[0].Name != "France" {
		t.Fatalf("Expected only France for currency EUR, got %v", eur)
	}

	byPopulation, err := service.ListFiltered(ctx, store.ListFilter{Sort: store.SortPopulationDesc})
	if err != nil {
		t.Fatalf("ListFiltered(sort) failed: %v", err)
	}
	if byPopulation[0].Name != "Nigeria" {
		t.Errorf("Expected Nigeria first by population, got %q", byPopulation[0].Name)
	}

	// Unknown sort key falls back to name ascending.
	fallback, err := service.ListFiltered(ctx, store.ListFilter{Sort: "bogus"})
	if err != nil {
		t.Fatalf("ListFiltered(unknown sort) failed: %v", err)
	}
	if fallback[0].Name != "France" {
		t.Errorf("Expected France first in default order, got %q", fallback[0].Name)
	}
}

func TestListFiltered_GdpSortPlacesNullsLast(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	noRate := testCountry("Atlantis", "Mythical", "ATL", 1000, "", "")
	countries := []models.Country{
		testCountry("Nigeria", "Africa", "NGN", 200000000, "1500", "250000000"),
		noRate,
		testCountry("France", "Europe", "EUR", 67000000, "0.9", "110000000000"),
	}
	if _, err := service.ApplyRefresh(ctx, countries); err != nil {
		t.Fatalf("ApplyRefresh failed: %v", err)
	}

	sorted, err := service.ListFiltered(ctx, store.ListFilter{Sort: store.SortGdpDesc})
	if err != nil {
		t.Fatalf("ListFiltered failed: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("Expected 3 countries, got %d", len(sorted))
	}
	if sorted[0].Name != "France" || sorted[1].Name != "Nigeria" {
		t.Errorf("Expected France then Nigeria by GDP, got %q then %q", sorted[0].Name, sorted[1].Name)
	}
	if sorted[2].Name != "Atlantis" {
		t.Errorf("Expected null-GDP Atlantis last, got %q", sorted[2].Name)
	}

	ascending, err := service.ListFiltered(ctx, store.ListFilter{Sort: store.SortGdpAsc})
	if err != nil {
		t.Fatalf("ListFiltered failed: %v", err)
	}
	if ascending[len(ascending)-1].Name != "Atlantis" {
		t.Errorf("Expected null-GDP Atlantis last in ascending sort, got %q", ascending[len(ascending)-1].Name)
	}
}

func TestTopByGdpDescending(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	countries := []models.Country{
		testCountry("Nigeria", "Africa", "NGN", 200000000, "1500", "250000000"),
		testCountry("Atlantis", "Mythical", "ATL", 1000, "", ""),
		testCountry("France", "Europe", "EUR", 67000000, "0.9", "110000000000"),
		testCountry("Ghana", "Africa", "GHS", 31000000, "15", "3100000000"),
	}
	if _, err := service.ApplyRefresh(ctx, countries); err != nil {
		t.Fatalf("ApplyRefresh failed: %v", err)
	}

	top, err := service.TopByGdpDescending(ctx, 2)
	if err != nil {
		t.Fatalf("TopByGdpDescending failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 countries, got %d", len(top))
	}
	if top[0].Name != "France" || top[1].Name != "Ghana" {
		t.Errorf("Expected France then Ghana, got %q then %q", top[0].Name, top[1].Name)
	}
}

func TestScanCountry_NullableFields(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	bare := models.Country{
		Name:            "Bareland",
		Population:      42,
		LastRefreshedAt: time.Now().UTC(),
	}
	if err := service.UpsertCountry(ctx, bare); err != nil {
		t.Fatalf("UpsertCountry failed: %v", err)
	}

	stored, err := service.FindByNameCaseInsensitive(ctx, "bareland")
	if err != nil {
		t.Fatalf("FindByNameCaseInsensitive failed: %v", err)
	}
	if stored.Capital != "" || stored.Region != "" || stored.CurrencyCode != "" || stored.FlagUrl != "" {
		t.Errorf("Expected empty optional text fields, got %+v", stored)
	}
	if stored.ExchangeRate.Valid || stored.EstimatedGdp.Valid {
		t.Errorf("Expected null decimals, got rate=%v gdp=%v", stored.ExchangeRate, stored.EstimatedGdp)
	}
}
