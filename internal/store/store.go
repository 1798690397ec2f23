package store

import (
	"context"
	"errors"

	"country-pulse-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound = errors.New("country not found")
)

// Sort keys accepted by ListFiltered. Anything outside this set falls back
// to the store default order (name ascending).
const (
	SortGdpDesc        = "gdp_desc"
	SortGdpAsc         = "gdp_asc"
	SortPopulationDesc = "population_desc"
	SortPopulationAsc  = "population_asc"
	SortNameAsc        = "name_asc"
	SortNameDesc       = "name_desc"
)

// ListFilter narrows and orders a country listing. Empty fields mean
// "no filter" / "default order".
type ListFilter struct {
	Region   string
	Currency string
	Sort     string
}

// CountryStore defines the contract the record store must satisfy.
type CountryStore interface {
	// --- Countries ---
	UpsertCountry(ctx context.Context, country models.Country) error
	CountCountries(ctx context.Context) (int64, error)
	FindByNameCaseInsensitive(ctx context.Context, name string) (*models.Country, error)
	DeleteByNameCaseInsensitive(ctx context.Context, name string) (int64, error)
	ListFiltered(ctx context.Context, filter ListFilter) ([]models.Country, error)
	TopByGdpDescending(ctx context.Context, n int) ([]models.Country, error)

	// --- Refresh bookkeeping ---
	// ApplyRefresh commits all merged records plus the metadata recount as
	// one atomic unit: either everything is written or nothing is.
	ApplyRefresh(ctx context.Context, countries []models.Country) (*models.RefreshMetadata, error)
	GetMetadata(ctx context.Context) (*models.RefreshMetadata, error)

	// --- Lifecycle ---
	Close()
}
