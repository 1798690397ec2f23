package common

import (
	"fmt"
	"os"
	"path/filepath"

	"country-pulse-go/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// SnapshotCountry is one catalog entry in an offline snapshot file.
type SnapshotCountry struct {
	Name       string   `yaml:"name"`
	Capital    string   `yaml:"capital"`
	Region     string   `yaml:"region"`
	Population int64    `yaml:"population"`
	Flag       string   `yaml:"flag"`
	Currencies []string `yaml:"currencies"`
}

// SnapshotConfig holds one catalog snapshot plus one rate snapshot for
// seeding without upstream access.
type SnapshotConfig struct {
	Countries []SnapshotCountry `yaml:"countries"`
	Rates     map[string]string `yaml:"rates"`
}

// LoadSnapshot reads and validates an offline snapshot file, returning the
// same shapes the upstream fetchers produce.
func LoadSnapshot(snapshotFile string) ([]models.CatalogEntry, models.RateSnapshot, error) {
	var snapshotPath string
	if filepath.IsAbs(snapshotFile) {
		snapshotPath = snapshotFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		snapshotPath = filepath.Join(wd, snapshotFile)
	}

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read %s: %w", snapshotFile, err)
	}

	var config SnapshotConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, nil, fmt.Errorf("unable to parse %s: %w", snapshotFile, err)
	}

	catalog := make([]models.CatalogEntry, len(config.Countries))
	for i, country := range config.Countries {
		if country.Name == "" {
			return nil, nil, fmt.Errorf("country at index %d missing name", i)
		}
		if country.Population < 0 {
			return nil, nil, fmt.Errorf("country %q has negative population", country.Name)
		}

		entry := models.CatalogEntry{
			Name:       country.Name,
			Capital:    country.Capital,
			Region:     country.Region,
			Population: country.Population,
			Flag:       country.Flag,
		}
		for _, code := range country.Currencies {
			entry.Currencies = append(entry.Currencies, models.CatalogMoney{Code: code})
		}
		catalog[i] = entry
	}

	rates := make(models.RateSnapshot, len(config.Rates))
	for code, value := range config.Rates {
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid rate for %s: %q (%w)", code, value, err)
		}
		rates[code] = rate
	}

	return catalog, rates, nil
}
