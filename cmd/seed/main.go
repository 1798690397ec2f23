package main

import (
	"context"
	"flag"
	"time"

	"country-pulse-go/internal/common"
	"country-pulse-go/internal/config"
	"country-pulse-go/internal/refresh"
	"country-pulse-go/internal/render"

	"go.uber.org/zap"
)

// Seeds the store from an offline YAML snapshot, feeding it through the
// same merge and transactional-commit path the live pipeline uses. Meant
// for dev and demo environments without upstream access.
func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	snapshotFlag := flag.String("file", "snapshot.yaml", "Path to the snapshot file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Loading snapshot", zap.String("file", *snapshotFlag))
	catalog, rates, err := common.LoadSnapshot(*snapshotFlag)
	if err != nil {
		zap.L().Fatal("Failed to load snapshot", zap.Error(err))
	}
	zap.L().Info("Snapshot loaded",
		zap.Int("countries", len(catalog)),
		zap.Int("rates", len(rates)))

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	countries := refresh.Merge(catalog, rates, time.Now().UTC())
	metadata, err := dbService.ApplyRefresh(ctx, countries)
	if err != nil {
		zap.L().Fatal("Failed to apply snapshot", zap.Error(err))
	}

	zap.L().Info("Snapshot applied",
		zap.Int64("total_countries", metadata.TotalCountries),
		zap.Time("last_refreshed_at", metadata.LastRefreshedAt))

	// Draw the summary card from the seeded data so the image endpoint
	// works before the first live refresh.
	renderer, err := render.NewImageRenderer(cfg.Render)
	if err != nil {
		zap.L().Fatal("Failed to initialize renderer", zap.Error(err))
	}

	top, err := dbService.TopByGdpDescending(ctx, 5)
	if err != nil {
		zap.L().Fatal("Failed to load top countries", zap.Error(err))
	}

	summary := render.Summary{
		TotalCountries:  metadata.TotalCountries,
		LastRefreshedAt: metadata.LastRefreshedAt,
	}
	for _, country := range top {
		if !country.EstimatedGdp.Valid {
			continue
		}
		summary.TopCountries = append(summary.TopCountries, render.TopEntry{
			Name:         country.Name,
			EstimatedGdp: country.EstimatedGdp.Decimal,
		})
	}

	if err := renderer.Render(summary); err != nil {
		zap.L().Warn("Summary render failed", zap.Error(err))
	}

	zap.L().Info("Seeding complete")
}
