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

package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"country-pulse-go/internal/common"
	"country-pulse-go/internal/config"
	"country-pulse-go/internal/models"

	"go.uber.org/zap"
)

func printCountry(country models.Country, isLast bool) {
	symbol := common.BoxPrefix(isLast)

	gdp := "null"
	if country.EstimatedGdp.Valid {
		gdp = country.EstimatedGdp.Decimal.Round(2).String()
	}
	currency := country.CurrencyCode
	if currency == "" {
		currency = "none"
	}

	fmt.Printf("%s %-25s %-8s gdp: %s\n", symbol, country.Name, currency, gdp)
}

func printTopCountries(countries []models.Country) {
	for i, country := range countries {
		printCountry(country, i == len(countries)-1)
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	forceFlag := flag.Bool("force", false, "Run the pipeline even when the dataset is already complete")
	flag.Parse()

	logger.Info("Starting one-shot refresh run")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	var metadata *models.RefreshMetadata
	if *forceFlag {
		metadata, err = services.Orchestrator.RunNow(ctx)
		if err != nil {
			logger.Fatal("Refresh run failed", zap.Error(err))
		}
	} else {
		outcome, err := services.Orchestrator.RequestRefresh(ctx)
		if err != nil {
			logger.Fatal("Refresh run failed", zap.Error(err))
		}
		metadata = &models.RefreshMetadata{
			TotalCountries:  outcome.TotalCountries,
			LastRefreshedAt: outcome.LastRefreshedAt,
		}
		logger.Info("Refresh outcome", zap.String("mode", outcome.Mode))
	}

	top, err := services.DbService.TopByGdpDescending(ctx, 5)
	if err != nil {
		logger.Fatal("Failed to load top countries", zap.Error(err))
	}

	// Print header
	common.PrintHeader("COUNTRY REFRESH REPORT", common.DefaultWidth)

	fmt.Printf("Total countries: %d\n", metadata.TotalCountries)
	fmt.Printf("Last refreshed:  %s\n", metadata.LastRefreshedAt.UTC().Format(time.RFC3339))
	fmt.Println("\nTop 5 by estimated GDP:")
	printTopCountries(top)

	// Print footer summary
	summary := fmt.Sprintf("SUMMARY: %d countries stored", metadata.TotalCountries)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Refresh run completed",
		zap.Int64("total_countries", metadata.TotalCountries),
		zap.Time("last_refreshed_at", metadata.LastRefreshedAt))
}
