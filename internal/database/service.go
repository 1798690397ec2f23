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

package database

import (
	"context"
	"database/sql"
	"fmt"

	"country-pulse-go/internal/models"
	"country-pulse-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.CountryStore.
var _ store.CountryStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		err := db.Close()
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		err := db.Close()
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema() error {
	schema := `
	-- Create countries table, keyed by exact name
	CREATE TABLE IF NOT EXISTS countries (
		name TEXT PRIMARY KEY,
		capital TEXT,
		region TEXT,
		population INTEGER NOT NULL CHECK (population >= 0),
		currency_code TEXT,
		exchange_rate REAL,
		estimated_gdp REAL,
		flag_url TEXT,
		last_refreshed_at TIMESTAMP NOT NULL
	);

	-- Create index for case-insensitive name lookups
	CREATE INDEX IF NOT EXISTS idx_countries_name_lower ON countries(LOWER(name));
	-- Create index for region filtering
	CREATE INDEX IF NOT EXISTS idx_countries_region ON countries(region);
	-- Create index for currency filtering
	CREATE INDEX IF NOT EXISTS idx_countries_currency ON countries(currency_code);
	-- Create index for GDP ordering
	CREATE INDEX IF NOT EXISTS idx_countries_estimated_gdp ON countries(estimated_gdp);

	-- Single-row refresh bookkeeping record (id is pinned to 1)
	CREATE TABLE IF NOT EXISTS refresh_metadata (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		total_countries INTEGER NOT NULL DEFAULT 0,
		last_refreshed_at TIMESTAMP
	);

	INSERT OR IGNORE INTO refresh_metadata (id, total_countries) VALUES (1, 0);
	`

	_, err := s.db.Exec(schema)
	return err
}
