package refresh

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"country-pulse-go/internal/models"
	"country-pulse-go/internal/render"
	"country-pulse-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Refresh outcome modes returned by RequestRefresh.
const (
	ModeAlreadyUpToDate   = "already-up-to-date"
	ModeBackgroundStarted = "background-started"
	ModeRefreshed         = "refreshed"
	ModeRefreshInProgress = "refresh-in-progress"
)

// Fetcher retrieves the two upstream snapshots a refresh run merges.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	FetchRates(ctx context.Context) (models.RateSnapshot, error)
}

// Outcome is the caller-visible result of a refresh request.
type Outcome struct {
	Mode            string
	TotalCountries  int64
	LastRefreshedAt time.Time
}

// Orchestrator decides whether a refresh is needed, whether it runs
// synchronously or in the background, and drives the merge-and-upsert
// pipeline against the store.
type Orchestrator struct {
	store     store.CountryStore
	fetcher   Fetcher
	renderer  render.Renderer
	threshold int64

	// At most one pipeline run in flight per process. Overlapping requests
	// do not start a second run; last-commit-wins still holds across
	// processes.
	inFlight atomic.Bool
}

func NewOrchestrator(countryStore store.CountryStore, fetcher Fetcher, renderer render.Renderer, cfg models.RefreshConfig) (*Orchestrator, error) {
	if cfg.FullDatasetThreshold <= 0 {
		return nil, fmt.Errorf("full dataset threshold must be positive, got %d", cfg.FullDatasetThreshold)
	}

	return &Orchestrator{
		store:     countryStore,
		fetcher:   fetcher,
		renderer:  renderer,
		threshold: cfg.FullDatasetThreshold,
	}, nil
}

// RequestRefresh applies the refresh policy against the current stored count:
//   - count >= threshold: dataset considered complete, nothing is fetched
//   - 0 < count < threshold: current metadata is returned immediately and
//     the pipeline runs detached; background failures are logged only
//   - count == 0: the pipeline runs synchronously and the caller gets the
//     final metadata or the error
func (o *Orchestrator) RequestRefresh(ctx context.Context) (*Outcome, error) {
	count, err := o.store.CountCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to check stored count: %w", err)
	}

	if count >= o.threshold {
		metadata, err := o.store.GetMetadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to read refresh metadata: %w", err)
		}
		zap.L().Info("Dataset already complete, skipping refresh",
			zap.Int64("count", count),
			zap.Int64("threshold", o.threshold))
		return outcomeFrom(ModeAlreadyUpToDate, metadata), nil
	}

	if count > 0 {
		metadata, err := o.store.GetMetadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to read refresh metadata: %w", err)
		}
		o.startBackgroundRun()
		return outcomeFrom(ModeBackgroundStarted, metadata), nil
	}

	// Empty store: the caller waits for the full pipeline.
	if !o.inFlight.CompareAndSwap(false, true) {
		metadata, err := o.store.GetMetadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to read refresh metadata: %w", err)
		}
		zap.L().Info("Refresh already in flight, not starting another")
		return outcomeFrom(ModeRefreshInProgress, metadata), nil
	}
	defer o.inFlight.Store(false)

	metadata, err := o.runPipeline(ctx, uuid.New().String())
	if err != nil {
		return nil, err
	}
	return outcomeFrom(ModeRefreshed, metadata), nil
}

// RunNow executes one pipeline run synchronously regardless of the stored
// count. Used by the one-shot CLI.
func (o *Orchestrator) RunNow(ctx context.Context) (*models.RefreshMetadata, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("a refresh run is already in flight")
	}
	defer o.inFlight.Store(false)

	return o.runPipeline(ctx, uuid.New().String())
}

// startBackgroundRun launches one detached pipeline run unless one is
// already active. The caller has no handle to await or cancel it; failures
// go to the log only.
func (o *Orchestrator) startBackgroundRun() {
	if !o.inFlight.CompareAndSwap(false, true) {
		zap.L().Info("Refresh already in flight, skipping duplicate background run")
		return
	}

	runId := uuid.New().String()
	go func() {
		defer o.inFlight.Store(false)

		// Detached from the triggering request: the run owns its own context.
		if _, err := o.runPipeline(context.Background(), runId); err != nil {
			zap.L().Error("Background refresh failed",
				zap.String("run_id", runId),
				zap.Error(err))
		}
	}()
}

// runPipeline executes one full merge-and-upsert run: parallel fetch of both
// sources (both must succeed), atomic commit, then best-effort detached
// render.
func (o *Orchestrator) runPipeline(ctx context.Context, runId string) (*models.RefreshMetadata, error) {
	started := time.Now()
	zap.L().Info("Starting refresh pipeline", zap.String("run_id", runId))

	var catalog []models.CatalogEntry
	var rates models.RateSnapshot

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		catalog, err = o.fetcher.FetchCatalog(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		rates, err = o.fetcher.FetchRates(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("upstream fetch failed: %w", err)
	}

	countries := Merge(catalog, rates, time.Now().UTC())

	metadata, err := o.store.ApplyRefresh(ctx, countries)
	if err != nil {
		return nil, fmt.Errorf("refresh commit failed: %w", err)
	}

	zap.L().Info("Refresh pipeline completed",
		zap.String("run_id", runId),
		zap.Int("merged", len(countries)),
		zap.Int64("total_countries", metadata.TotalCountries),
		zap.Duration("elapsed", time.Since(started)))

	o.triggerRender(runId, metadata)
	return metadata, nil
}

// triggerRender shapes the summary data and hands it to the renderer on a
// detached goroutine. Render failures never propagate to the refresh.
func (o *Orchestrator) triggerRender(runId string, metadata *models.RefreshMetadata) {
	go func() {
		top, err := o.store.TopByGdpDescending(context.Background(), 5)
		if err != nil {
			zap.L().Error("Failed to load top countries for summary image",
				zap.String("run_id", runId),
				zap.Error(err))
			return
		}

		summary := render.Summary{
			TotalCountries:  metadata.TotalCountries,
			LastRefreshedAt: metadata.LastRefreshedAt,
		}
		for _, country := range top {
			// Null GDP never reaches the card.
			if !country.EstimatedGdp.Valid {
				continue
			}
			summary.TopCountries = append(summary.TopCountries, render.TopEntry{
				Name:         country.Name,
				EstimatedGdp: country.EstimatedGdp.Decimal,
			})
		}

		if err := o.renderer.Render(summary); err != nil {
			zap.L().Error("Summary render failed",
				zap.String("run_id", runId),
				zap.Error(err))
		}
	}()
}

func outcomeFrom(mode string, metadata *models.RefreshMetadata) *Outcome {
	return &Outcome{
		Mode:            mode,
		TotalCountries:  metadata.TotalCountries,
		LastRefreshedAt: metadata.LastRefreshedAt,
	}
}
