package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"country-pulse-go/internal/models"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// ErrUnavailable marks any upstream fetch failure: network errors, timeouts,
// non-2xx responses and undecodable payloads. A refresh run that hits it is
// aborted without writing anything.
var ErrUnavailable = errors.New("upstream source unavailable")

// Service fetches the two upstream sources over a shared tuned HTTP client.
type Service struct {
	client       http.Client
	countriesUrl string
	ratesUrl     string
}

func NewService(cfg models.UpstreamConfig) (*Service, error) {
	if cfg.CountriesUrl == "" || cfg.RatesUrl == "" {
		return nil, fmt.Errorf("both upstream URLs must be configured")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("upstream timeout must be positive, got %v", cfg.Timeout)
	}

	httpClient, err := createCustomHttpClient(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	return &Service{
		client:       httpClient,
		countriesUrl: cfg.CountriesUrl,
		ratesUrl:     cfg.RatesUrl,
	}, nil
}

func createCustomHttpClient(timeout time.Duration) (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: timeout,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   timeout,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// FetchCatalog retrieves one catalog snapshot from the country source.
func (s *Service) FetchCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := s.fetchJson(ctx, s.countriesUrl, &entries); err != nil {
		return nil, err
	}

	zap.L().Info("Fetched country catalog", zap.Int("entries", len(entries)))
	return entries, nil
}

// rateFeedPayload is the wire shape of the exchange-rate source.
type rateFeedPayload struct {
	Rates models.RateSnapshot `json:"rates"`
}

// FetchRates retrieves one rate snapshot mapping currency code to its rate
// against the feed's base currency.
func (s *Service) FetchRates(ctx context.Context) (models.RateSnapshot, error) {
	var payload rateFeedPayload
	if err := s.fetchJson(ctx, s.ratesUrl, &payload); err != nil {
		return nil, err
	}
	if payload.Rates == nil {
		return nil, fmt.Errorf("%w: rate feed returned no rates", ErrUnavailable)
	}

	zap.L().Info("Fetched exchange rates", zap.Int("rates", len(payload.Rates)))
	return payload.Rates, nil
}

func (s *Service) fetchJson(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("unable to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		zap.L().Error("Upstream request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Error("Upstream returned non-2xx status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		zap.L().Error("Failed to decode upstream payload", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%w: undecodable payload from %s: %v", ErrUnavailable, url, err)
	}

	return nil
}
