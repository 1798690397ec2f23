package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"time"

	"country-pulse-go/internal/models"
	"country-pulse-go/internal/refresh"
	"country-pulse-go/internal/store"
	"country-pulse-go/internal/upstream"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Routes handles the HTTP surface over the country service and the
// refresh orchestrator.
type Routes struct {
	service      *CountryService
	orchestrator *refresh.Orchestrator
	imagePath    string
}

func NewRoutes(service *CountryService, orchestrator *refresh.Orchestrator, imagePath string) *Routes {
	return &Routes{
		service:      service,
		orchestrator: orchestrator,
		imagePath:    imagePath,
	}
}

// NewRouter creates and configures the HTTP router.
func NewRouter(routes *Routes) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(loggingMiddleware)

	r.Get("/health", routes.handleHealth)
	r.Get("/status", routes.handleStatus)

	r.Route("/countries", func(r chi.Router) {
		r.Post("/refresh", routes.handleRefresh)
		r.Get("/", routes.handleListCountries)
		r.Get("/image", routes.handleSummaryImage)
		r.Get("/{name}", routes.handleGetCountry)
		r.Delete("/{name}", routes.handleDeleteCountry)
	})

	return r
}

// loggingMiddleware logs every request with its status and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		zap.L().Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (routes *Routes) handleRefresh(w http.ResponseWriter, r *http.Request) {
	outcome, err := routes.orchestrator.RequestRefresh(r.Context())
	if err != nil {
		if errors.Is(err, upstream.ErrUnavailable) {
			writeError(w, "upstream data source unavailable", http.StatusServiceUnavailable)
			return
		}
		writeError(w, "refresh failed", http.StatusInternalServerError)
		return
	}

	response := models.RefreshResponse{
		Message:        refreshMessage(outcome.Mode),
		TotalCountries: outcome.TotalCountries,
	}
	if !outcome.LastRefreshedAt.IsZero() {
		refreshedAt := outcome.LastRefreshedAt.UTC()
		response.LastRefreshedAt = &refreshedAt
	}
	writeJSON(w, response, http.StatusOK)
}

func refreshMessage(mode string) string {
	switch mode {
	case refresh.ModeAlreadyUpToDate:
		return "dataset already up to date"
	case refresh.ModeBackgroundStarted:
		return "refresh started in background"
	case refresh.ModeRefreshInProgress:
		return "a refresh is already in progress"
	case refresh.ModeRefreshed:
		return "refresh completed"
	default:
		return mode
	}
}

func (routes *Routes) handleListCountries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.ListFilter{
		Region:   query.Get("region"),
		Currency: query.Get("currency"),
		Sort:     query.Get("sort"),
	}

	countries, err := routes.service.ListCountries(r.Context(), filter)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, countries, http.StatusOK)
}

func (routes *Routes) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	country, err := routes.service.GetCountry(r.Context(), nameParam(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, "country not found", http.StatusNotFound)
			return
		}
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, country, http.StatusOK)
}

func (routes *Routes) handleDeleteCountry(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if err := routes.service.DeleteCountry(r.Context(), name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, "country not found", http.StatusNotFound)
			return
		}
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, models.MessageResponse{Message: "country deleted"}, http.StatusOK)
}

func (routes *Routes) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := routes.service.Status(r.Context())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, http.StatusOK)
}

func (routes *Routes) handleSummaryImage(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(routes.imagePath); err != nil {
		writeError(w, "summary image not rendered yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, routes.imagePath)
}

func (routes *Routes) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := routes.service.HealthCheck(r.Context()); err != nil {
		writeError(w, "unhealthy", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

// writeError writes a standardized error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, models.ErrorResponse{Error: message}, statusCode)
}
