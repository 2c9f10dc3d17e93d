// Package http provides the HTTP delivery layer: routing, request decoding,
// validation and response shaping for the shortening API.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/shortlyhq/shortly/internal/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

// URLService defines the business logic contract required by the handlers.
type URLService interface {
	ShortenURL(ctx context.Context, originalURL string) (*models.URL, bool, error)
	RecordVisit(ctx context.Context, shortCode string, visit models.ClickEvent) (*models.URL, error)
	GetAnalytics(ctx context.Context, shortCode string) (*models.URL, error)
	ListURLs(ctx context.Context, page, pageSize int) ([]models.URL, int64, error)
}

// NewRouter wires the middleware stack and routes. baseURL is the externally
// visible prefix short links are composed from.
func NewRouter(logger *httplog.Logger, urlSvc URLService, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Route("/api", func(r chi.Router) {
		validate := getValidate()

		r.Get("/ping", handlePing)
		r.Post("/shorten", handleShortenURL(urlSvc, validate, baseURL))
		r.Get("/analytics/{shortCode}", handleGetAnalytics(urlSvc))
		r.Get("/urls", handleListURLs(urlSvc))
	})

	r.Get("/{shortCode}", handleRedirect(urlSvc))

	return r
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}
