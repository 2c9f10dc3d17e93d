package http

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shortlyhq/shortly/internal/database"
	"github.com/shortlyhq/shortly/internal/models"
	"github.com/shortlyhq/shortly/internal/service"
	"github.com/shortlyhq/shortly/internal/validation"
	"github.com/shortlyhq/shortly/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

func handleShortenURL(svc URLService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const op = "api.http.handleShortenURL"

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		url, existing, err := svc.ShortenURL(r.Context(), req.URL)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			if errors.Is(err, service.ErrMaxRetriesExceeded) {
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ErrorResponse("Failed to generate unique short code"))
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		status := http.StatusCreated
		if existing {
			status = http.StatusOK
		}

		render.Status(r, status)
		render.JSON(w, r, response.SuccessResponse(toShortenResult(url, baseURL)))
	}
}

func handleGetAnalytics(svc URLService) http.HandlerFunc {
	const op = "api.http.handleGetAnalytics"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		if err := validation.ValidateShortCode(shortCode); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.InvalidShortCodeResponse)
			return
		}

		url, err := svc.GetAnalytics(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(toAnalyticsResult(url, time.Now().UTC())))
	}
}

func handleListURLs(svc URLService) http.HandlerFunc {
	const op = "api.http.handleListURLs"

	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", service.DefaultPage)
		limit := queryInt(r, "limit", service.DefaultPageSize)

		urls, total, err := svc.ListURLs(r.Context(), page, limit)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		data := make([]urlResult, 0, len(urls))
		for i := range urls {
			data = append(data, toURLResult(&urls[i]))
		}

		msg := fmt.Sprintf("Found %d URLs (%d total)", len(data), total)

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(data, msg))
	}
}

func handleRedirect(svc URLService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		if err := validation.ValidateShortCode(shortCode); err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ResourceNotFoundResponse)
			return
		}

		visit := models.ClickEvent{
			UserAgent: r.UserAgent(),
			Referrer:  r.Referer(),
			IP:        clientIP(r),
		}

		url, err := svc.RecordVisit(r.Context(), shortCode, visit)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		http.Redirect(w, r, url.OriginalURL, http.StatusFound)
	}
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is missing or malformed. Range clamping is left to the service.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return n
}

// clientIP returns the request's client address without the port.
// The RealIP middleware has already unwrapped proxy headers at this point.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
