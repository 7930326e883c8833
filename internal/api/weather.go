package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/weather"
)

// WeatherFetcher is the gateway capability the API depends on.
type WeatherFetcher interface {
	FetchByCity(ctx context.Context, city string) (*models.WeatherInfo, error)
	FetchByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherInfo, error)
}

// WeatherHandler serves current-weather lookups.
type WeatherHandler struct {
	gateway WeatherFetcher
}

// NewWeatherHandler creates a handler; gateway may be nil when the
// integration is not configured.
func NewWeatherHandler(gateway WeatherFetcher) *WeatherHandler {
	return &WeatherHandler{gateway: gateway}
}

// Current handles GET /weather?city=... or GET /weather?lat=...&lon=...
// Place names and coordinates are validated here, before the gateway is
// ever invoked.
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("weather integration is not configured"))
		return
	}

	q := r.URL.Query()
	city := q.Get("city")
	latStr, lonStr := q.Get("lat"), q.Get("lon")

	var info *models.WeatherInfo
	var err error

	switch {
	case city != "":
		if verr := models.ValidatePlace(city); verr != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(verr.Message))
			return
		}
		info, err = h.gateway.FetchByCity(r.Context(), city)

	case latStr != "" || lonStr != "":
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("lat and lon must both be numbers"))
			return
		}
		if verr := models.ValidateCoordinates(lat, lon); verr != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(verr.Message))
			return
		}
		info, err = h.gateway.FetchByCoordinates(r.Context(), lat, lon)

	default:
		writeJSON(w, http.StatusBadRequest, errorBody("city or lat/lon is required"))
		return
	}

	if err != nil {
		var werr *weather.Error
		if errors.As(err, &werr) {
			writeJSON(w, weatherStatus(werr), errorBody(werr.Message()))
			return
		}
		slog.Error("weather fetch failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("weather fetch failed"))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func weatherStatus(e *weather.Error) int {
	switch e.Kind {
	case weather.KindNotFound:
		return http.StatusNotFound
	case weather.KindAuth:
		return http.StatusBadGateway
	case weather.KindNetwork:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
