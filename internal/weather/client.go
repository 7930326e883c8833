package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/starford/raido/internal/models"
)

const (
	requestTimeout = 10 * time.Second
	userAgent      = "Raido"
)

// response mirrors the OpenWeather current-weather payload. Every field
// is optional; the mapper substitutes defaults for missing values.
type response struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

// Client fetches current weather from OpenWeather.
type Client struct {
	endpoint string
	apiKey   string
	units    string
	http     *http.Client
}

// NewClient creates a weather client. units is the OpenWeather unit
// system ("metric", "imperial", or "standard").
func NewClient(endpoint, apiKey, units string) *Client {
	if units == "" {
		units = "metric"
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		units:    units,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// FetchByCity fetches current weather for a place name. Callers validate
// the name first (non-blank, at least two characters).
func (c *Client) FetchByCity(ctx context.Context, city string) (*models.WeatherInfo, error) {
	q := url.Values{}
	q.Set("q", city)
	return c.fetch(ctx, q)
}

// FetchByCoordinates fetches current weather for a coordinate pair.
// Callers validate the ranges first (lat [-90,90], lon [-180,180]).
func (c *Client) FetchByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherInfo, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.fetch(ctx, q)
}

func (c *Client) fetch(ctx context.Context, q url.Values) (*models.WeatherInfo, error) {
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classify(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(0, err)
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Kind: KindUnknown, Status: resp.StatusCode, Err: err}
	}
	return mapResponse(&payload), nil
}

// mapResponse shapes the sparse payload into the domain view: a missing
// place name becomes the placeholder, a missing temperature becomes 0,
// and everything else stays optional.
func mapResponse(p *response) *models.WeatherInfo {
	info := &models.WeatherInfo{Place: PlaceholderName}
	if p.Name != "" {
		info.Place = p.Name
	}
	if p.Sys != nil {
		info.Country = p.Sys.Country
	}
	if p.Main != nil {
		if p.Main.Temp != nil {
			info.Temperature = *p.Main.Temp
		}
		if p.Main.FeelsLike != nil {
			info.FeelsLike = *p.Main.FeelsLike
		}
		if p.Main.Humidity != nil {
			info.Humidity = *p.Main.Humidity
		}
	}
	if p.Wind != nil {
		info.WindSpeed = p.Wind.Speed
	}
	if len(p.Weather) > 0 {
		info.Summary = p.Weather[0].Main
		info.Description = p.Weather[0].Description
		info.Icon = p.Weather[0].Icon
	}
	return info
}
