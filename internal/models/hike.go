// Package models defines the domain types for Raido.
package models

import "time"

// Hike is the aggregate root: one journaled outing. Observations and
// media belong to exactly one hike and are removed with it.
type Hike struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Location        string     `json:"location"`
	Date            *time.Time `json:"date,omitempty"` // calendar date, no time-of-day meaning
	Parking         bool       `json:"parking"`
	LengthKm        float64    `json:"length_km"`
	Difficulty      string     `json:"difficulty"`
	Description     string     `json:"description,omitempty"`
	Terrain         string     `json:"terrain,omitempty"`
	ExpectedWeather string     `json:"expected_weather,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Observation is a timestamped free-text note attached to a hike.
// Photos is an ordered list of URIs stored denormalized on the row.
type Observation struct {
	ID      int64     `json:"id"`
	HikeID  int64     `json:"hike_id"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
	Comment string    `json:"comment,omitempty"`
	Photos  []string  `json:"photos,omitempty"`
}

// Media is a reference to a photo or attachment bound to a hike. The URI
// is opaque: Raido stores the reference, never the bytes. Media rows are
// never updated in place; replacing a photo is delete + insert.
type Media struct {
	ID       int64     `json:"id"`
	HikeID   int64     `json:"hike_id"`
	URI      string    `json:"uri"`
	MimeType string    `json:"mime_type,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// WeatherInfo is the domain view of a current-weather lookup.
type WeatherInfo struct {
	Place       string  `json:"place"`
	Country     string  `json:"country,omitempty"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like,omitempty"`
	Humidity    int     `json:"humidity,omitempty"`
	WindSpeed   float64 `json:"wind_speed,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}
