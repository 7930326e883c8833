package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/store"
)

// HikeRequest is the request body for creating or replacing a hike.
type HikeRequest struct {
	Name            string  `json:"name"`
	Location        string  `json:"location"`
	Date            *string `json:"date,omitempty"` // "YYYY-MM-DD"
	Parking         bool    `json:"parking"`
	LengthKm        float64 `json:"length_km"`
	Difficulty      string  `json:"difficulty"`
	Description     string  `json:"description,omitempty"`
	Terrain         string  `json:"terrain,omitempty"`
	ExpectedWeather string  `json:"expected_weather,omitempty"`
}

const dateLayout = "2006-01-02"

func (r *HikeRequest) toHike(id int64) (*models.Hike, error) {
	h := &models.Hike{
		ID:              id,
		Name:            r.Name,
		Location:        r.Location,
		Parking:         r.Parking,
		LengthKm:        r.LengthKm,
		Difficulty:      r.Difficulty,
		Description:     r.Description,
		Terrain:         r.Terrain,
		ExpectedWeather: r.ExpectedWeather,
	}
	if r.Date != nil && *r.Date != "" {
		t, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", *r.Date)
		}
		h.Date = &t
	}
	return h, nil
}

// ObservationRequest is the request body for creating or replacing an
// observation.
type ObservationRequest struct {
	Text    string   `json:"text"`
	At      *string  `json:"at,omitempty"` // RFC 3339; defaults to now on create
	Comment string   `json:"comment,omitempty"`
	Photos  []string `json:"photos,omitempty"`
}

func (r *ObservationRequest) toObservation(id, hikeID int64) (*models.Observation, error) {
	o := &models.Observation{
		ID:      id,
		HikeID:  hikeID,
		Text:    r.Text,
		Comment: r.Comment,
		Photos:  r.Photos,
	}
	if r.At != nil && *r.At != "" {
		t, err := time.Parse(time.RFC3339, *r.At)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q, want RFC 3339", *r.At)
		}
		o.At = t
	}
	return o, nil
}

// HikeListResponse wraps hike search results.
type HikeListResponse struct {
	Hikes []models.Hike `json:"hikes"`
	Total int           `json:"total"`
}

// filterFromQuery parses the optional search predicates from URL query
// parameters. Absent parameters impose no constraint.
func filterFromQuery(get func(string) string) (store.Filter, error) {
	var f store.Filter

	if v := get("name"); v != "" {
		f.Name = &v
	}
	if v := get("location"); v != "" {
		f.Location = &v
	}
	if v := get("min_length"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("invalid min_length %q", v)
		}
		f.MinLength = &n
	}
	if v := get("max_length"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("invalid max_length %q", v)
		}
		f.MaxLength = &n
	}
	if v := get("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("invalid start_date %q, want YYYY-MM-DD", v)
		}
		f.StartDate = &t
	}
	if v := get("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("invalid end_date %q, want YYYY-MM-DD", v)
		}
		f.EndDate = &t
	}
	return f, nil
}

// mimeExt maps accepted photo MIME types to file extensions.
var mimeExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func extForUpload(mime, filename string) (string, bool) {
	if ext, ok := mimeExt[strings.ToLower(mime)]; ok {
		return ext, true
	}
	ext := strings.ToLower(filename[strings.LastIndex(filename, ".")+1:])
	switch ext {
	case "png", "jpg", "jpeg", "gif", "webp":
		if ext == "jpeg" {
			ext = "jpg"
		}
		return "." + ext, true
	}
	return "", false
}
