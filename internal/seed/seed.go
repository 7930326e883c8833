// Package seed populates an empty journal with example hikes at startup.
package seed

import (
	"log/slog"
	"time"

	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// examples is the fixed, deterministic seed set.
var examples = []models.Hike{
	{
		Name:            "Doi Inthanon Summit Loop",
		Location:        "Chiang Mai, Thailand",
		Date:            date(2025, time.January, 12),
		Parking:         true,
		LengthKm:        8.4,
		Difficulty:      "moderate",
		Description:     "Cloud forest loop past the twin pagodas.",
		Terrain:         "forest trail, boardwalk",
		ExpectedWeather: "cool and misty",
	},
	{
		Name:            "Doi Suthep Monk's Trail",
		Location:        "Chiang Mai, Thailand",
		Date:            date(2025, time.May, 9),
		Parking:         false,
		LengthKm:        4.2,
		Difficulty:      "easy",
		Description:     "Pilgrim path to Wat Pha Lat.",
		Terrain:         "jungle path",
		ExpectedWeather: "hot and humid",
	},
	{
		Name:            "Besseggen Ridge",
		Location:        "Jotunheimen, Norway",
		Date:            date(2024, time.August, 3),
		Parking:         true,
		LengthKm:        14.0,
		Difficulty:      "hard",
		Description:     "Classic ridge between Gjende and Bessvatnet.",
		Terrain:         "exposed rock, scree",
		ExpectedWeather: "windy, chance of rain",
	},
}

// Run inserts the example hikes when the journal is empty. Idempotent:
// a non-empty journal makes it a no-op. Runs before the server accepts
// traffic, so it cannot race user reads.
func Run(repo *journal.Repository, logger *slog.Logger) error {
	n, err := repo.CountHikes()
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Debug("seed: journal not empty, skipping", slog.Int("hikes", n))
		return nil
	}

	for _, h := range examples {
		if verr := models.ValidateHike(&h); verr != nil {
			// Seed data is fixed; a validation failure here is a bug.
			logger.Error("seed: invalid example", slog.String("name", h.Name), slog.String("error", verr.Message))
			continue
		}
		if _, err := repo.SaveHike(h); err != nil {
			return err
		}
	}
	logger.Info("seed: inserted example hikes", slog.Int("count", len(examples)))
	return nil
}
