package models

import "testing"

func validHike() Hike {
	return Hike{
		Name:       "Doi Inthanon Summit Loop",
		Location:   "Chiang Mai, Thailand",
		LengthKm:   8.4,
		Difficulty: "moderate",
	}
}

func TestValidateHike_Valid(t *testing.T) {
	h := validHike()
	if err := ValidateHike(&h); err != nil {
		t.Errorf("expected valid hike, got %q", err.Message)
	}
}

func TestValidateHike_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Hike)
		want   string
	}{
		{"empty name", func(h *Hike) { h.Name = "" }, "Name is required"},
		{"blank name", func(h *Hike) { h.Name = "   " }, "Name is required"},
		{"empty location", func(h *Hike) { h.Location = "" }, "Location is required"},
		{"blank location", func(h *Hike) { h.Location = "\t " }, "Location is required"},
		{"zero length", func(h *Hike) { h.LengthKm = 0 }, "Length must be greater than zero"},
		{"negative length", func(h *Hike) { h.LengthKm = -3.5 }, "Length must be greater than zero"},
		{"empty difficulty", func(h *Hike) { h.Difficulty = "" }, "Difficulty is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := validHike()
			tc.mutate(&h)
			err := ValidateHike(&h)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Message != tc.want {
				t.Errorf("message = %q, want %q", err.Message, tc.want)
			}
		})
	}
}

func TestValidateHike_FirstViolationWins(t *testing.T) {
	h := Hike{} // everything invalid
	err := ValidateHike(&h)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.Message != "Name is required" {
		t.Errorf("message = %q, want %q", err.Message, "Name is required")
	}

	h.Name = "X"
	if err := ValidateHike(&h); err.Message != "Location is required" {
		t.Errorf("message = %q, want %q", err.Message, "Location is required")
	}

	h.Location = "Y"
	if err := ValidateHike(&h); err.Message != "Length must be greater than zero" {
		t.Errorf("message = %q, want %q", err.Message, "Length must be greater than zero")
	}

	h.LengthKm = 1
	if err := ValidateHike(&h); err.Message != "Difficulty is required" {
		t.Errorf("message = %q, want %q", err.Message, "Difficulty is required")
	}
}

func TestValidateObservation(t *testing.T) {
	o := Observation{HikeID: 1, Text: "clear skies"}
	if err := ValidateObservation(&o); err != nil {
		t.Errorf("expected valid, got %q", err.Message)
	}

	o = Observation{Text: "no owner"}
	if err := ValidateObservation(&o); err == nil || err.Message != "Hike is required" {
		t.Errorf("expected %q, got %v", "Hike is required", err)
	}

	o = Observation{HikeID: 1, Text: "  "}
	if err := ValidateObservation(&o); err == nil || err.Message != "Text is required" {
		t.Errorf("expected %q, got %v", "Text is required", err)
	}
}

func TestValidatePlace(t *testing.T) {
	if err := ValidatePlace("Chiang Mai"); err != nil {
		t.Errorf("expected valid, got %q", err.Message)
	}
	if err := ValidatePlace("   "); err == nil || err.Message != "Place is required" {
		t.Errorf("blank place: got %v", err)
	}
	if err := ValidatePlace("x"); err == nil || err.Message != "Place must be at least 2 characters" {
		t.Errorf("short place: got %v", err)
	}
	// Multibyte names count runes, not bytes.
	if err := ValidatePlace("Ås"); err != nil {
		t.Errorf("two-rune place rejected: %q", err.Message)
	}
}

func TestValidateCoordinates(t *testing.T) {
	if err := ValidateCoordinates(18.58, 98.48); err != nil {
		t.Errorf("expected valid, got %q", err.Message)
	}
	if err := ValidateCoordinates(-90, 180); err != nil {
		t.Errorf("boundary values should be valid, got %q", err.Message)
	}
	if err := ValidateCoordinates(91, 0); err == nil || err.Message != "Latitude must be between -90 and 90" {
		t.Errorf("lat out of range: got %v", err)
	}
	if err := ValidateCoordinates(0, -181); err == nil || err.Message != "Longitude must be between -180 and 180" {
		t.Errorf("lon out of range: got %v", err)
	}
}
