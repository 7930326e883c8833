package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		t.Fatal(err)
	}
	return &d
}

func mustInsertHike(t *testing.T, db *DB, row HikeRow) int64 {
	t.Helper()
	id, err := db.UpsertHike(row)
	if err != nil {
		t.Fatalf("UpsertHike: %v", err)
	}
	return id
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	for _, table := range []string{"hikes", "observations", "media"} {
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestUpsertAndGetHike(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{
		Name:       "Besseggen Ridge",
		Location:   "Jotunheimen, Norway",
		Date:       date(t, "2024-08-03"),
		Parking:    true,
		LengthKm:   14.0,
		Difficulty: "hard",
		Terrain:    "exposed ridge",
	})
	if id == 0 {
		t.Fatal("expected nonzero id")
	}

	h, err := db.GetHike(id)
	if err != nil {
		t.Fatalf("GetHike: %v", err)
	}
	if h.Name != "Besseggen Ridge" || h.LengthKm != 14.0 || !h.Parking {
		t.Errorf("unexpected hike: %+v", h)
	}
	if h.Date == nil || h.Date.Format(dateLayout) != "2024-08-03" {
		t.Errorf("date did not round-trip: %v", h.Date)
	}
	if h.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}
}

func TestUpsertExplicitIDReplacesAllButCreatedAt(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "Old", Location: "A", LengthKm: 1, Difficulty: "easy"})

	orig, _ := db.GetHike(id)

	_, err := db.UpsertHike(HikeRow{
		ID: id, Name: "New", Location: "B", LengthKm: 2, Difficulty: "hard",
		Date: date(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("UpsertHike replace: %v", err)
	}

	h, _ := db.GetHike(id)
	if h.Name != "New" || h.Location != "B" || h.LengthKm != 2 {
		t.Errorf("replace did not apply: %+v", h)
	}
	if !h.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("created_at changed on replace: %v vs %v", h.CreatedAt, orig.CreatedAt)
	}

	n, _ := db.CountHikes()
	if n != 1 {
		t.Errorf("expected 1 hike after replace, got %d", n)
	}
}

func TestUpsertIdempotent(t *testing.T) {
	db := testDB(t)
	row := HikeRow{Name: "Loop", Location: "Here", LengthKm: 5, Difficulty: "easy"}
	id := mustInsertHike(t, db, row)

	row.ID = id
	if _, err := db.UpsertHike(row); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if _, err := db.UpsertHike(row); err != nil {
		t.Fatalf("third upsert: %v", err)
	}

	n, _ := db.CountHikes()
	if n != 1 {
		t.Errorf("expected 1 hike, got %d", n)
	}
}

func TestGetHike_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetHike(999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteHikeCascades(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "Cascade", Location: "X", LengthKm: 3, Difficulty: "easy"})

	if _, err := db.InsertObservation(ObservationRow{HikeID: id, Text: "saw a deer"}); err != nil {
		t.Fatalf("InsertObservation: %v", err)
	}
	if _, err := db.InsertMedia(MediaRow{HikeID: id, URI: "abc123.jpg", MimeType: "image/jpeg"}); err != nil {
		t.Fatalf("InsertMedia: %v", err)
	}

	if err := db.DeleteHike(id); err != nil {
		t.Fatalf("DeleteHike: %v", err)
	}

	obs, err := db.Observations(id)
	if err != nil {
		t.Fatalf("Observations: %v", err)
	}
	if len(obs) != 0 {
		t.Errorf("expected 0 observations after cascade, got %d", len(obs))
	}
	media, err := db.MediaForHike(id)
	if err != nil {
		t.Fatalf("MediaForHike: %v", err)
	}
	if len(media) != 0 {
		t.Errorf("expected 0 media after cascade, got %d", len(media))
	}
}

func TestDeleteHike_NotFound(t *testing.T) {
	db := testDB(t)
	if err := db.DeleteHike(42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOrphanChildRejected(t *testing.T) {
	db := testDB(t)
	if _, err := db.InsertObservation(ObservationRow{HikeID: 777, Text: "orphan"}); !errors.Is(err, apperr.ErrConstraint) {
		t.Errorf("expected ErrConstraint for orphan observation, got %v", err)
	}
	if _, err := db.InsertMedia(MediaRow{HikeID: 777, URI: "x.jpg"}); !errors.Is(err, apperr.ErrConstraint) {
		t.Errorf("expected ErrConstraint for orphan media, got %v", err)
	}
}

func TestClosedStore(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "A", Location: "B", LengthKm: 1, Difficulty: "easy"})
	db.Close()

	if _, err := db.GetHike(id); !errors.Is(err, apperr.ErrStoreClosed) {
		t.Errorf("GetHike after close: expected ErrStoreClosed, got %v", err)
	}
	if _, err := db.UpsertHike(HikeRow{Name: "C", Location: "D", LengthKm: 1, Difficulty: "easy"}); !errors.Is(err, apperr.ErrStoreClosed) {
		t.Errorf("UpsertHike after close: expected ErrStoreClosed, got %v", err)
	}
	if _, err := db.SearchHikes(Filter{}); !errors.Is(err, apperr.ErrStoreClosed) {
		t.Errorf("SearchHikes after close: expected ErrStoreClosed, got %v", err)
	}
}

func seedSearchFixture(t *testing.T, db *DB) {
	t.Helper()
	mustInsertHike(t, db, HikeRow{
		Name: "Doi Inthanon Summit Loop", Location: "Chiang Mai, Thailand",
		Date: date(t, "2025-01-12"), LengthKm: 8.4, Difficulty: "moderate",
	})
	mustInsertHike(t, db, HikeRow{
		Name: "Doi Suthep Monk's Trail", Location: "Chiang Mai, Thailand",
		Date: date(t, "2025-05-09"), LengthKm: 4.2, Difficulty: "easy",
	})
	mustInsertHike(t, db, HikeRow{
		Name: "Besseggen Ridge", Location: "Jotunheimen, Norway",
		Date: date(t, "2024-08-03"), LengthKm: 14.0, Difficulty: "hard",
	})
	mustInsertHike(t, db, HikeRow{
		Name: "Unplanned Wander", Location: "Somewhere",
		LengthKm: 2.0, Difficulty: "easy",
	})
}

func TestSearchHikes_EmptyFilterReturnsAllOrdered(t *testing.T) {
	db := testDB(t)
	seedSearchFixture(t, db)

	hikes, err := db.SearchHikes(Filter{})
	if err != nil {
		t.Fatalf("SearchHikes: %v", err)
	}
	if len(hikes) != 4 {
		t.Fatalf("expected 4 hikes, got %d", len(hikes))
	}
	want := []string{"Doi Suthep Monk's Trail", "Doi Inthanon Summit Loop", "Besseggen Ridge", "Unplanned Wander"}
	for i, name := range want {
		if hikes[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, hikes[i].Name, name)
		}
	}
}

func TestSearchHikes_NamePrefix(t *testing.T) {
	db := testDB(t)
	seedSearchFixture(t, db)

	name := "doi"
	hikes, err := db.SearchHikes(Filter{Name: &name})
	if err != nil {
		t.Fatalf("SearchHikes: %v", err)
	}
	if len(hikes) != 2 {
		t.Fatalf("expected 2 hikes for prefix %q, got %d", name, len(hikes))
	}

	name = "Suthep"
	hikes, _ = db.SearchHikes(Filter{Name: &name})
	if len(hikes) != 0 {
		t.Errorf("prefix match should not match mid-name, got %d results", len(hikes))
	}
}

func TestSearchHikes_LocationSubstring(t *testing.T) {
	db := testDB(t)
	seedSearchFixture(t, db)

	loc := "chiang"
	hikes, err := db.SearchHikes(Filter{Location: &loc})
	if err != nil {
		t.Fatalf("SearchHikes: %v", err)
	}
	if len(hikes) != 2 {
		t.Errorf("expected 2 hikes in %q, got %d", loc, len(hikes))
	}
}

func TestSearchHikes_Composition(t *testing.T) {
	db := testDB(t)
	seedSearchFixture(t, db)

	name := "Doi"
	min := 5.0
	hikes, err := db.SearchHikes(Filter{Name: &name, MinLength: &min})
	if err != nil {
		t.Fatalf("SearchHikes: %v", err)
	}
	if len(hikes) != 1 || hikes[0].Name != "Doi Inthanon Summit Loop" {
		t.Errorf("composed filter: got %+v", hikes)
	}

	max := 5.0
	start := date(t, "2025-01-01")
	hikes, _ = db.SearchHikes(Filter{MaxLength: &max, StartDate: start})
	if len(hikes) != 1 || hikes[0].Name != "Doi Suthep Monk's Trail" {
		t.Errorf("composed filter with date: got %+v", hikes)
	}
}

func TestSearchHikes_DateBoundsExcludeUndated(t *testing.T) {
	db := testDB(t)
	seedSearchFixture(t, db)

	start := date(t, "2000-01-01")
	hikes, err := db.SearchHikes(Filter{StartDate: start})
	if err != nil {
		t.Fatalf("SearchHikes: %v", err)
	}
	for _, h := range hikes {
		if h.Date == nil {
			t.Errorf("undated hike %q matched a date-bounded filter", h.Name)
		}
	}
	if len(hikes) != 3 {
		t.Errorf("expected 3 dated hikes, got %d", len(hikes))
	}

	end := date(t, "2024-12-31")
	hikes, _ = db.SearchHikes(Filter{EndDate: end})
	if len(hikes) != 1 || hikes[0].Name != "Besseggen Ridge" {
		t.Errorf("end-date filter: got %+v", hikes)
	}
}

func TestSearchHikes_BoundsInclusive(t *testing.T) {
	db := testDB(t)
	seedSearchFixture(t, db)

	min, max := 8.4, 8.4
	hikes, _ := db.SearchHikes(Filter{MinLength: &min, MaxLength: &max})
	if len(hikes) != 1 || hikes[0].Name != "Doi Inthanon Summit Loop" {
		t.Errorf("inclusive length bounds: got %+v", hikes)
	}

	start, end := date(t, "2025-01-12"), date(t, "2025-01-12")
	hikes, _ = db.SearchHikes(Filter{StartDate: start, EndDate: end})
	if len(hikes) != 1 || hikes[0].Name != "Doi Inthanon Summit Loop" {
		t.Errorf("inclusive date bounds: got %+v", hikes)
	}
}

func TestSearchHikes_LikeMetacharactersLiteral(t *testing.T) {
	db := testDB(t)
	mustInsertHike(t, db, HikeRow{Name: "100% Gradient", Location: "A", LengthKm: 1, Difficulty: "hard"})
	mustInsertHike(t, db, HikeRow{Name: "100m Stroll", Location: "A", LengthKm: 0.1, Difficulty: "easy"})

	name := "100%"
	hikes, err := db.SearchHikes(Filter{Name: &name})
	if err != nil {
		t.Fatalf("SearchHikes: %v", err)
	}
	if len(hikes) != 1 || hikes[0].Name != "100% Gradient" {
		t.Errorf("%% should match literally: got %+v", hikes)
	}
}

func TestResetAll(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "Gone", Location: "X", LengthKm: 1, Difficulty: "easy"})
	_, _ = db.InsertObservation(ObservationRow{HikeID: id, Text: "note"})
	_, _ = db.InsertMedia(MediaRow{HikeID: id, URI: "p.jpg"})

	if err := db.ResetAll(); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}

	n, _ := db.CountHikes()
	if n != 0 {
		t.Errorf("expected 0 hikes after reset, got %d", n)
	}
	var obs, media int
	db.conn.QueryRow(`SELECT count(*) FROM observations`).Scan(&obs)
	db.conn.QueryRow(`SELECT count(*) FROM media`).Scan(&media)
	if obs != 0 || media != 0 {
		t.Errorf("children survived reset: %d observations, %d media", obs, media)
	}
}

func TestObservationRoundTrip(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})

	at := time.Date(2025, 5, 9, 7, 30, 0, 0, time.UTC)
	oid, err := db.InsertObservation(ObservationRow{
		HikeID: id, Text: "misty at the summit", At: at,
		Comment: "bring a jacket",
		Photos:  []string{"a1b2.jpg", "c3d4.png"},
	})
	if err != nil {
		t.Fatalf("InsertObservation: %v", err)
	}

	o, err := db.GetObservation(oid)
	if err != nil {
		t.Fatalf("GetObservation: %v", err)
	}
	if o.Text != "misty at the summit" || o.Comment != "bring a jacket" {
		t.Errorf("unexpected observation: %+v", o)
	}
	if !o.At.Equal(at) {
		t.Errorf("at = %v, want %v", o.At, at)
	}
	if len(o.Photos) != 2 || o.Photos[0] != "a1b2.jpg" || o.Photos[1] != "c3d4.png" {
		t.Errorf("photos did not round-trip in order: %v", o.Photos)
	}
}

func TestObservationDefaultsTimestamp(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})

	oid, err := db.InsertObservation(ObservationRow{HikeID: id, Text: "now-ish"})
	if err != nil {
		t.Fatalf("InsertObservation: %v", err)
	}
	o, _ := db.GetObservation(oid)
	if o.At.IsZero() {
		t.Error("expected server-assigned timestamp")
	}
	if time.Since(o.At) > time.Minute {
		t.Errorf("timestamp too old: %v", o.At)
	}
}

func TestObservationsOrderedNewestFirst(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, _ = db.InsertObservation(ObservationRow{
			HikeID: id, Text: "obs", At: base.Add(time.Duration(i) * time.Hour),
		})
	}

	obs, err := db.Observations(id)
	if err != nil {
		t.Fatalf("Observations: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}
	for i := 1; i < len(obs); i++ {
		if obs[i].At.After(obs[i-1].At) {
			t.Errorf("observations out of order at %d", i)
		}
	}
}

func TestUpdateObservation(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})
	oid, _ := db.InsertObservation(ObservationRow{HikeID: id, Text: "before"})

	o, _ := db.GetObservation(oid)
	o.Text = "after"
	o.Photos = []string{"new.jpg"}
	if err := db.UpdateObservation(*o); err != nil {
		t.Fatalf("UpdateObservation: %v", err)
	}

	got, _ := db.GetObservation(oid)
	if got.Text != "after" || len(got.Photos) != 1 {
		t.Errorf("update did not apply: %+v", got)
	}

	if err := db.UpdateObservation(ObservationRow{ID: 999, HikeID: id, Text: "x", At: time.Now()}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchObservations(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})
	_, _ = db.InsertObservation(ObservationRow{HikeID: id, Text: "spotted a hornbill near the falls"})
	_, _ = db.InsertObservation(ObservationRow{HikeID: id, Text: "trail junction", Comment: "hornbill calls all morning"})
	_, _ = db.InsertObservation(ObservationRow{HikeID: id, Text: "muddy section"})

	results, err := db.SearchObservations("hornbill", 0)
	if err != nil {
		t.Fatalf("SearchObservations: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 matches across text and comment, got %d", len(results))
	}
}

func TestMediaRoundTrip(t *testing.T) {
	db := testDB(t)
	id := mustInsertHike(t, db, HikeRow{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})

	mid, err := db.InsertMedia(MediaRow{HikeID: id, URI: "deadbeef.jpg", MimeType: "image/jpeg"})
	if err != nil {
		t.Fatalf("InsertMedia: %v", err)
	}
	m, err := db.GetMedia(mid)
	if err != nil {
		t.Fatalf("GetMedia: %v", err)
	}
	if m.URI != "deadbeef.jpg" || m.MimeType != "image/jpeg" || m.AddedAt.IsZero() {
		t.Errorf("unexpected media: %+v", m)
	}

	list, _ := db.MediaForHike(id)
	if len(list) != 1 {
		t.Errorf("expected 1 media row, got %d", len(list))
	}
}

func TestDeleteMediaByURI(t *testing.T) {
	db := testDB(t)
	id1 := mustInsertHike(t, db, HikeRow{Name: "A", Location: "L", LengthKm: 1, Difficulty: "easy"})
	id2 := mustInsertHike(t, db, HikeRow{Name: "B", Location: "L", LengthKm: 2, Difficulty: "easy"})
	_, _ = db.InsertMedia(MediaRow{HikeID: id1, URI: "shared.jpg"})
	_, _ = db.InsertMedia(MediaRow{HikeID: id2, URI: "shared.jpg"})
	_, _ = db.InsertMedia(MediaRow{HikeID: id1, URI: "other.jpg"})

	removed, err := db.DeleteMediaByURI("shared.jpg")
	if err != nil {
		t.Fatalf("DeleteMediaByURI: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed rows, got %d", len(removed))
	}

	uris, _ := db.AllMediaURIs()
	if _, ok := uris["shared.jpg"]; ok {
		t.Error("shared.jpg still referenced")
	}
	if _, ok := uris["other.jpg"]; !ok {
		t.Error("other.jpg should remain")
	}
}
