// Package journal is the repository layer: it maps storage rows to domain
// values, exposes the mutation surface, and delivers live result snapshots
// to subscribers after every committed change.
package journal

import (
	"sync"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/store"
)

// Event names published through the sink after a committed mutation.
const (
	EventHikeCreated        = "hike.created"
	EventHikeUpdated        = "hike.updated"
	EventHikeDeleted        = "hike.deleted"
	EventObservationCreated = "observation.created"
	EventObservationUpdated = "observation.updated"
	EventObservationDeleted = "observation.deleted"
	EventMediaCreated       = "media.created"
	EventMediaDeleted       = "media.deleted"
	EventReset              = "journal.reset"
)

// Event describes one committed change.
type Event struct {
	Type   string `json:"type"`
	ID     int64  `json:"id,omitempty"`
	HikeID int64  `json:"hike_id,omitempty"`
}

// Sink receives events after each committed mutation. Called inline on
// the mutating goroutine; implementations must not block.
type Sink func(Event)

// Repository wraps the entity store with domain mapping and live reads.
type Repository struct {
	db   store.Store
	sink Sink

	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewRepository creates a repository over the store. sink may be nil.
func NewRepository(db store.Store, sink Sink) *Repository {
	return &Repository{
		db:   db,
		sink: sink,
		subs: make(map[*subscriber]struct{}),
	}
}

func (r *Repository) emit(ev Event) {
	if r.sink != nil {
		r.sink(ev)
	}
}

// SaveHike upserts the hike and returns it with the effective identifier.
// Validation happens before this layer; the repository only maps and stores.
func (r *Repository) SaveHike(h models.Hike) (*models.Hike, error) {
	created := h.ID == 0
	id, err := r.db.UpsertHike(rowFromHike(h))
	if err != nil {
		return nil, err
	}
	row, err := r.db.GetHike(id)
	if err != nil {
		return nil, err
	}
	out := hikeFromRow(*row)

	r.notify(topicHikes, topicHike(id))
	if created {
		r.emit(Event{Type: EventHikeCreated, ID: id})
	} else {
		r.emit(Event{Type: EventHikeUpdated, ID: id})
	}
	return &out, nil
}

// Hike returns a single hike by id.
func (r *Repository) Hike(id int64) (*models.Hike, error) {
	row, err := r.db.GetHike(id)
	if err != nil {
		return nil, err
	}
	h := hikeFromRow(*row)
	return &h, nil
}

// SearchHikes evaluates the filter; an empty filter returns every hike,
// date descending.
func (r *Repository) SearchHikes(f store.Filter) ([]models.Hike, error) {
	rows, err := r.db.SearchHikes(f)
	if err != nil {
		return nil, err
	}
	return hikesFromRows(rows), nil
}

// DeleteHike removes the hike together with its observations and media.
func (r *Repository) DeleteHike(id int64) error {
	if err := r.db.DeleteHike(id); err != nil {
		return err
	}
	r.notify(topicHikes, topicHike(id), topicObservations(id), topicMedia(id))
	r.emit(Event{Type: EventHikeDeleted, ID: id})
	return nil
}

// Reset wipes the whole journal.
func (r *Repository) Reset() error {
	if err := r.db.ResetAll(); err != nil {
		return err
	}
	r.notifyAll()
	r.emit(Event{Type: EventReset})
	return nil
}

// AddObservation inserts an observation and returns it with its id.
func (r *Repository) AddObservation(o models.Observation) (*models.Observation, error) {
	id, err := r.db.InsertObservation(rowFromObservation(o))
	if err != nil {
		return nil, err
	}
	row, err := r.db.GetObservation(id)
	if err != nil {
		return nil, err
	}
	out := observationFromRow(*row)
	r.notify(topicObservations(o.HikeID))
	r.emit(Event{Type: EventObservationCreated, ID: id, HikeID: o.HikeID})
	return &out, nil
}

// UpdateObservation replaces the full observation record.
func (r *Repository) UpdateObservation(o models.Observation) error {
	if err := r.db.UpdateObservation(rowFromObservation(o)); err != nil {
		return err
	}
	r.notify(topicObservations(o.HikeID))
	r.emit(Event{Type: EventObservationUpdated, ID: o.ID, HikeID: o.HikeID})
	return nil
}

// DeleteObservation removes one observation.
func (r *Repository) DeleteObservation(id int64) error {
	row, err := r.db.GetObservation(id)
	if err != nil {
		return err
	}
	if err := r.db.DeleteObservation(id); err != nil {
		return err
	}
	r.notify(topicObservations(row.HikeID))
	r.emit(Event{Type: EventObservationDeleted, ID: id, HikeID: row.HikeID})
	return nil
}

// DeleteObservationsForHike bulk-removes the hike's observations.
func (r *Repository) DeleteObservationsForHike(hikeID int64) error {
	if err := r.db.DeleteObservationsForHike(hikeID); err != nil {
		return err
	}
	r.notify(topicObservations(hikeID))
	r.emit(Event{Type: EventObservationDeleted, HikeID: hikeID})
	return nil
}

// Observation returns a single observation by id.
func (r *Repository) Observation(id int64) (*models.Observation, error) {
	row, err := r.db.GetObservation(id)
	if err != nil {
		return nil, err
	}
	o := observationFromRow(*row)
	return &o, nil
}

// Observations lists the hike's observations, newest first.
func (r *Repository) Observations(hikeID int64) ([]models.Observation, error) {
	rows, err := r.db.Observations(hikeID)
	if err != nil {
		return nil, err
	}
	return observationsFromRows(rows), nil
}

// SearchObservations searches free text across all observations.
func (r *Repository) SearchObservations(query string, limit int) ([]models.Observation, error) {
	rows, err := r.db.SearchObservations(query, limit)
	if err != nil {
		return nil, err
	}
	return observationsFromRows(rows), nil
}

// AddMedia inserts a media reference and returns it with its id.
func (r *Repository) AddMedia(m models.Media) (*models.Media, error) {
	id, err := r.db.InsertMedia(rowFromMedia(m))
	if err != nil {
		return nil, err
	}
	row, err := r.db.GetMedia(id)
	if err != nil {
		return nil, err
	}
	out := mediaFromRow(*row)
	r.notify(topicMedia(m.HikeID))
	r.emit(Event{Type: EventMediaCreated, ID: id, HikeID: m.HikeID})
	return &out, nil
}

// DeleteMedia removes one media reference.
func (r *Repository) DeleteMedia(id int64) error {
	row, err := r.db.GetMedia(id)
	if err != nil {
		return err
	}
	if err := r.db.DeleteMedia(id); err != nil {
		return err
	}
	r.notify(topicMedia(row.HikeID))
	r.emit(Event{Type: EventMediaDeleted, ID: id, HikeID: row.HikeID})
	return nil
}

// RemoveMediaByURI drops every media row pointing at the URI. The media
// watcher calls this when a stored photo file disappears from disk.
func (r *Repository) RemoveMediaByURI(uri string) (int, error) {
	removed, err := r.db.DeleteMediaByURI(uri)
	if err != nil {
		return 0, err
	}
	for _, m := range removed {
		r.notify(topicMedia(m.HikeID))
		r.emit(Event{Type: EventMediaDeleted, ID: m.ID, HikeID: m.HikeID})
	}
	return len(removed), nil
}

// MediaForHike lists the hike's media references, newest first.
func (r *Repository) MediaForHike(hikeID int64) ([]models.Media, error) {
	rows, err := r.db.MediaForHike(hikeID)
	if err != nil {
		return nil, err
	}
	return mediaFromRows(rows), nil
}

// Media returns a single media reference.
func (r *Repository) Media(id int64) (*models.Media, error) {
	row, err := r.db.GetMedia(id)
	if err != nil {
		return nil, err
	}
	m := mediaFromRow(*row)
	return &m, nil
}

// MediaURIs returns every URI referenced by a media row.
func (r *Repository) MediaURIs() (map[string]struct{}, error) {
	return r.db.AllMediaURIs()
}

// CountHikes reports the number of journaled hikes.
func (r *Repository) CountHikes() (int, error) {
	return r.db.CountHikes()
}

// --- row <-> domain mapping ---

func rowFromHike(h models.Hike) store.HikeRow {
	return store.HikeRow{
		ID:              h.ID,
		Name:            h.Name,
		Location:        h.Location,
		Date:            h.Date,
		Parking:         h.Parking,
		LengthKm:        h.LengthKm,
		Difficulty:      h.Difficulty,
		Description:     h.Description,
		Terrain:         h.Terrain,
		ExpectedWeather: h.ExpectedWeather,
		CreatedAt:       h.CreatedAt,
	}
}

func hikeFromRow(r store.HikeRow) models.Hike {
	return models.Hike{
		ID:              r.ID,
		Name:            r.Name,
		Location:        r.Location,
		Date:            r.Date,
		Parking:         r.Parking,
		LengthKm:        r.LengthKm,
		Difficulty:      r.Difficulty,
		Description:     r.Description,
		Terrain:         r.Terrain,
		ExpectedWeather: r.ExpectedWeather,
		CreatedAt:       r.CreatedAt,
	}
}

func hikesFromRows(rows []store.HikeRow) []models.Hike {
	out := make([]models.Hike, len(rows))
	for i, r := range rows {
		out[i] = hikeFromRow(r)
	}
	return out
}

func rowFromObservation(o models.Observation) store.ObservationRow {
	return store.ObservationRow{
		ID:      o.ID,
		HikeID:  o.HikeID,
		Text:    o.Text,
		At:      o.At,
		Comment: o.Comment,
		Photos:  o.Photos,
	}
}

func observationFromRow(r store.ObservationRow) models.Observation {
	return models.Observation{
		ID:      r.ID,
		HikeID:  r.HikeID,
		Text:    r.Text,
		At:      r.At,
		Comment: r.Comment,
		Photos:  r.Photos,
	}
}

func observationsFromRows(rows []store.ObservationRow) []models.Observation {
	out := make([]models.Observation, len(rows))
	for i, r := range rows {
		out[i] = observationFromRow(r)
	}
	return out
}

func rowFromMedia(m models.Media) store.MediaRow {
	return store.MediaRow{
		ID:       m.ID,
		HikeID:   m.HikeID,
		URI:      m.URI,
		MimeType: m.MimeType,
		AddedAt:  m.AddedAt,
	}
}

func mediaFromRow(r store.MediaRow) models.Media {
	return models.Media{
		ID:       r.ID,
		HikeID:   r.HikeID,
		URI:      r.URI,
		MimeType: r.MimeType,
		AddedAt:  r.AddedAt,
	}
}

func mediaFromRows(rows []store.MediaRow) []models.Media {
	out := make([]models.Media, len(rows))
	for i, r := range rows {
		out[i] = mediaFromRow(r)
	}
	return out
}
