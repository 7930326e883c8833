package store

// Store defines the interface for entity-store operations. Consumers
// should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Store interface {
	UpsertHike(row HikeRow) (int64, error)
	GetHike(id int64) (*HikeRow, error)
	SearchHikes(f Filter) ([]HikeRow, error)
	DeleteHike(id int64) error
	ResetAll() error
	CountHikes() (int, error)

	InsertObservation(row ObservationRow) (int64, error)
	UpdateObservation(row ObservationRow) error
	DeleteObservation(id int64) error
	DeleteObservationsForHike(hikeID int64) error
	GetObservation(id int64) (*ObservationRow, error)
	Observations(hikeID int64) ([]ObservationRow, error)
	SearchObservations(query string, limit int) ([]ObservationRow, error)

	InsertMedia(row MediaRow) (int64, error)
	DeleteMedia(id int64) error
	DeleteMediaByURI(uri string) ([]MediaRow, error)
	GetMedia(id int64) (*MediaRow, error)
	MediaForHike(hikeID int64) ([]MediaRow, error)
	AllMediaURIs() (map[string]struct{}, error)

	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
