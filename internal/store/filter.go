package store

import (
	"strings"
	"time"
)

// Filter is a sparse set of optional hike predicates. A nil field imposes
// no constraint; active predicates are combined with AND. Name matches as
// a prefix and Location as a substring, both case-insensitively (NOCASE).
// Length and date bounds are inclusive. Hikes without a date never match
// a date-bounded filter.
type Filter struct {
	Name      *string
	Location  *string
	MinLength *float64
	MaxLength *float64
	StartDate *time.Time
	EndDate   *time.Time
}

// IsZero reports whether no predicate is active.
func (f Filter) IsZero() bool {
	return f.Name == nil && f.Location == nil &&
		f.MinLength == nil && f.MaxLength == nil &&
		f.StartDate == nil && f.EndDate == nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

// build composes the filter into a single WHERE clause with bound args.
func (f Filter) build() (string, []any) {
	var conds []string
	var args []any

	if f.Name != nil {
		conds = append(conds, `name LIKE ? ESCAPE '\' COLLATE NOCASE`)
		args = append(args, escapeLike(*f.Name)+"%")
	}
	if f.Location != nil {
		conds = append(conds, `location LIKE ? ESCAPE '\' COLLATE NOCASE`)
		args = append(args, "%"+escapeLike(*f.Location)+"%")
	}
	if f.MinLength != nil {
		conds = append(conds, `length_km >= ?`)
		args = append(args, *f.MinLength)
	}
	if f.MaxLength != nil {
		conds = append(conds, `length_km <= ?`)
		args = append(args, *f.MaxLength)
	}
	if f.StartDate != nil {
		conds = append(conds, `date IS NOT NULL AND date >= ?`)
		args = append(args, f.StartDate.UTC().Format(dateLayout))
	}
	if f.EndDate != nil {
		conds = append(conds, `date IS NOT NULL AND date <= ?`)
		args = append(args, f.EndDate.UTC().Format(dateLayout))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SearchHikes evaluates the filter as one parameterized query. Results
// are ordered by date descending; hikes without a date sort after all
// dated hikes, newest insert first.
func (db *DB) SearchHikes(f Filter) ([]HikeRow, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}

	where, args := f.build()
	rows, err := db.conn.Query(`SELECT `+hikeColumns+` FROM hikes`+where+`
		ORDER BY (date IS NULL), date DESC, id DESC`, args...)
	if err != nil {
		return nil, mapErr("search hikes", err)
	}
	defer rows.Close()

	var out []HikeRow
	for rows.Next() {
		h, err := scanHike(rows)
		if err != nil {
			return nil, mapErr("scan hike", err)
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("search hikes", err)
	}
	return out, nil
}
