package journal

import (
	"context"
	"errors"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/store"
)

// Live subscriptions are keyed by query shape: the all-hikes list, one
// hike by id, and the per-hike observation and media lists. A mutation
// wakes every subscriber whose topic it touches; the subscriber then
// re-evaluates its query and pushes a fresh snapshot. Wakeups coalesce
// on a one-slot channel, so a lagging subscriber may skip intermediate
// states, but every delivered snapshot is a committed state and the last
// one always reflects the latest commit.

type topic struct {
	kind string
	id   int64
}

var topicHikes = topic{kind: "hikes"}

func topicHike(id int64) topic         { return topic{kind: "hike", id: id} }
func topicObservations(id int64) topic { return topic{kind: "observations", id: id} }
func topicMedia(id int64) topic        { return topic{kind: "media", id: id} }

type subscriber struct {
	tp   topic
	wake chan struct{}
}

func (r *Repository) subscribe(tp topic) *subscriber {
	s := &subscriber{tp: tp, wake: make(chan struct{}, 1)}
	r.mu.Lock()
	r.subs[s] = struct{}{}
	r.mu.Unlock()
	return s
}

func (r *Repository) unsubscribe(s *subscriber) {
	r.mu.Lock()
	delete(r.subs, s)
	r.mu.Unlock()
}

// notify wakes subscribers of the given topics. Non-blocking: a pending
// wake already guarantees the subscriber will see the latest state.
func (r *Repository) notify(topics ...topic) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for s := range r.subs {
		for _, tp := range topics {
			if s.tp == tp {
				select {
				case s.wake <- struct{}{}:
				default:
				}
				break
			}
		}
	}
}

// notifyAll wakes every subscriber; used by Reset, which touches all topics.
func (r *Repository) notifyAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for s := range r.subs {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// watch runs one subscription: an initial snapshot, then one re-evaluated
// snapshot per wakeup, until ctx is cancelled or cancel is called. The
// returned channel is closed on cancellation or when the store shuts down.
func watch[T any](ctx context.Context, r *Repository, tp topic, query func() (T, error)) (<-chan T, context.CancelFunc) {
	wctx, cancel := context.WithCancel(ctx)
	out := make(chan T, 1)
	sub := r.subscribe(tp)

	go func() {
		defer close(out)
		defer r.unsubscribe(sub)

		send := func() bool {
			snap, err := query()
			if err != nil {
				// Stop quietly on teardown; skip transient failures.
				return !errors.Is(err, apperr.ErrStoreClosed)
			}
			select {
			case out <- snap:
			case <-wctx.Done():
				return false
			}
			return true
		}

		if !send() {
			return
		}
		for {
			select {
			case <-wctx.Done():
				return
			case <-sub.wake:
				if !send() {
					return
				}
			}
		}
	}()

	return out, cancel
}

// WatchHikes delivers the filtered hike list, re-evaluated after every
// mutation of the hikes table. An empty filter watches the whole journal.
func (r *Repository) WatchHikes(ctx context.Context, f store.Filter) (<-chan []models.Hike, context.CancelFunc) {
	return watch(ctx, r, topicHikes, func() ([]models.Hike, error) {
		return r.SearchHikes(f)
	})
}

// WatchHike delivers the single hike record; nil once it is deleted.
func (r *Repository) WatchHike(ctx context.Context, id int64) (<-chan *models.Hike, context.CancelFunc) {
	return watch(ctx, r, topicHike(id), func() (*models.Hike, error) {
		h, err := r.Hike(id)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return h, err
	})
}

// WatchObservations delivers the hike's observation list.
func (r *Repository) WatchObservations(ctx context.Context, hikeID int64) (<-chan []models.Observation, context.CancelFunc) {
	return watch(ctx, r, topicObservations(hikeID), func() ([]models.Observation, error) {
		return r.Observations(hikeID)
	})
}

// WatchMedia delivers the hike's media list.
func (r *Repository) WatchMedia(ctx context.Context, hikeID int64) (<-chan []models.Media, context.CancelFunc) {
	return watch(ctx, r, topicMedia(hikeID), func() ([]models.Media, error) {
		return r.MediaForHike(hikeID)
	})
}
