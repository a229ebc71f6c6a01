// Package store holds the authoritative in-memory collection of known
// jobs. The collection is mutated only through the named operations
// below; every operation is total and preserves the one-record-per-id
// invariant, so raced delivery of page fetches, detail fetches and push
// notifications can never corrupt it.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gearr/gearr-console/internal/model"
)

// Store is a mapping-like container keyed by job id. Insertion order is
// preserved: appends go to the back, upserts never reorder.
//
// The sync controller is the only writer, but its fetch completions and
// the websocket receive loop run on separate goroutines, so the Store
// serializes applies internally.
type Store struct {
	mu      sync.RWMutex
	order   []uuid.UUID
	jobs    map[uuid.UUID]model.Job
	loading bool
	lastErr error
}

// New creates an empty Store with the loading flag set, matching the
// state a view starts from before the initial fetch resolves.
func New() *Store {
	return &Store{
		jobs:    make(map[uuid.UUID]model.Job),
		loading: true,
	}
}

// BeginFetch marks the collection as loading and clears the last error.
// No data change.
func (s *Store) BeginFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.lastErr = nil
}

// ApplyFetchedPage appends jobs not yet present (by id) and upserts
// fields for jobs already present. Existing entries keep their position.
// Clears the loading flag.
func (s *Store) ApplyFetchedPage(jobs []model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range jobs {
		existing, ok := s.jobs[job.ID]
		if !ok {
			s.order = append(s.order, job.ID)
			s.jobs[job.ID] = job
			continue
		}
		s.jobs[job.ID] = merge(existing, job)
	}
	s.loading = false
}

// FailFetch clears the loading flag and records the failure. The
// collection is untouched.
func (s *Store) FailFetch(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = reason
}

// ApplyDetail upserts fields from a detail fetch onto the matching
// record. A detail for an id no longer in the collection is silently
// discarded (the job was deleted while the fetch was in flight). A
// detail older than the record's current last_update is also discarded:
// push notifications may have advanced the job while the detail
// response was in transit, and a stale response must not roll it back.
func (s *Store) ApplyDetail(id uuid.UUID, detail model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[id]
	if !ok {
		return
	}
	if !existing.LastUpdate.IsZero() && detail.LastUpdate.Before(existing.LastUpdate) {
		return
	}
	s.jobs[id] = merge(existing, detail)
}

// ApplyNotification patches status, status_message and last_update on
// the matching record, preserving all other fields. An unknown id
// synthesizes a new minimal record instead of being dropped. Applying
// the same notification twice yields the same state as applying it
// once.
func (s *Store) ApplyNotification(n model.JobUpdateNotification) {
	// An absent status means queued, on the patch path as well as the
	// synthesis path; the two must agree for duplicate delivery to be
	// a no-op.
	if n.Status == "" {
		n.Status = model.StatusQueued
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[n.ID]
	if !ok {
		s.order = append(s.order, n.ID)
		s.jobs[n.ID] = n.NewJob()
		return
	}

	existing.Status = n.Status
	existing.StatusMessage = n.Message
	existing.LastUpdate = n.EventTime
	s.jobs[n.ID] = existing
}

// ConfirmDelete removes the record. Absence of the id is not an error.
func (s *Store) ConfirmDelete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return
	}
	delete(s.jobs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reset clears the collection and sets the loading flag, ahead of a
// full reload.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.jobs = make(map[uuid.UUID]model.Job)
	s.loading = true
	s.lastErr = nil
}

// Snapshot returns copies of all jobs in insertion order. Callers may
// not reach the canonical records; Job carries only value fields, so
// the copies are independent.
func (s *Store) Snapshot() []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]model.Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, s.jobs[id])
	}
	return jobs
}

// Get returns a copy of the job with the given id.
func (s *Store) Get(id uuid.UUID) (model.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Len returns the number of jobs in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Loading reports whether a fetch is in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastErr returns the error recorded by the most recent failed fetch,
// or nil.
func (s *Store) LastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// merge overlays the non-empty fields of incoming onto existing. Bulk
// list entries and detail responses are sparse; absent fields must not
// blank out values a richer source already provided.
func merge(existing, incoming model.Job) model.Job {
	if incoming.SourcePath != "" {
		existing.SourcePath = incoming.SourcePath
	}
	if incoming.DestinationPath != "" {
		existing.DestinationPath = incoming.DestinationPath
	}
	if incoming.Status != "" {
		existing.Status = incoming.Status
		existing.StatusMessage = incoming.StatusMessage
	}
	if !incoming.LastUpdate.IsZero() {
		existing.LastUpdate = incoming.LastUpdate
	}
	return existing
}
