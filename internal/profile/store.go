// Package profile owns the profile records under review: the record model,
// the in-memory store and its verification operations.
package profile

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Matcher decides whether the name on a record corresponds to its profile.
type Matcher interface {
	MatchNames(Record) NameMatch
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(Record) NameMatch

func (f MatcherFunc) MatchNames(r Record) NameMatch { return f(r) }

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp VerifiedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is an in-memory, single-session profile collection.
//
// Mutating entry points are guarded so that at most one mutation is in
// flight; a second concurrent caller gets ErrBusy instead of waiting.
type Store struct {
	matcher Matcher
	now     func() time.Time
	guard   *semaphore.Weighted

	mu       sync.RWMutex
	profiles []Record
	nextID   int
}

// BulkResult is the outcome of a bulk status update.
type BulkResult struct {
	Updated []Record
	Errors  []error
}

// NewStore creates an empty store. matcher must not be nil.
func NewStore(matcher Matcher, opts ...Option) *Store {
	s := &Store{
		matcher: matcher,
		now:     time.Now,
		guard:   semaphore.NewWeighted(1),
		nextID:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) acquire() error {
	if !s.guard.TryAcquire(1) {
		return ErrBusy
	}
	return nil
}

func (s *Store) release() { s.guard.Release(1) }

// NextID hands out the next identifier. Ids are never reused until Reset.
func (s *Store) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// Load replaces the whole collection with records.
func (s *Store) Load(records []Record) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = cloneAll(records)
	for _, r := range records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	return nil
}

// Restore replaces the collection and the id counter, used when resuming a
// persisted session.
func (s *Store) Restore(records []Record, nextID int) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = cloneAll(records)
	s.nextID = nextID
	for _, r := range records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
	return nil
}

// Counter returns the id that the next NextID call will hand out.
func (s *Store) Counter() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// All returns a deep copy of every record in list order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.profiles)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Record{}, &NotFoundError{ID: id}
	}
	return s.profiles[i].Clone(), nil
}

// Update merges p into the record and stamps VerifiedAt.
func (s *Store) Update(id int, p Patch) (Record, error) {
	if err := s.acquire(); err != nil {
		return Record{}, err
	}
	defer s.release()
	return s.update(id, p)
}

// UpdateVerificationStatus sets the status of one record, computing its
// name match on the way.
func (s *Store) UpdateVerificationStatus(id int, status Status) (Record, error) {
	if err := s.acquire(); err != nil {
		return Record{}, err
	}
	defer s.release()
	return s.setStatus(id, status)
}

// BulkUpdateVerificationStatus applies status to each id in order. Ids that
// fail are collected in Errors and do not stop the batch.
func (s *Store) BulkUpdateVerificationStatus(ids []int, status Status) (BulkResult, error) {
	if err := s.acquire(); err != nil {
		return BulkResult{}, err
	}
	defer s.release()

	if status != StatusYes && status != StatusNo {
		return BulkResult{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var res BulkResult
	for _, id := range ids {
		r, err := s.setStatus(id, status)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Updated = append(res.Updated, r)
	}
	return res, nil
}

// Reset empties the store and restarts ids at 1. It never fails and does
// not take the mutation guard.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = nil
	s.nextID = 1
}

// Stats summarizes the current records.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.profiles)
}

func (s *Store) setStatus(id int, status Status) (Record, error) {
	if status != StatusYes && status != StatusNo {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.RLock()
	i := s.indexOf(id)
	var current Record
	if i >= 0 {
		current = s.profiles[i].Clone()
	}
	s.mu.RUnlock()
	if i < 0 {
		return Record{}, &NotFoundError{ID: id}
	}

	nm := s.matcher.MatchNames(current)
	return s.update(id, Patch{VerificationStatus: &status, NameMatch: &nm})
}

func (s *Store) update(id int, p Patch) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Record{}, &NotFoundError{ID: id}
	}

	r := &s.profiles[i]
	if p.VerificationStatus != nil {
		r.VerificationStatus = *p.VerificationStatus
	}
	if p.NameMatch != nil {
		r.NameMatch = *p.NameMatch
	}
	if p.Organization != nil {
		r.Organization = *p.Organization
	}
	if p.Notes != nil {
		n := *p.Notes
		r.Notes = &n
	}
	t := s.now()
	r.VerifiedAt = &t

	return r.Clone(), nil
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int) int {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
