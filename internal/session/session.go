// Package session drives one review pass over an uploaded set of profiles:
// upload, selection, verification, navigation, export and reset.
//
// The session owns the selection pointer, the multi-select marks and the
// session Metadata. Profile records stay owned by the injected
// profile.Store. After each mutation the new Metadata and a profile snapshot
// are handed to a Persister so a later process can resume.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/export"
	"github.com/Zuo-Peng/profile-verifier/internal/parse"
	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/google/uuid"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateReviewing
	StateExporting
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateReviewing:
		return "reviewing"
	case StateExporting:
		return "exporting"
	}
	return "unknown"
}

var (
	// ErrNoSelection is returned by Verify when no profile is selected.
	ErrNoSelection = errors.New("no profile selected")

	// ErrNoProfiles is returned by operations that need a loaded session.
	ErrNoProfiles = errors.New("no profiles loaded")
)

// Option configures a Session.
type Option func(*Session)

// WithPersister sets where snapshots are saved. Defaults to a MemoryPersister.
func WithPersister(p Persister) Option {
	return func(s *Session) { s.persist = p }
}

// WithClock overrides the time source for metadata and export names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithIDGenerator overrides the session token generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) { s.newID = gen }
}

// WithMaxFileSize limits uploads. Zero disables the check.
func WithMaxFileSize(n int64) Option {
	return func(s *Session) { s.maxFileSize = n }
}

// Session is not safe for concurrent use; callers drive it from a single
// goroutine (a CLI command or the TUI update loop).
type Session struct {
	store       *profile.Store
	persist     Persister
	now         func() time.Time
	newID       func() string
	logger      *slog.Logger
	maxFileSize int64

	state    State
	meta     *Metadata
	selected int // profile id, 0 when nothing is selected
	marks    map[int]struct{}
}

// New creates a session over store.
func New(store *profile.Store, opts ...Option) *Session {
	s := &Session{
		store:   store,
		persist: &MemoryPersister{},
		now:     time.Now,
		newID:   newSessionID,
		logger:  slog.Default(),
		marks:   make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newSessionID returns a time-ordered token.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Resume restores a persisted session. Saved metadata without a saved
// profile list is stale and gets discarded rather than retried.
func (s *Session) Resume(ctx context.Context) error {
	snap, err := s.persist.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if snap == nil || snap.Metadata == nil {
		return nil
	}
	if len(snap.Profiles) == 0 {
		s.logger.Warn("discarding session without profiles", "session_id", snap.Metadata.ID)
		if err := s.persist.Clear(ctx); err != nil {
			s.logger.Warn("clear stale session", "error", err)
		}
		return nil
	}

	if err := s.store.Restore(snap.Profiles, snap.NextID); err != nil {
		return fmt.Errorf("restore profiles: %w", err)
	}
	records := s.store.All()
	meta := snap.Metadata.Refresh(records, snap.Metadata.LastUpdated)
	s.meta = &meta
	s.state = StateReviewing
	s.clearMarks()
	s.selected = firstPendingOrFirst(records)

	s.logger.Info("session resumed",
		"session_id", meta.ID,
		"count", meta.TotalProfiles,
		"verified", meta.VerifiedCount,
	)
	return nil
}

// Upload parses r and replaces the loaded profiles with the result.
func (s *Session) Upload(ctx context.Context, name string, r io.Reader) (*parse.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := parse.Read(r, s.maxFileSize, s.store)
	if err != nil {
		s.logger.Warn("upload rejected", "file", name, "error", err)
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	if err := s.store.Load(res.Records); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	records := s.store.All()
	meta := NewMetadata(s.newID(), records, s.now())
	s.meta = &meta
	s.state = StateLoaded
	s.clearMarks()
	s.selected = firstPendingOrFirst(records)

	s.logger.Info("profiles loaded",
		"session_id", meta.ID,
		"file", name,
		"count", len(records),
		"skipped", res.Skipped,
	)
	s.save(ctx)
	return res, nil
}

// UploadFile opens path and uploads it.
func (s *Session) UploadFile(ctx context.Context, path string) (*parse.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), &parse.ParseError{Kind: parse.ReadFailure, Err: err})
	}
	defer f.Close()
	return s.Upload(ctx, filepath.Base(path), f)
}

// Select points the selection at the profile with id.
func (s *Session) Select(id int) error {
	if _, err := s.store.Get(id); err != nil {
		return err
	}
	s.selected = id
	s.touch()
	return nil
}

// Verify records status for the selected profile and advances to the next
// pending profile after it, if there is one.
func (s *Session) Verify(ctx context.Context, status profile.Status) (profile.Record, error) {
	if s.state == StateEmpty {
		return profile.Record{}, ErrNoProfiles
	}
	if s.selected == 0 {
		return profile.Record{}, ErrNoSelection
	}

	updated, err := s.store.UpdateVerificationStatus(s.selected, status)
	if err != nil {
		return profile.Record{}, fmt.Errorf("verify profile %d: %w", s.selected, err)
	}
	s.touch()

	records := s.store.All()
	cur := indexOf(records, updated.ID)
	for i := cur + 1; i < len(records); i++ {
		if records[i].Pending() {
			s.selected = records[i].ID
			break
		}
	}

	s.logger.Debug("profile verified", "profile_id", updated.ID, "status", status, "name_match", updated.NameMatch)
	s.refresh(ctx, records)
	return updated, nil
}

// Next moves the selection one profile forward. It is a no-op on the last one.
func (s *Session) Next() {
	s.step(1)
}

// Previous moves the selection one profile back. It is a no-op on the first one.
func (s *Session) Previous() {
	s.step(-1)
}

func (s *Session) step(delta int) {
	records := s.store.All()
	if len(records) == 0 {
		return
	}
	i := indexOf(records, s.selected)
	if i < 0 {
		s.selected = records[0].ID
		return
	}
	j := i + delta
	if j < 0 || j >= len(records) {
		return
	}
	s.selected = records[j].ID
	s.touch()
}

// BulkOutcome summarizes a bulk verification. Failures are counted, not
// raised.
type BulkOutcome struct {
	Updated int
	Failed  int
	Errors  []error
}

// BulkVerify applies status to ids, or to the marked profiles when ids is
// empty. Afterwards the marks are cleared and the selection moves to the
// first pending profile, if any.
func (s *Session) BulkVerify(ctx context.Context, ids []int, status profile.Status) (BulkOutcome, error) {
	if s.state == StateEmpty {
		return BulkOutcome{}, ErrNoProfiles
	}
	if len(ids) == 0 {
		ids = s.Marked()
	}

	res, err := s.store.BulkUpdateVerificationStatus(ids, status)
	if err != nil {
		return BulkOutcome{}, fmt.Errorf("bulk verify: %w", err)
	}
	s.touch()
	s.clearMarks()

	records := s.store.All()
	for _, r := range records {
		if r.Pending() {
			s.selected = r.ID
			break
		}
	}

	out := BulkOutcome{Updated: len(res.Updated), Failed: len(res.Errors), Errors: res.Errors}
	s.logger.Info("bulk verification",
		"status", status,
		"count", out.Updated,
		"failed", out.Failed,
	)
	s.refresh(ctx, records)
	return out, nil
}

// Export writes the current profiles into dir and returns the file path.
// Selection and statuses are left untouched.
func (s *Session) Export(ctx context.Context, dir string) (string, error) {
	if s.state == StateEmpty {
		return "", ErrNoProfiles
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prev := s.state
	s.state = StateExporting
	defer func() {
		if prev == StateLoaded {
			prev = StateReviewing
		}
		s.state = prev
	}()

	path, err := export.WriteFile(dir, s.store.All(), s.now())
	if err != nil {
		return "", err
	}
	s.logger.Info("results exported", "path", path, "count", s.store.Len())
	return path, nil
}

// ExportText returns the export content without writing a file.
func (s *Session) ExportText() (string, error) {
	if s.state == StateEmpty {
		return "", ErrNoProfiles
	}
	return export.ToDelimitedText(s.store.All()), nil
}

// Reset clears the store, the selection, the marks and the persisted
// session. It never fails.
func (s *Session) Reset(ctx context.Context) {
	s.store.Reset()
	s.selected = 0
	s.clearMarks()
	s.meta = nil
	s.state = StateEmpty
	if err := s.persist.Clear(ctx); err != nil {
		s.logger.Warn("clear persisted session", "error", err)
	}
	s.logger.Info("session reset")
}

// ToggleMark adds id to the multi-select set, or removes it if present.
func (s *Session) ToggleMark(id int) error {
	if _, err := s.store.Get(id); err != nil {
		return err
	}
	if _, ok := s.marks[id]; ok {
		delete(s.marks, id)
	} else {
		s.marks[id] = struct{}{}
	}
	return nil
}

// MarkAll marks every loaded profile.
func (s *Session) MarkAll() {
	for _, r := range s.store.All() {
		s.marks[r.ID] = struct{}{}
	}
}

// ClearMarks empties the multi-select set.
func (s *Session) ClearMarks() { s.clearMarks() }

// IsMarked reports whether id is in the multi-select set.
func (s *Session) IsMarked(id int) bool {
	_, ok := s.marks[id]
	return ok
}

// Marked returns the marked ids in list order.
func (s *Session) Marked() []int {
	var ids []int
	for _, r := range s.store.All() {
		if _, ok := s.marks[r.ID]; ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// Metadata returns the current metadata, or nil when no session exists.
func (s *Session) Metadata() *Metadata {
	if s.meta == nil {
		return nil
	}
	m := *s.meta
	return &m
}

// Profiles returns a copy of the loaded profiles in list order.
func (s *Session) Profiles() []profile.Record { return s.store.All() }

// Stats summarizes verification progress.
func (s *Session) Stats() profile.Stats { return s.store.Stats() }

// Current returns the selected profile.
func (s *Session) Current() (profile.Record, bool) {
	if s.selected == 0 {
		return profile.Record{}, false
	}
	r, err := s.store.Get(s.selected)
	if err != nil {
		return profile.Record{}, false
	}
	return r, true
}

// CurrentIndex returns the list position of the selection, or -1.
func (s *Session) CurrentIndex() int {
	if s.selected == 0 {
		return -1
	}
	return indexOf(s.store.All(), s.selected)
}

func (s *Session) touch() {
	if s.state == StateLoaded {
		s.state = StateReviewing
	}
}

func (s *Session) clearMarks() {
	s.marks = make(map[int]struct{})
}

// refresh recomputes the metadata after a status change and persists it.
func (s *Session) refresh(ctx context.Context, records []profile.Record) {
	if s.meta == nil {
		meta := NewMetadata(s.newID(), records, s.now())
		s.meta = &meta
	} else {
		meta := s.meta.Refresh(records, s.now())
		s.meta = &meta
	}
	s.save(ctx)
}

func (s *Session) save(ctx context.Context) {
	if s.meta == nil {
		return
	}
	m := *s.meta
	snap := Snapshot{
		Metadata: &m,
		Profiles: s.store.All(),
		NextID:   s.store.Counter(),
	}
	if err := s.persist.Save(ctx, snap); err != nil {
		s.logger.Warn("persist session", "session_id", m.ID, "error", err)
	}
}

func firstPendingOrFirst(records []profile.Record) int {
	if len(records) == 0 {
		return 0
	}
	for _, r := range records {
		if r.Pending() {
			return r.ID
		}
	}
	return records[0].ID
}

func indexOf(records []profile.Record, id int) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
