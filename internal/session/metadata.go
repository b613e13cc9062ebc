package session

import (
	"context"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

// StorageKey is the well-known key the session metadata is stored under.
const StorageKey = "verificationSession"

// Metadata is the persisted summary of a review session. Values are never
// mutated in place; transitions return a new Metadata.
type Metadata struct {
	ID            string    `json:"id"`
	TotalProfiles int       `json:"totalProfiles"`
	VerifiedCount int       `json:"verifiedCount"`
	StartedAt     time.Time `json:"startedAt"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// NewMetadata starts a session over records.
func NewMetadata(id string, records []profile.Record, now time.Time) Metadata {
	return Metadata{
		ID:            id,
		TotalProfiles: len(records),
		VerifiedCount: verifiedCount(records),
		StartedAt:     now,
		LastUpdated:   now,
	}
}

// Refresh recomputes the counts from records and bumps LastUpdated.
func (m Metadata) Refresh(records []profile.Record, now time.Time) Metadata {
	m.TotalProfiles = len(records)
	m.VerifiedCount = verifiedCount(records)
	m.LastUpdated = now
	return m
}

// Remaining is the number of profiles still pending.
func (m Metadata) Remaining() int {
	return m.TotalProfiles - m.VerifiedCount
}

func verifiedCount(records []profile.Record) int {
	n := 0
	for _, r := range records {
		if !r.Pending() {
			n++
		}
	}
	return n
}

// Snapshot is everything needed to resume a session after a restart.
type Snapshot struct {
	Metadata *Metadata
	Profiles []profile.Record
	NextID   int
}

// Persister stores session snapshots durably. Load returns a nil Snapshot
// when nothing has been saved.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Clear(ctx context.Context) error
}

// MemoryPersister keeps the last snapshot in memory.
type MemoryPersister struct {
	snap *Snapshot
}

func (p *MemoryPersister) Save(_ context.Context, snap Snapshot) error {
	c := Snapshot{NextID: snap.NextID}
	if snap.Metadata != nil {
		m := *snap.Metadata
		c.Metadata = &m
	}
	for _, r := range snap.Profiles {
		c.Profiles = append(c.Profiles, r.Clone())
	}
	p.snap = &c
	return nil
}

func (p *MemoryPersister) Load(context.Context) (*Snapshot, error) {
	if p.snap == nil {
		return nil, nil
	}
	c := *p.snap
	return &c, nil
}

func (p *MemoryPersister) Clear(context.Context) error {
	p.snap = nil
	return nil
}
