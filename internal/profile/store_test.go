package profile

import (
	"errors"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

func newTestStore(nm NameMatch) *Store {
	return NewStore(MatcherFunc(func(Record) NameMatch { return nm }), WithClock(func() time.Time { return fixedNow }))
}

func seed(t *testing.T, s *Store, n int) []Record {
	t.Helper()
	var records []Record
	for i := 0; i < n; i++ {
		records = append(records, Record{
			ID:                 s.NextID(),
			FirstName:          "First",
			LastName:           "Last",
			LinkedInURL:        "https://linkedin.com/in/first-last",
			VerificationStatus: StatusPending,
		})
	}
	if err := s.Load(records); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return records
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"yes", StatusYes, false},
		{" Y ", StatusYes, false},
		{"match", StatusYes, false},
		{"NO", StatusNo, false},
		{"no-match", StatusNo, false},
		{"pending", StatusPending, false},
		{"maybe", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Fatalf("ParseStatus(%q) err = %v, want ErrInvalidStatus", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestNextIDMonotonic(t *testing.T) {
	s := newTestStore(NameMatchYes)
	for want := 1; want <= 5; want++ {
		if got := s.NextID(); got != want {
			t.Fatalf("NextID() = %d, want %d", got, want)
		}
	}
}

func TestLoadReplacesAll(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 3)
	if err := s.Load([]Record{{ID: s.NextID(), FirstName: "A", LastName: "B", LinkedInURL: "u"}}); err != nil {
		t.Fatal(err)
	}
	all := s.All()
	if len(all) != 1 || all[0].ID != 4 {
		t.Fatalf("after reload got %+v, want one record with id 4", all)
	}
}

func TestUpdateVerificationStatus(t *testing.T) {
	s := newTestStore(NameMatchNo)
	seed(t, s, 2)

	r, err := s.UpdateVerificationStatus(2, StatusYes)
	if err != nil {
		t.Fatalf("UpdateVerificationStatus: %v", err)
	}
	if r.VerificationStatus != StatusYes {
		t.Errorf("status = %q, want yes", r.VerificationStatus)
	}
	if r.NameMatch != NameMatchNo {
		t.Errorf("name match = %q, want no", r.NameMatch)
	}
	if r.VerifiedAt == nil || !r.VerifiedAt.Equal(fixedNow) {
		t.Errorf("VerifiedAt = %v, want %v", r.VerifiedAt, fixedNow)
	}

	// other records untouched
	other, _ := s.Get(1)
	if !other.Pending() || other.VerifiedAt != nil {
		t.Errorf("record 1 changed: %+v", other)
	}
}

func TestUpdateVerificationStatusErrors(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 1)

	_, err := s.UpdateVerificationStatus(99, StatusYes)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != 99 {
		t.Fatalf("err = %v, want NotFoundError{99}", err)
	}
	if err.Error() != "profile with id 99 not found" {
		t.Errorf("message = %q", err.Error())
	}

	if _, err := s.UpdateVerificationStatus(1, StatusPending); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("pending: err = %v, want ErrInvalidStatus", err)
	}
	r, _ := s.Get(1)
	if !r.Pending() {
		t.Errorf("invalid status changed the record: %+v", r)
	}
}

func TestBulkUpdatePartialFailure(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 3)

	res, err := s.BulkUpdateVerificationStatus([]int{1, 42, 3}, StatusNo)
	if err != nil {
		t.Fatalf("BulkUpdateVerificationStatus: %v", err)
	}
	if len(res.Updated) != 2 || len(res.Errors) != 1 {
		t.Fatalf("updated=%d errors=%d, want 2/1", len(res.Updated), len(res.Errors))
	}
	if !IsNotFound(res.Errors[0]) {
		t.Errorf("error = %v, want not found", res.Errors[0])
	}

	st := s.Stats()
	want := Stats{Total: 3, Verified: 2, Matches: 0, NoMatches: 2, Pending: 1}
	if st != want {
		t.Errorf("Stats = %+v, want %+v", st, want)
	}
}

func TestBulkUpdateEmptyIDs(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 2)
	res, err := s.BulkUpdateVerificationStatus(nil, StatusYes)
	if err != nil || len(res.Updated) != 0 || len(res.Errors) != 0 {
		t.Fatalf("got %+v, %v; want empty result", res, err)
	}
}

func TestBusyGuard(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 1)

	if err := s.acquire(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateVerificationStatus(1, StatusYes); !errors.Is(err, ErrBusy) {
		t.Fatalf("concurrent update err = %v, want ErrBusy", err)
	}
	if _, err := s.BulkUpdateVerificationStatus([]int{1}, StatusYes); !errors.Is(err, ErrBusy) {
		t.Fatalf("concurrent bulk err = %v, want ErrBusy", err)
	}
	s.release()

	if _, err := s.UpdateVerificationStatus(1, StatusYes); err != nil {
		t.Fatalf("after release: %v", err)
	}
}

func TestResetRestartsIDs(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 4)
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len after reset = %d", s.Len())
	}
	if id := s.NextID(); id != 1 {
		t.Fatalf("NextID after reset = %d, want 1", id)
	}
}

func TestRestoreKeepsCounterAhead(t *testing.T) {
	s := newTestStore(NameMatchYes)
	err := s.Restore([]Record{{ID: 7, FirstName: "A", LastName: "B", LinkedInURL: "u"}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Counter(); got != 8 {
		t.Fatalf("Counter = %d, want 8", got)
	}
}

func TestAllReturnsCopies(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 1)
	if _, err := s.UpdateVerificationStatus(1, StatusYes); err != nil {
		t.Fatal(err)
	}

	all := s.All()
	all[0].FirstName = "Changed"
	*all[0].VerifiedAt = time.Time{}

	r, _ := s.Get(1)
	if r.FirstName != "First" || !r.VerifiedAt.Equal(fixedNow) {
		t.Fatalf("store mutated through All(): %+v", r)
	}
}

func TestUpdatePatch(t *testing.T) {
	s := newTestStore(NameMatchYes)
	seed(t, s, 1)
	org, notes := "Acme", "called twice"
	r, err := s.Update(1, Patch{Organization: &org, Notes: &notes})
	if err != nil {
		t.Fatal(err)
	}
	if r.Organization != "Acme" || r.Notes == nil || *r.Notes != notes {
		t.Fatalf("patch not applied: %+v", r)
	}
	if !r.Pending() {
		t.Errorf("status changed without a status patch: %q", r.VerificationStatus)
	}
	if r.VerifiedAt == nil {
		t.Errorf("VerifiedAt not stamped")
	}
}

func TestStatsPercent(t *testing.T) {
	tests := []struct {
		s    Stats
		want int
	}{
		{Stats{}, 0},
		{Stats{Total: 3, Verified: 1}, 33},
		{Stats{Total: 4, Verified: 4}, 100},
	}
	for _, tt := range tests {
		if got := tt.s.Percent(); got != tt.want {
			t.Errorf("%+v.Percent() = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		r    Record
		want string
	}{
		{Record{FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{Record{FirstName: "Jane"}, "Jane"},
		{Record{LastName: "Doe"}, "Doe"},
	}
	for _, tt := range tests {
		if got := tt.r.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}
