package feedback

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func knownLocs(ids ...int) func(int) bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id int) bool { return set[id] }
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1, 2))

	first, err := s.Append(KindComplaint, 1, "broken window", "u1", "alice")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := s.Append(KindSuggestion, 2, "more plants", "u2", "bob")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if first.PublicRef != "user_1000" || second.PublicRef != "user_1001" {
		t.Errorf("unexpected public refs: %q, %q", first.PublicRef, second.PublicRef)
	}
	if first.Status != StatusNew {
		t.Errorf("expected status %q, got %q", StatusNew, first.Status)
	}
}

func TestAppendValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))

	tests := []struct {
		name  string
		kind  string
		loc   int
		body  string
		field string
	}{
		{"unknown kind", "rant", 1, "valid body text", "kind"},
		{"too short", KindComplaint, 1, "hey", "body"},
		{"whitespace only", KindComplaint, 1, "        ", "body"},
		{"too long", KindComplaint, 1, string(make([]rune, 1001)), "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Append(tt.kind, tt.loc, tt.body, "u1", "alice")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}

	t.Run("unknown location", func(t *testing.T) {
		_, err := s.Append(KindComplaint, 99, "valid body text", "u1", "alice")
		if !errors.Is(err, ErrUnknownLocation) {
			t.Fatalf("expected ErrUnknownLocation, got %v", err)
		}
	})

	if s.Total() != 0 {
		t.Errorf("rejected submissions must not be stored, log has %d entries", s.Total())
	}
}

func TestAppendBodyBoundaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))

	if _, err := s.Append(KindComplaint, 1, "12345", "u1", "alice"); err != nil {
		t.Errorf("5-character body should be accepted: %v", err)
	}
	long := make([]rune, 1000)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := s.Append(KindComplaint, 1, string(long), "u1", "alice"); err != nil {
		t.Errorf("1000-character body should be accepted: %v", err)
	}
}

func TestAppendTrimsBeforeValidating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))

	rep, err := s.Append(KindComplaint, 1, "  fix the lights  ", "u1", "alice")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rep.Text != "fix the lights" {
		t.Errorf("expected trimmed text, got %q", rep.Text)
	}
}

func TestCountsMatchLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1, 2))

	mustAppend(t, s, KindComplaint, 1, "first complaint")
	mustAppend(t, s, KindComplaint, 1, "second complaint")
	mustAppend(t, s, KindSuggestion, 1, "one suggestion")
	mustAppend(t, s, KindSuggestion, 2, "other location")

	counts := s.Counts()
	if got := counts[1]; got.Complaints != 2 || got.Suggestions != 1 {
		t.Errorf("location 1: got %+v, want {2 1}", got)
	}
	if got := counts[2]; got.Complaints != 0 || got.Suggestions != 1 {
		t.Errorf("location 2: got %+v, want {0 1}", got)
	}
	if _, exists := counts[3]; exists {
		t.Error("location without reports must have no entry")
	}
}

func TestCountsSeeCompletedAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))

	mustAppend(t, s, KindComplaint, 1, "observed immediately")
	if got := s.Counts()[1].Complaints; got != 1 {
		t.Errorf("count after append: got %d, want 1", got)
	}
}

func TestOnMutateRunsBeforeAppendReturns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))

	fired := false
	s.SetOnMutate(func() { fired = true })

	mustAppend(t, s, KindComplaint, 1, "invalidate the cache")
	if !fired {
		t.Error("mutation hook must run before Append returns")
	}

	fired = false
	if _, err := s.Append("rant", 1, "valid body text", "u", "n"); err == nil {
		t.Fatal("expected validation error")
	}
	if fired {
		t.Error("mutation hook must not run for rejected submissions")
	}
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))
	mustAppend(t, s, KindComplaint, 1, "persisted across restarts")

	reloaded := NewStore(path, knownLocs(1))
	if reloaded.Total() != 1 {
		t.Fatalf("expected 1 report after reload, got %d", reloaded.Total())
	}
	rep := reloaded.All()[0]
	if rep.Kind != KindComplaint || rep.Text != "persisted across restarts" {
		t.Errorf("unexpected reloaded report: %+v", rep)
	}
}

func TestCorruptTableStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, knownLocs(1))
	if s.Total() != 0 {
		t.Fatalf("corrupt table must load as empty, got %d reports", s.Total())
	}
	// The store must still accept new reports afterwards.
	mustAppend(t, s, KindComplaint, 1, "works after recovery")
}

func TestListFiltersAndOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1, 2))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	mustAppend(t, s, KindComplaint, 1, "oldest complaint")
	mustAppend(t, s, KindSuggestion, 1, "a suggestion")
	mustAppend(t, s, KindComplaint, 2, "other location")
	mustAppend(t, s, KindComplaint, 1, "newest complaint")

	got := s.List(Filter{Kind: KindComplaint, LocationID: 1, Order: OrderRecency})
	if len(got) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(got))
	}
	if got[0].Text != "newest complaint" || got[1].Text != "oldest complaint" {
		t.Errorf("recency order wrong: %q then %q", got[0].Text, got[1].Text)
	}

	arrival := s.List(Filter{})
	for i := 1; i < len(arrival); i++ {
		if arrival[i].ID < arrival[i-1].ID {
			t.Fatal("arrival order must be id ascending")
		}
	}
}

func TestListRecencyTieBreaksByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	mustAppend(t, s, KindComplaint, 1, "first at same instant")
	mustAppend(t, s, KindComplaint, 1, "second at same instant")

	got := s.List(Filter{Order: OrderRecency})
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("equal timestamps must order by descending id, got %d then %d", got[0].ID, got[1].ID)
	}
}

func TestStoredJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedbacks.json")
	s := NewStore(path, knownLocs(1))
	mustAppend(t, s, KindSuggestion, 1, "check the wire shape")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("stored table is not valid JSON: %v", err)
	}
	if raw[0]["type"] != KindSuggestion {
		t.Errorf("kind must persist under the \"type\" key, got %v", raw[0]["type"])
	}
	if raw[0]["public_ref"] != "user_1000" {
		t.Errorf("unexpected public_ref: %v", raw[0]["public_ref"])
	}
}

func mustAppend(t *testing.T, s *Store, kind string, loc int, body string) Report {
	t.Helper()
	rep, err := s.Append(kind, loc, body, "u1", "alice")
	if err != nil {
		t.Fatalf("Append(%q, %d, %q): %v", kind, loc, body, err)
	}
	return rep
}
