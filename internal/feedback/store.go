package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"

	"school_feedback_bot/internal/utils"
)

const (
	KindComplaint  = "complaint"
	KindSuggestion = "suggestion"

	// StatusNew is the status every accepted report starts in.
	StatusNew = "new"

	minBodyLen = 5
	maxBodyLen = 1000

	// publicRefBase offsets public refs so they are not trivially
	// confused with report ids.
	publicRefBase = 1000
)

// Report is one accepted complaint or suggestion. Reports are
// append-only: once accepted they are never edited or deleted.
type Report struct {
	ID            int       `json:"id"`
	Kind          string    `json:"type"`
	LocationID    int       `json:"location_id"`
	Text          string    `json:"text"`
	SubmitterID   string    `json:"submitter_id,omitempty"`
	SubmitterName string    `json:"submitter_name,omitempty"`
	PublicRef     string    `json:"public_ref"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`
}

// Count is the per-location tally of both report kinds.
type Count struct {
	Complaints  int
	Suggestions int
}

// Counts maps location id to its tally. Locations without reports have
// no entry.
type Counts map[int]Count

// ErrUnknownLocation rejects submissions against location ids the
// registry does not know.
var ErrUnknownLocation = errors.New("unknown location")

// ValidationError reports caller-supplied data violating the
// submission contract. It is always recoverable by the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// List ordering.
const (
	OrderArrival = "arrival"
	OrderRecency = "recency"
)

// Filter selects reports for List. Zero values match everything.
type Filter struct {
	Kind       string
	LocationID int
	Order      string
}

// Store is the append-only report log backed by a JSON table. A single
// mutex serializes every read-modify-write so concurrent handlers can
// never observe a half-updated log or lose an append.
type Store struct {
	mu       sync.Mutex
	path     string
	reports  []Report
	knownLoc func(int) bool
	onMutate func()
	now      func() time.Time
}

// NewStore loads the report table at path. A missing file means an
// empty log; a corrupt file degrades to an empty log with the
// condition logged, never a crash.
func NewStore(path string, knownLoc func(int) bool) *Store {
	s := &Store{
		path:     path,
		knownLoc: knownLoc,
		now:      time.Now,
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s
	}
	if err != nil {
		log.WithError(err).Errorf("could not read report table %s, starting empty", path)
		return s
	}
	if len(data) == 0 {
		return s
	}
	if err := json.Unmarshal(data, &s.reports); err != nil {
		log.WithError(err).Errorf("report table %s is corrupt, starting empty", path)
		s.reports = nil
	}
	return s
}

// SetOnMutate registers a hook invoked synchronously after every
// successful append, before Append returns. The render cache hangs its
// invalidation here.
func (s *Store) SetOnMutate(fn func()) {
	s.mu.Lock()
	s.onMutate = fn
	s.mu.Unlock()
}

// Append validates and stores a new report. The report is durably
// persisted before Append returns; on a persist failure the in-memory
// log keeps its prior state and the error is surfaced.
func (s *Store) Append(kind string, locationID int, body, submitterID, submitterName string) (Report, error) {
	if kind != KindComplaint && kind != KindSuggestion {
		return Report{}, &ValidationError{Field: "kind", Message: "must be complaint or suggestion"}
	}
	body = strings.TrimSpace(body)
	if n := len([]rune(body)); n < minBodyLen || n > maxBodyLen {
		return Report{}, &ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("length must be between %d and %d characters", minBodyLen, maxBodyLen),
		}
	}
	if s.knownLoc != nil && !s.knownLoc(locationID) {
		return Report{}, fmt.Errorf("location #%d: %w", locationID, ErrUnknownLocation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rep := Report{
		ID:            len(s.reports) + 1,
		Kind:          kind,
		LocationID:    locationID,
		Text:          body,
		SubmitterID:   submitterID,
		SubmitterName: submitterName,
		PublicRef:     fmt.Sprintf("user_%d", len(s.reports)+publicRefBase),
		CreatedAt:     s.now(),
		Status:        StatusNew,
	}

	s.reports = append(s.reports, rep)
	if err := s.persistLocked(); err != nil {
		s.reports = s.reports[:len(s.reports)-1]
		log.WithError(err).Errorf("could not persist report table %s", s.path)
		return Report{}, fmt.Errorf("persist report: %w", err)
	}

	if s.onMutate != nil {
		s.onMutate()
	}
	return rep, nil
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.reports, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(s.path, data)
}

// Counts tallies complaints and suggestions per location by scanning
// the full log. The scan runs under the store mutex, so a Counts call
// issued after a completed Append always sees that append.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(Counts)
	for _, rep := range s.reports {
		c := counts[rep.LocationID]
		switch rep.Kind {
		case KindComplaint:
			c.Complaints++
		case KindSuggestion:
			c.Suggestions++
		}
		counts[rep.LocationID] = c
	}
	return counts
}

// Total returns the number of accepted reports.
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// List returns reports matching the filter. Filters are conjunctive.
// Arrival order is id ascending; recency is created-at descending with
// ties broken by descending id.
func (s *Store) List(f Filter) []Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Report
	for _, rep := range s.reports {
		if f.Kind != "" && rep.Kind != f.Kind {
			continue
		}
		if f.LocationID != 0 && rep.LocationID != f.LocationID {
			continue
		}
		out = append(out, rep)
	}

	if f.Order == OrderRecency {
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
	}
	return out
}

// All returns a copy of the full log in arrival order.
func (s *Store) All() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}
