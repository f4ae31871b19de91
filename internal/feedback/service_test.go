package feedback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"school_feedback_bot/internal/locations"
	"school_feedback_bot/internal/mapgen"
	"school_feedback_bot/internal/rendercache"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dataDir := t.TempDir()
	cacheDir := filepath.Join(dataDir, "map_cache")

	registry := locations.NewRegistry(dataDir)
	store := NewStore(filepath.Join(dataDir, "feedbacks.json"), registry.Has)
	renderer := mapgen.NewRenderer(filepath.Join(dataDir, "school_map.png"), cacheDir, mapgen.NewFontChain(nil))
	cache := rendercache.New(cacheDir)
	return NewService(store, registry, renderer, cache)
}

func TestRenderCurrentMapReusesArtifact(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.RenderCurrentMap()
	if err != nil {
		t.Fatalf("RenderCurrentMap: %v", err)
	}
	second, err := svc.RenderCurrentMap()
	if err != nil {
		t.Fatalf("RenderCurrentMap: %v", err)
	}
	if first != second {
		t.Errorf("unchanged aggregates must reuse the artifact: %q then %q", first, second)
	}
}

func TestSubmitInvalidatesRenderedMap(t *testing.T) {
	svc := newTestService(t)

	stale, err := svc.RenderCurrentMap()
	if err != nil {
		t.Fatalf("RenderCurrentMap: %v", err)
	}

	if _, err := svc.SubmitReport(KindComplaint, 1, "broken projector", "u1", "alice"); err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}

	// The stale artifact must already be gone when SubmitReport has
	// returned, not at some later point.
	if _, statErr := os.Stat(stale); !os.IsNotExist(statErr) {
		t.Error("stale artifact still on disk after a mutation")
	}

	fresh, err := svc.RenderCurrentMap()
	if err != nil {
		t.Fatalf("RenderCurrentMap: %v", err)
	}
	if fresh == stale {
		t.Error("render after a mutation must produce a new artifact")
	}
}

func TestRejectedSubmissionKeepsRenderedMap(t *testing.T) {
	svc := newTestService(t)

	path, err := svc.RenderCurrentMap()
	if err != nil {
		t.Fatalf("RenderCurrentMap: %v", err)
	}

	if _, err := svc.SubmitReport(KindComplaint, 1, "nah", "u1", "alice"); err == nil {
		t.Fatal("expected a validation error")
	}

	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("artifact must survive a rejected submission: %v", statErr)
	}
}

func TestServiceCountsFollowSubmissions(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.SubmitReport(KindComplaint, 2, "cafeteria queue too long", "u1", "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitReport(KindSuggestion, 2, "add a second serving line", "u2", "bob"); err != nil {
		t.Fatal(err)
	}

	c := svc.Counts()[2]
	if c.Complaints != 1 || c.Suggestions != 1 {
		t.Errorf("got %+v, want {1 1}", c)
	}
	if svc.TotalReports() != 2 {
		t.Errorf("TotalReports() = %d, want 2", svc.TotalReports())
	}
}

func TestExportCSVIncludesIdentity(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.SubmitReport(KindComplaint, 1, "window latch broken", "u42", "carol"); err != nil {
		t.Fatal(err)
	}

	payload, err := svc.ExportCSV()
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	out := string(payload)
	for _, want := range []string{"Submitter ID", "u42", "carol", "Main Building", "window latch broken", "user_1000"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}
