package feedback

import (
	"school_feedback_bot/internal/locations"
	"school_feedback_bot/internal/mapgen"
	"school_feedback_bot/internal/rendercache"
)

// Service is the surface the bot layer talks to: submission,
// aggregates, display anonymization and map rendering, wired together
// once at startup.
type Service struct {
	store    *Store
	registry *locations.Registry
	renderer *mapgen.Renderer
	cache    *rendercache.Cache
}

// NewService wires the core components. Every mutation of the report
// log invalidates the render cache before the append call returns.
func NewService(store *Store, registry *locations.Registry, renderer *mapgen.Renderer, cache *rendercache.Cache) *Service {
	store.SetOnMutate(cache.InvalidateAll)
	return &Service{
		store:    store,
		registry: registry,
		renderer: renderer,
		cache:    cache,
	}
}

// SubmitReport validates and stores a report.
func (s *Service) SubmitReport(kind string, locationID int, body, submitterID, submitterName string) (Report, error) {
	return s.store.Append(kind, locationID, body, submitterID, submitterName)
}

// Counts returns the per-location tallies.
func (s *Service) Counts() Counts {
	return s.store.Counts()
}

// ListReports returns reports matching the filter, anonymization left
// to the caller.
func (s *Service) ListReports(f Filter) []Report {
	return s.store.List(f)
}

// DisplayText anonymizes a report body for public display.
func (s *Service) DisplayText(body string) string {
	return AnonymizeForDisplay(body, DisplayMaxLength)
}

// Location resolves a location id, falling back to a placeholder.
func (s *Service) Location(id int) locations.Location {
	return s.registry.Get(id)
}

// Locations returns all known locations in seed order.
func (s *Service) Locations() []locations.Location {
	return s.registry.Locations()
}

// TotalReports returns the size of the report log.
func (s *Service) TotalReports() int {
	return s.store.Total()
}

// RenderCurrentMap returns the path of an annotated map artifact for
// the current aggregates. A still-valid artifact from a recent render
// is reused; otherwise a fresh one is rendered, tracked and the cache
// pruned.
func (s *Service) RenderCurrentMap() (string, error) {
	if path, ok := s.cache.Latest(); ok {
		return path, nil
	}

	counts := s.store.Counts()
	tallies := make(map[int]mapgen.Tally, len(counts))
	for id, c := range counts {
		tallies[id] = mapgen.Tally{Complaints: c.Complaints, Suggestions: c.Suggestions}
	}

	w, h := s.renderer.CanvasSize()
	path, err := s.renderer.Render(tallies, s.registry.Coordinates(w, h))
	if err != nil {
		return "", err
	}
	s.cache.Track(path)
	s.cache.Prune(rendercache.DefaultKeep)
	return path, nil
}
