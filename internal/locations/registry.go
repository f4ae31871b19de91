package locations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"

	"school_feedback_bot/internal/utils"
)

// Location is a named physical place reports can be filed against.
// The set is read-only reference data loaded once at startup.
type Location struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Glyph       string `json:"glyph"`
	Description string `json:"description"`
}

// seedLocations is the default set written when no locations table
// exists yet.
var seedLocations = []Location{
	{ID: 1, Name: "Main Building", Glyph: "🏫", Description: "The main school building"},
	{ID: 2, Name: "Cafeteria", Glyph: "🍽", Description: "Dining hall"},
	{ID: 3, Name: "Gymnasium", Glyph: "⚽", Description: "Sports hall"},
	{ID: 4, Name: "Library", Glyph: "📚", Description: "School library"},
	{ID: 5, Name: "Computer Lab", Glyph: "🖥", Description: "Computer classroom"},
	{ID: 6, Name: "Schoolyard", Glyph: "🌳", Description: "Grounds around the school"},
	{ID: 7, Name: "Locker Rooms", Glyph: "🚿", Description: "Changing rooms and showers"},
	{ID: 8, Name: "Science Labs", Glyph: "🧪", Description: "Chemistry and physics rooms"},
	{ID: 9, Name: "Assembly Hall", Glyph: "🎭", Description: "Hall for school events"},
	{ID: 10, Name: "Corridors", Glyph: "🚪", Description: "Shared hallways and recreation areas"},
}

// Registry serves the location list and the coordinate table.
type Registry struct {
	locations []Location
	byID      map[int]Location

	coordsPath string
	coordsOnce sync.Once
	coords     map[int]Coordinate
}

// NewRegistry loads the locations table from dataDir, seeding the
// default set if the file is absent. A corrupt table degrades to the
// seed set rather than failing startup.
func NewRegistry(dataDir string) *Registry {
	r := &Registry{
		coordsPath: filepath.Join(dataDir, "map_points.json"),
	}
	r.locations = loadLocations(filepath.Join(dataDir, "locations.json"))
	r.byID = make(map[int]Location, len(r.locations))
	for _, loc := range r.locations {
		r.byID[loc.ID] = loc
	}
	return r
}

func loadLocations(path string) []Location {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if seedErr := writeLocations(path, seedLocations); seedErr != nil {
			log.WithError(seedErr).Warnf("could not seed locations table at %s", path)
		}
		return seedLocations
	}
	if err != nil {
		log.WithError(err).Errorf("could not read locations table %s, using seed set", path)
		return seedLocations
	}
	var locs []Location
	if err := json.Unmarshal(data, &locs); err != nil {
		log.WithError(err).Errorf("locations table %s is corrupt, using seed set", path)
		return seedLocations
	}
	if len(locs) == 0 {
		return seedLocations
	}
	return locs
}

func writeLocations(path string, locs []Location) error {
	data, err := json.MarshalIndent(locs, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, data)
}

// Locations returns all locations in seed order.
func (r *Registry) Locations() []Location {
	out := make([]Location, len(r.locations))
	copy(out, r.locations)
	return out
}

// Get returns the location for id. Unknown ids yield a synthetic
// placeholder so display code always has something to show.
func (r *Registry) Get(id int) Location {
	if loc, ok := r.byID[id]; ok {
		return loc
	}
	return Location{
		ID:          id,
		Name:        fmt.Sprintf("Location #%d", id),
		Glyph:       "📍",
		Description: "Unknown location",
	}
}

// Has reports whether id names a known location.
func (r *Registry) Has(id int) bool {
	_, ok := r.byID[id]
	return ok
}
