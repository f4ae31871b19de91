package locations

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/apex/log"

	"school_feedback_bot/internal/utils"
)

// Coordinate is a pixel position on the base map for one location.
type Coordinate struct {
	LocationID int
	X          int
	Y          int
}

// coordEntry is the persisted shape: the table is keyed by the
// string-encoded location id, so the name rides along for operators
// editing the file by hand.
type coordEntry struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Name string `json:"name,omitempty"`
}

// seedCoordinates is the default layout written when no coordinate
// table exists, laid out for the 1280x800 placeholder canvas.
var seedCoordinates = map[int][2]int{
	1:  {400, 220},
	2:  {760, 300},
	3:  {1020, 560},
	4:  {300, 480},
	5:  {620, 470},
	6:  {1060, 180},
	7:  {880, 640},
	8:  {480, 640},
	9:  {760, 140},
	10: {600, 330},
}

// Coordinates returns the pixel position for every known location.
// Persisted entries win; any location without one gets a
// center-of-canvas default merged in memory only, so operator-tuned
// positions set later are never overwritten by this defaulting.
func (r *Registry) Coordinates(canvasW, canvasH int) map[int]Coordinate {
	r.coordsOnce.Do(func() {
		r.coords = loadCoordinates(r.coordsPath, r.locations)
	})

	out := make(map[int]Coordinate, len(r.locations))
	for _, loc := range r.locations {
		if c, ok := r.coords[loc.ID]; ok {
			out[loc.ID] = c
			continue
		}
		out[loc.ID] = Coordinate{LocationID: loc.ID, X: canvasW / 2, Y: canvasH / 2}
	}
	return out
}

func loadCoordinates(path string, locs []Location) map[int]Coordinate {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		seeded := make(map[int]Coordinate, len(locs))
		persisted := make(map[string]coordEntry, len(locs))
		for _, loc := range locs {
			pos, ok := seedCoordinates[loc.ID]
			if !ok {
				continue
			}
			seeded[loc.ID] = Coordinate{LocationID: loc.ID, X: pos[0], Y: pos[1]}
			persisted[strconv.Itoa(loc.ID)] = coordEntry{X: pos[0], Y: pos[1], Name: loc.Name}
		}
		if payload, marshalErr := json.MarshalIndent(persisted, "", "  "); marshalErr == nil {
			if writeErr := utils.WriteFileAtomic(path, payload); writeErr != nil {
				log.WithError(writeErr).Warnf("could not seed coordinate table at %s", path)
			}
		}
		return seeded
	}
	if err != nil {
		log.WithError(err).Errorf("could not read coordinate table %s", path)
		return map[int]Coordinate{}
	}

	var entries map[string]coordEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.WithError(err).Errorf("coordinate table %s is corrupt", path)
		return map[int]Coordinate{}
	}

	out := make(map[int]Coordinate, len(entries))
	for key, entry := range entries {
		id, err := strconv.Atoi(key)
		if err != nil {
			log.Warnf("coordinate table %s has non-numeric key %q", path, key)
			continue
		}
		out[id] = Coordinate{LocationID: id, X: entry.X, Y: entry.Y}
	}
	return out
}
