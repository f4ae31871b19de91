package rendercache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// DefaultKeep is how many artifacts Prune retains after a render.
const DefaultKeep = 3

type artifact struct {
	path      string
	createdAt time.Time
}

// Cache owns every generated map artifact. Any mutation of the report
// log clears it in full; Prune bounds disk usage between mutations.
// All operations are no-ops on an empty cache or a missing directory.
type Cache struct {
	mu        sync.Mutex
	dir       string
	artifacts []artifact
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Track records a successfully rendered artifact. Failed renders must
// never be tracked; callers only pass paths they actually wrote.
func (c *Cache) Track(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts = append(c.artifacts, artifact{path: path, createdAt: time.Now()})
}

// Latest returns the most recently tracked artifact that still exists
// on disk.
func (c *Cache) Latest() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.artifacts) - 1; i >= 0; i-- {
		if _, err := os.Stat(c.artifacts[i].path); err == nil {
			return c.artifacts[i].path, true
		}
	}
	return "", false
}

// IsValid reports whether path is a currently tracked artifact.
func (c *Cache) IsValid(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.artifacts {
		if a.path == path {
			return true
		}
	}
	return false
}

// InvalidateAll deletes every tracked artifact and sweeps leftover
// artifacts from the cache directory, including those of a previous
// process run.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range c.artifacts {
		removeQuiet(a.path)
	}
	c.artifacts = nil

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "map_") && strings.HasSuffix(name, ".jpg") {
			removeQuiet(filepath.Join(c.dir, name))
		}
	}
}

// Prune deletes all but the keep most recently created artifacts.
func (c *Cache) Prune(keep int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if len(c.artifacts) <= keep {
		return
	}

	sort.Slice(c.artifacts, func(i, j int) bool {
		return c.artifacts[i].createdAt.Before(c.artifacts[j].createdAt)
	})
	victims := c.artifacts[:len(c.artifacts)-keep]
	for _, a := range victims {
		removeQuiet(a.path)
	}
	c.artifacts = append([]artifact(nil), c.artifacts[len(c.artifacts)-keep:]...)
}

func removeQuiet(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warnf("could not remove artifact %s", path)
	}
}
