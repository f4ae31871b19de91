package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed down; packages never read env vars on
// their own.
type Config struct {
	Token            string
	AdminIDs         []string
	DataDir          string
	CacheDir         string
	BaseMapPath      string
	FontPaths        []string
	LogLevel         string
	LiveFeedAddr     string
	SubmitRatePerMin int
}

func Load() *Config {
	dataDir := envOr("DATA_DIR", "data")
	return &Config{
		Token:            os.Getenv("DISCORD_TOKEN"),
		AdminIDs:         splitList(os.Getenv("ADMIN_IDS")),
		DataDir:          dataDir,
		CacheDir:         envOr("CACHE_DIR", filepath.Join(dataDir, "map_cache")),
		BaseMapPath:      envOr("BASE_MAP_PATH", filepath.Join(dataDir, "school_map.png")),
		FontPaths:        splitList(os.Getenv("MAP_FONT_PATHS")),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LiveFeedAddr:     os.Getenv("LIVE_FEED_ADDR"),
		SubmitRatePerMin: envInt("SUBMIT_RATE_PER_MIN", 3),
	}
}

// IsAdmin reports whether userID is one of the configured admins.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
