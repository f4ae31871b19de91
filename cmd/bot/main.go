package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"school_feedback_bot/internal/config"
	"school_feedback_bot/internal/feedback"
	"school_feedback_bot/internal/handler"
	"school_feedback_bot/internal/livefeed"
	"school_feedback_bot/internal/locations"
	"school_feedback_bot/internal/mapgen"
	"school_feedback_bot/internal/notify"
	"school_feedback_bot/internal/rendercache"
	"school_feedback_bot/internal/utils"
	"school_feedback_bot/internal/version"
)

func main() {
	// Missing .env is fine, production sets real env vars.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if cfg.Token == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}

	registry := locations.NewRegistry(cfg.DataDir)
	store := feedback.NewStore(filepath.Join(cfg.DataDir, "feedbacks.json"), registry.Has)
	fonts := mapgen.NewFontChain(cfg.FontPaths)
	renderer := mapgen.NewRenderer(cfg.BaseMapPath, cfg.CacheDir, fonts)
	cache := rendercache.New(cfg.CacheDir)
	svc := feedback.NewService(store, registry, renderer, cache)

	// Artifacts from a previous run may predate reports appended
	// while the process was down, so start from a clean cache.
	cache.InvalidateAll()

	limiter := utils.NewSubmitLimiter(cfg.SubmitRatePerMin)
	notifier := notify.NewNotifier(cfg.AdminIDs)

	var feed *livefeed.Hub
	if cfg.LiveFeedAddr != "" {
		feed = livefeed.NewHub()
		feed.Start(cfg.LiveFeedAddr)
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.WithError(err).Fatal("could not create session")
	}

	h := handler.NewHandler("!", svc, cfg, limiter, notifier, feed)
	dg.AddHandler(h.OnReady)
	dg.AddHandler(h.OnMessage)
	dg.AddHandler(h.OnInteractionCreate)

	if err := dg.Open(); err != nil {
		log.WithError(err).Fatal("could not open gateway connection")
	}
	defer dg.Close()

	log.WithFields(log.Fields{
		"version":   version.Version,
		"locations": len(registry.Locations()),
		"reports":   store.Total(),
	}).Info("school feedback bot started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
}

func setupLogging(level string) {
	log.SetHandler(text.New(os.Stderr))
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
