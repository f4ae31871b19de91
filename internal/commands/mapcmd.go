package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/feedback"
)

// MapCommand renders the annotated floor map and attaches it.
type MapCommand struct {
	svc *feedback.Service
}

func NewMapCommand(svc *feedback.Service) *MapCommand {
	return &MapCommand{svc: svc}
}

func (c *MapCommand) Name() string {
	return "map"
}

func (c *MapCommand) Description() string {
	return "Shows the school map annotated with report counts per location"
}

func (c *MapCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	path, err := c.svc.RenderCurrentMap()
	if err != nil {
		log.WithError(err).Error("map render failed")
		_, sendErr := s.ChannelMessageSend(m.ChannelID, renderFailureNotice())
		return sendErr
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.ChannelFileSend(m.ChannelID, filepath.Base(path), f)
	return err
}

func (c *MapCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	// Rendering can take a moment, so defer first.
	if err := respondDeferred(s, i); err != nil {
		return err
	}

	path, err := c.svc.RenderCurrentMap()
	if err != nil {
		log.WithError(err).Error("map render failed")
		return followupText(s, i, renderFailureNotice())
	}

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Errorf("could not open artifact %s", path)
		return followupText(s, i, renderFailureNotice())
	}
	defer f.Close()

	total := c.svc.TotalReports()
	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("🗺️ Current report map (%d reports total). 🔴 complaints / 🟢 suggestions.", total),
		Files: []*discordgo.File{{
			Name:        filepath.Base(path),
			ContentType: "image/jpeg",
			Reader:      f,
		}},
	})
	return err
}

func (c *MapCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func renderFailureNotice() string {
	return "⚠️ The map could not be rendered right now. The report counts are still available via /locations."
}
