package handler

import (
	"github.com/apex/log"
	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/commands"
)

// OnInteractionCreate dispatches slash commands and component presses.
func (h *Handler) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleSlashCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.handleMessageComponent(s, i)
	default:
		log.Debugf("ignoring interaction type %d", i.Type)
	}
}

func (h *Handler) handleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cmdName := i.ApplicationCommandData().Name

	cmd, exists := h.registry.Get(cmdName)
	if !exists {
		log.Warnf("unknown slash command: %s", cmdName)
		return
	}

	log.WithField("command", cmdName).Info("executing slash command")
	if err := cmd.ExecuteSlash(s, i); err != nil {
		log.WithError(err).Errorf("slash command %s failed", cmdName)
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "An error occurred while executing the command.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
}

func (h *Handler) handleMessageComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	// Custom ids are parsed into typed requests here, once, and
	// never inspected again below this point.
	if req, ok := commands.ParseReportsPageID(customID); ok {
		h.reports.HandleReportsPage(s, i, req)
		return
	}

	log.Warnf("unknown message component: %s", customID)
}
