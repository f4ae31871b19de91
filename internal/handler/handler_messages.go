package handler

import (
	"strings"

	"github.com/apex/log"
	"github.com/bwmarrin/discordgo"
)

func (h *Handler) OnMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot {
		return
	}

	if !strings.HasPrefix(m.Content, h.prefix) {
		return
	}

	content := strings.TrimPrefix(m.Content, h.prefix)
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}

	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := h.registry.Get(cmdName)
	if !exists {
		log.Debugf("unknown text command: %s", cmdName)
		return
	}

	log.WithField("command", cmdName).Info("executing text command")
	if err := cmd.ExecuteText(s, m, args); err != nil {
		log.WithError(err).Errorf("text command %s failed", cmdName)
		s.ChannelMessageSend(m.ChannelID, "An error occurred while executing the command.")
	}
}
