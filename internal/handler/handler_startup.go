package handler

import (
	"github.com/apex/log"
	"github.com/bwmarrin/discordgo"
)

func (h *Handler) OnReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Infof("logged in as %s#%s", s.State.User.Username, s.State.User.Discriminator)
	log.WithFields(log.Fields{
		"locations": len(h.svc.Locations()),
		"reports":   h.svc.TotalReports(),
	}).Info("bot ready")

	if err := h.SyncSlashCommands(s); err != nil {
		log.WithError(err).Error("slash command sync failed")
	}
}
