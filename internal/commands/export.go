package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/config"
	"school_feedback_bot/internal/feedback"
)

// ExportCommand hands administrators the full report log as a CSV
// attachment, real identities included.
type ExportCommand struct {
	svc *feedback.Service
	cfg *config.Config
}

func NewExportCommand(svc *feedback.Service, cfg *config.Config) *ExportCommand {
	return &ExportCommand{svc: svc, cfg: cfg}
}

func (c *ExportCommand) Name() string {
	return "export"
}

func (c *ExportCommand) Description() string {
	return "Admin only: download the full report log as CSV"
}

func (c *ExportCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if !c.cfg.IsAdmin(m.Author.ID) {
		_, err := s.ChannelMessageSend(m.ChannelID, adminOnlyNotice())
		return err
	}
	payload, err := c.svc.ExportCSV()
	if err != nil {
		log.WithError(err).Error("csv export failed")
		_, sendErr := s.ChannelMessageSend(m.ChannelID, exportFailureNotice())
		return sendErr
	}
	_, err = s.ChannelFileSend(m.ChannelID, exportFileName(), bytes.NewReader(payload))
	return err
}

func (c *ExportCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil || !c.cfg.IsAdmin(user.ID) {
		return respondText(s, i, adminOnlyNotice(), true)
	}

	payload, err := c.svc.ExportCSV()
	if err != nil {
		log.WithError(err).Error("csv export failed")
		return respondText(s, i, exportFailureNotice(), true)
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("📄 Full export, %d reports.", c.svc.TotalReports()),
			Flags:   discordgo.MessageFlagsEphemeral,
			Files: []*discordgo.File{{
				Name:        exportFileName(),
				ContentType: "text/csv",
				Reader:      bytes.NewReader(payload),
			}},
		},
	})
}

func (c *ExportCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func exportFileName() string {
	return fmt.Sprintf("feedback_export_%s.csv", time.Now().Format("2006-01-02"))
}

func exportFailureNotice() string {
	return "⚠️ The export could not be generated right now."
}
