package notify

import (
	"fmt"

	"github.com/apex/log"
	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/feedback"
	"school_feedback_bot/internal/locations"
)

const notifyTimeLayout = "02.01.2006 15:04"

// Notifier tells administrators about every accepted report. Admins
// see the full detail including submitter identity; delivery failures
// are logged and never surfaced to the submitter.
type Notifier struct {
	adminIDs []string
}

func NewNotifier(adminIDs []string) *Notifier {
	return &Notifier{adminIDs: adminIDs}
}

// NotifyNewReport DMs each configured admin. Runs on the submission
// path's goroutine but never returns an error to it.
func (n *Notifier) NotifyNewReport(s *discordgo.Session, rep feedback.Report, loc locations.Location) {
	if len(n.adminIDs) == 0 {
		return
	}

	kindLabel := "🔴 Complaint"
	color := 0xDC3545
	if rep.Kind == feedback.KindSuggestion {
		kindLabel = "🟢 Suggestion"
		color = 0x28A745
	}

	submitter := rep.SubmitterName
	if submitter == "" {
		submitter = "(no username)"
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📢 New report",
		Description: fmt.Sprintf("Shown anonymously to other users as `%s`.", rep.PublicRef),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Kind", Value: kindLabel, Inline: true},
			{Name: "Location", Value: fmt.Sprintf("%s %s", loc.Glyph, loc.Name), Inline: true},
			{Name: "Submitted", Value: rep.CreatedAt.Format(notifyTimeLayout), Inline: true},
			{Name: "From", Value: fmt.Sprintf("%s (ID: %s)", submitter, rep.SubmitterID), Inline: false},
			{Name: "Text", Value: clip(rep.Text, 500), Inline: false},
		},
	}

	for _, adminID := range n.adminIDs {
		channel, err := s.UserChannelCreate(adminID)
		if err != nil {
			log.WithError(err).Warnf("could not open DM channel to admin %s", adminID)
			continue
		}
		if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
			log.WithError(err).Warnf("could not notify admin %s", adminID)
		}
	}
}

func clip(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
