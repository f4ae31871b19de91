package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/feedback"
)

// LocationsCommand lists every location with its current tallies, the
// way the original menu labelled its buttons: "Name (🔴X 🟢Y)" with
// zero counts omitted.
type LocationsCommand struct {
	svc *feedback.Service
}

func NewLocationsCommand(svc *feedback.Service) *LocationsCommand {
	return &LocationsCommand{svc: svc}
}

func (c *LocationsCommand) Name() string {
	return "locations"
}

func (c *LocationsCommand) Description() string {
	return "Lists school locations with their complaint and suggestion counts"
}

func (c *LocationsCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, c.buildEmbed())
	return err
}

func (c *LocationsCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return respondEmbed(s, i, c.buildEmbed())
}

func (c *LocationsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *LocationsCommand) buildEmbed() *discordgo.MessageEmbed {
	counts := c.svc.Counts()

	var sb strings.Builder
	for _, loc := range c.svc.Locations() {
		count := counts[loc.ID]
		sb.WriteString(fmt.Sprintf("%s **%s**%s\n%s\n\n", loc.Glyph, loc.Name, TallySuffix(count), loc.Description))
	}

	return &discordgo.MessageEmbed{
		Title:       "📊 School locations",
		Description: sb.String(),
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "🔴 complaints · 🟢 suggestions · use /reports to read them",
		},
	}
}

// TallySuffix formats a tally for appending to a location name:
// " (🔴3 🟢5)", " (🔴3)", " (🟢5)" or "" when both are zero.
func TallySuffix(c feedback.Count) string {
	switch {
	case c.Complaints > 0 && c.Suggestions > 0:
		return fmt.Sprintf(" (🔴%d 🟢%d)", c.Complaints, c.Suggestions)
	case c.Complaints > 0:
		return fmt.Sprintf(" (🔴%d)", c.Complaints)
	case c.Suggestions > 0:
		return fmt.Sprintf(" (🟢%d)", c.Suggestions)
	default:
		return ""
	}
}
