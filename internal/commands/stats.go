package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/config"
	"school_feedback_bot/internal/feedback"
)

// StatsCommand is the administrator overview: totals, per-location
// breakdown and the most recent submissions with their real identity.
type StatsCommand struct {
	svc *feedback.Service
	cfg *config.Config
}

func NewStatsCommand(svc *feedback.Service, cfg *config.Config) *StatsCommand {
	return &StatsCommand{svc: svc, cfg: cfg}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Admin only: report totals and recent submissions"
}

func (c *StatsCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if !c.cfg.IsAdmin(m.Author.ID) {
		_, err := s.ChannelMessageSend(m.ChannelID, adminOnlyNotice())
		return err
	}
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, c.buildStatsEmbed())
	return err
}

func (c *StatsCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil || !c.cfg.IsAdmin(user.ID) {
		return respondText(s, i, adminOnlyNotice(), true)
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{c.buildStatsEmbed()},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func (c *StatsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *StatsCommand) buildStatsEmbed() *discordgo.MessageEmbed {
	counts := c.svc.Counts()

	var complaints, suggestions int
	var breakdown strings.Builder
	for _, loc := range c.svc.Locations() {
		count := counts[loc.ID]
		complaints += count.Complaints
		suggestions += count.Suggestions
		if count.Complaints == 0 && count.Suggestions == 0 {
			continue
		}
		breakdown.WriteString(fmt.Sprintf("%s %s%s\n", loc.Glyph, loc.Name, TallySuffix(count)))
	}
	if breakdown.Len() == 0 {
		breakdown.WriteString("No reports yet.")
	}

	embed := &discordgo.MessageEmbed{
		Title: "📈 Feedback statistics",
		Color: 0xFEE75C,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Totals",
				Value: fmt.Sprintf("%d reports · 🔴 %d complaints · 🟢 %d suggestions",
					c.svc.TotalReports(), complaints, suggestions),
			},
			{
				Name:  "Per location",
				Value: breakdown.String(),
			},
		},
	}

	recent := c.svc.ListReports(feedback.Filter{Order: feedback.OrderRecency})
	if len(recent) > 0 {
		if len(recent) > 5 {
			recent = recent[:5]
		}
		var sb strings.Builder
		for _, rep := range recent {
			loc := c.svc.Location(rep.LocationID)
			glyph := "🔴"
			if rep.Kind == feedback.KindSuggestion {
				glyph = "🟢"
			}
			sb.WriteString(fmt.Sprintf("%s %s · %s · **%s** (%s)\n> %s\n",
				glyph, rep.CreatedAt.Format("02.01.2006 15:04"), loc.Name,
				rep.SubmitterName, rep.PublicRef, clipText(rep.Text, 120)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Most recent",
			Value: sb.String(),
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Submitter identity is visible to admins only",
	}
	return embed
}

func clipText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func adminOnlyNotice() string {
	return "🔒 This command is restricted to administrators."
}
