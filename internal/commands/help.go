package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/version"
)

type HelpCommand struct {
	registry *Registry
}

func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Shows the available commands"
}

func (c *HelpCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, c.buildHelpEmbed())
	return err
}

func (c *HelpCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return respondEmbed(s, i, c.buildHelpEmbed())
}

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) buildHelpEmbed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📋 School feedback portal",
		Description: "Report problems or suggest improvements for any school location. " +
			"All reports are anonymous: other users never see who submitted one.\n\n" +
			"🔴 complaints · 🟢 suggestions",
		Color:  0x5865F2,
		Fields: []*discordgo.MessageEmbedField{},
	}

	for _, cmd := range c.registry.All() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🔹 " + cmd.Name(),
			Value:  cmd.Description(),
			Inline: false,
		})
	}

	if len(version.PatchNotes) > 0 {
		notes := ""
		for _, note := range version.PatchNotes {
			notes += "• " + note + "\n"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "📝 Recent changes",
			Value:  notes,
			Inline: false,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("v%s · slash commands preferred, text commands use the ! prefix", version.Version),
	}
	return embed
}
