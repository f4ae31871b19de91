package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Command is the unified command interface: text (prefix) and slash
// execution plus the slash definition used for syncing.
type Command interface {
	Name() string
	Description() string
	ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error
	ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error
	// SlashDefinition returns nil for text-only commands.
	SlashDefinition() *discordgo.ApplicationCommand
}

// Registry holds registered commands by lowercase name.
type Registry struct {
	commands map[string]Command
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

func (r *Registry) Register(cmd Command) {
	key := strings.ToLower(cmd.Name())
	if _, exists := r.commands[key]; !exists {
		r.order = append(r.order, key)
	}
	r.commands[key] = cmd
}

func (r *Registry) Get(name string) (Command, bool) {
	cmd, exists := r.commands[strings.ToLower(name)]
	return cmd, exists
}

// All returns commands in registration order.
func (r *Registry) All() []Command {
	out := make([]Command, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.commands[key])
	}
	return out
}

func (r *Registry) GetSlashDefinitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0, len(r.order))
	for _, cmd := range r.All() {
		if def := cmd.SlashDefinition(); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

// interactionUser works for both guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondDeferred(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func followupText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: content,
	})
	return err
}
