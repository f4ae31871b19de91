package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/feedback"
)

const (
	reportsPageSize   = 5
	reportsPagePrefix = "reports_page:"
)

// PageRequest is the typed form of a pagination interaction. Component
// custom ids are parsed into it exactly once, at the boundary; nothing
// below this layer looks at raw id strings.
type PageRequest struct {
	Kind       string
	LocationID int
	Page       int
}

// ReportsCommand shows anonymous reports for one location, newest
// first, five per page.
type ReportsCommand struct {
	svc *feedback.Service
}

func NewReportsCommand(svc *feedback.Service) *ReportsCommand {
	return &ReportsCommand{svc: svc}
}

func (c *ReportsCommand) Name() string {
	return "reports"
}

func (c *ReportsCommand) Description() string {
	return "Reads the anonymous complaints or suggestions for a location"
}

func (c *ReportsCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	_, err := s.ChannelMessageSend(m.ChannelID, "Please use the /reports slash command.")
	return err
}

func (c *ReportsCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	req := PageRequest{Kind: feedback.KindComplaint, Page: 1}
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "kind":
			req.Kind = opt.StringValue()
		case "location":
			req.LocationID = int(opt.IntValue())
		}
	}

	embed, components := c.BuildPage(req)
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

func (c *ReportsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "kind",
				Description: "Complaints or suggestions",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "🔴 Complaints", Value: feedback.KindComplaint},
					{Name: "🟢 Suggestions", Value: feedback.KindSuggestion},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "location",
				Description: "The school location to read reports for",
				Required:    true,
				Choices:     locationChoices(c.svc),
			},
		},
	}
}

// BuildPage renders one page of the listing with its navigation row.
func (c *ReportsCommand) BuildPage(req PageRequest) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	loc := c.svc.Location(req.LocationID)
	reports := c.svc.ListReports(feedback.Filter{
		Kind:       req.Kind,
		LocationID: req.LocationID,
		Order:      feedback.OrderRecency,
	})

	kindLabel := "complaints"
	kindGlyph := "🔴"
	if req.Kind == feedback.KindSuggestion {
		kindLabel = "suggestions"
		kindGlyph = "🟢"
	}

	if len(reports) == 0 {
		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s %s", loc.Glyph, loc.Name),
			Description: fmt.Sprintf("📭 No %s yet. Be the first to file one with /feedback!", kindLabel),
			Color:       0x5865F2,
		}
		return embed, nil
	}

	total := totalPages(len(reports), reportsPageSize)
	page := clampPage(req.Page, total)
	start := (page - 1) * reportsPageSize
	end := start + reportsPageSize
	if end > len(reports) {
		end = len(reports)
	}

	var sb strings.Builder
	for idx, rep := range reports[start:end] {
		sb.WriteString(fmt.Sprintf("**%d. %s %s**\n> %s\n\n",
			start+idx+1, kindGlyph, rep.CreatedAt.Format("02.01.2006 15:04"),
			c.svc.DisplayText(rep.Text)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s — %s %s (page %d/%d)", loc.Glyph, loc.Name, kindGlyph, kindLabel, page, total),
		Description: sb.String(),
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "All reports are shown anonymously",
		},
	}

	if total <= 1 {
		return embed, nil
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀ Previous",
					Style:    discordgo.PrimaryButton,
					CustomID: encodePageID(PageRequest{Kind: req.Kind, LocationID: req.LocationID, Page: page - 1}),
					Disabled: page <= 1,
				},
				discordgo.Button{
					Label:    "Next ▶",
					Style:    discordgo.PrimaryButton,
					CustomID: encodePageID(PageRequest{Kind: req.Kind, LocationID: req.LocationID, Page: page + 1}),
					Disabled: page >= total,
				},
			},
		},
	}
	return embed, components
}

// HandleReportsPage services a pagination button press.
func (c *ReportsCommand) HandleReportsPage(s *discordgo.Session, i *discordgo.InteractionCreate, req PageRequest) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	embed, components := c.BuildPage(req)
	embeds := []*discordgo.MessageEmbed{embed}
	comps := components
	_, _ = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &comps,
	})
}

func encodePageID(req PageRequest) string {
	return fmt.Sprintf("%s%s:%d:%d", reportsPagePrefix, req.Kind, req.LocationID, req.Page)
}

// ParseReportsPageID recovers the typed request from a button custom
// id. Returns false for ids that are not pagination buttons.
func ParseReportsPageID(customID string) (PageRequest, bool) {
	if !strings.HasPrefix(customID, reportsPagePrefix) {
		return PageRequest{}, false
	}
	parts := strings.Split(strings.TrimPrefix(customID, reportsPagePrefix), ":")
	if len(parts) != 3 {
		return PageRequest{}, false
	}
	kind := parts[0]
	if kind != feedback.KindComplaint && kind != feedback.KindSuggestion {
		return PageRequest{}, false
	}
	locationID, err := strconv.Atoi(parts[1])
	if err != nil {
		return PageRequest{}, false
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return PageRequest{}, false
	}
	return PageRequest{Kind: kind, LocationID: locationID, Page: page}, true
}

func totalPages(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
