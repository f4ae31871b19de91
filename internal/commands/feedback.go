package commands

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/bwmarrin/discordgo"

	"school_feedback_bot/internal/feedback"
	"school_feedback_bot/internal/livefeed"
	"school_feedback_bot/internal/notify"
	"school_feedback_bot/internal/utils"
)

// FeedbackCommand accepts a complaint or suggestion in a single slash
// invocation: kind, location and text arrive as typed options, so no
// dialogue state machine is needed.
type FeedbackCommand struct {
	svc      *feedback.Service
	limiter  *utils.SubmitLimiter
	notifier *notify.Notifier
	feed     *livefeed.Hub
}

func NewFeedbackCommand(svc *feedback.Service, limiter *utils.SubmitLimiter, notifier *notify.Notifier, feed *livefeed.Hub) *FeedbackCommand {
	return &FeedbackCommand{svc: svc, limiter: limiter, notifier: notifier, feed: feed}
}

func (c *FeedbackCommand) Name() string {
	return "feedback"
}

func (c *FeedbackCommand) Description() string {
	return "Submit an anonymous complaint or suggestion for a school location"
}

func (c *FeedbackCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	_, err := s.ChannelMessageSend(m.ChannelID, "Please use the /feedback slash command to submit a report.")
	return err
}

func (c *FeedbackCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var kind, body string
	var locationID int
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "kind":
			kind = opt.StringValue()
		case "location":
			locationID = int(opt.IntValue())
		case "text":
			body = opt.StringValue()
		}
	}

	user := interactionUser(i)
	if user == nil {
		return respondText(s, i, "❌ Could not identify the submitter.", true)
	}

	if !c.limiter.Allow(user.ID) {
		return respondText(s, i, "⏳ You are submitting too quickly. Please wait a minute and try again.", true)
	}

	rep, err := c.svc.SubmitReport(kind, locationID, body, user.ID, user.Username)
	if err != nil {
		if errors.Is(err, feedback.ErrUnknownLocation) {
			return respondText(s, i, "❌ **Unknown location.** Please pick one of the locations from the list.", true)
		}
		var verr *feedback.ValidationError
		if errors.As(err, &verr) {
			return respondText(s, i, correctivePrompt(verr), true)
		}
		log.WithError(err).Error("report submission failed")
		return respondText(s, i, "❌ Your report could not be saved. Please try again later.", true)
	}

	loc := c.svc.Location(rep.LocationID)
	counts := c.svc.Counts()[rep.LocationID]

	go c.notifier.NotifyNewReport(s, rep, loc)
	if c.feed != nil {
		c.feed.Publish(livefeed.Event{
			Kind:         rep.Kind,
			LocationID:   rep.LocationID,
			LocationName: loc.Name,
			Text:         c.svc.DisplayText(rep.Text),
			Complaints:   counts.Complaints,
			Suggestions:  counts.Suggestions,
			CreatedAt:    rep.CreatedAt,
		})
	}

	kindLabel := "🔴 Complaint"
	if rep.Kind == feedback.KindSuggestion {
		kindLabel = "🟢 Suggestion"
	}
	confirmation := fmt.Sprintf(
		"✅ **%s saved** for %s %s\n\nShown to others as:\n> %s\n\nYour report is anonymous — other users never see your name.",
		kindLabel, loc.Glyph, loc.Name, c.svc.DisplayText(rep.Text),
	)
	return respondText(s, i, confirmation, true)
}

func (c *FeedbackCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "kind",
				Description: "Complaint or suggestion",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "🔴 Complaint", Value: feedback.KindComplaint},
					{Name: "🟢 Suggestion", Value: feedback.KindSuggestion},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "location",
				Description: "The school location the report is about",
				Required:    true,
				Choices:     locationChoices(c.svc),
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Describe the problem or idea (5-1000 characters)",
				Required:    true,
			},
		},
	}
}

func locationChoices(svc *feedback.Service) []*discordgo.ApplicationCommandOptionChoice {
	locs := svc.Locations()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(locs))
	for _, loc := range locs {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s %s", loc.Glyph, loc.Name),
			Value: loc.ID,
		})
	}
	return choices
}

func correctivePrompt(verr *feedback.ValidationError) string {
	switch verr.Field {
	case "body":
		return "❌ **Your text is too short or too long.** Please describe the problem or idea in 5 to 1000 characters."
	default:
		return "❌ " + verr.Error()
	}
}
