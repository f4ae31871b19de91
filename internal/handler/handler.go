package handler

import (
	"school_feedback_bot/internal/commands"
	"school_feedback_bot/internal/config"
	"school_feedback_bot/internal/feedback"
	"school_feedback_bot/internal/livefeed"
	"school_feedback_bot/internal/notify"
	"school_feedback_bot/internal/utils"
)

type Handler struct {
	registry *commands.Registry
	prefix   string
	svc      *feedback.Service
	reports  *commands.ReportsCommand
}

func NewHandler(prefix string, svc *feedback.Service, cfg *config.Config, limiter *utils.SubmitLimiter, notifier *notify.Notifier, feed *livefeed.Hub) *Handler {
	registry := commands.NewRegistry()

	reportsCmd := commands.NewReportsCommand(svc)

	var commandsList []commands.Command
	commandsList = append(commandsList,
		commands.NewFeedbackCommand(svc, limiter, notifier, feed),
		commands.NewLocationsCommand(svc),
		reportsCmd,
		commands.NewMapCommand(svc),
		commands.NewStatsCommand(svc, cfg),
		commands.NewExportCommand(svc, cfg),
		&commands.PingCommand{},
	)
	// HelpCommand goes last so it can list everything before it.
	commandsList = append(commandsList, commands.NewHelpCommand(registry))

	for _, cmd := range commandsList {
		registry.Register(cmd)
	}

	return &Handler{
		registry: registry,
		prefix:   prefix,
		svc:      svc,
		reports:  reportsCmd,
	}
}
