package main

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"reviewbot/internal/review"
	"reviewbot/internal/store"
)

// acknowledge sends the provisional ephemeral response. All later output goes
// through finalize edits, which keeps us inside the platform's response
// window no matter how slow the store or enrichment calls are.
func (app *application) acknowledge(i *discordgo.Interaction) error {
	return app.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (app *application) finalizeText(i *discordgo.Interaction, content string) {
	_, err := app.session.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content})
	if err != nil {
		app.logger.Errorw("finalizing interaction failed", "error", err)
	}
}

func (app *application) finalizeEmbed(i *discordgo.Interaction, e *discordgo.MessageEmbed) {
	_, err := app.session.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{e},
	})
	if err != nil {
		app.logger.Errorw("finalizing interaction failed", "error", err)
	}
}

// reportError maps the service error taxonomy onto private replies. Anything
// outside the known kinds is logged and reported generically.
func (app *application) reportError(i *discordgo.Interaction, traceID string, err error) {
	var validationErr *review.ValidationError
	switch {
	case errors.As(err, &validationErr):
		app.finalizeText(i, "❌ "+validationErr.Message)
	case errors.Is(err, store.ErrNotFound):
		app.finalizeText(i, "❌ No review found with that ID (it may have been deleted).")
	case errors.Is(err, review.ErrNoChannelConfigured):
		app.finalizeText(i, "❌ No channel is configured for publishing reviews. Ask an admin to run `/config set-channel`. Your review was saved.")
	default:
		app.logger.Errorw("operation failed", "trace_id", traceID, "error", err)
		app.finalizeText(i, "❌ Something went wrong. Please try again.")
	}
}
