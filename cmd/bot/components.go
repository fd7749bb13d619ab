package main

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"reviewbot/internal/embed"
	"reviewbot/internal/review"
)

// handleButton toggles a like/dislike reaction and refreshes the button row
// on the published message with the new counts.
func (app *application) handleButton(ctx context.Context, i *discordgo.InteractionCreate, traceID string) {
	customID := i.MessageComponentData().CustomID
	action, id, found := strings.Cut(customID, "_")
	if !found || (action != "like" && action != "dislike") {
		app.finalizeText(i.Interaction, "❌ Unknown button.")
		return
	}

	user := interactionUser(i)
	rev, err := app.service.ToggleReaction(ctx, id, user.ID, review.ReactionKind(action))
	if err != nil {
		app.reportError(i.Interaction, traceID, err)
		return
	}

	row := embed.ReactionRow(rev)
	_, err = app.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         i.Message.ID,
		Components: &row,
	})
	if err != nil {
		app.logger.Errorw("updating reaction row failed", "trace_id", traceID, "review_id", id, "error", err)
	}

	app.finalizeText(i.Interaction, "✅ Your reaction was recorded.")
}
