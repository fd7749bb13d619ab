package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"reviewbot/internal/embed"
	"reviewbot/internal/review"
	"reviewbot/internal/store"
)

// onInteraction is the single dispatch point for slash commands and buttons.
// Every path acknowledges first and finalizes exactly once; a recovered panic
// still produces a reply so the invoker is never left hanging.
func (app *application) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	traceID := uuid.NewString()
	ctx := context.Background()

	defer func() {
		if rec := recover(); rec != nil {
			app.logger.Errorw("panic during interaction", "trace_id", traceID, "panic", rec)
			app.finalizeText(i.Interaction, "❌ Something went wrong running that command.")
		}
	}()

	if err := app.acknowledge(i.Interaction); err != nil {
		app.logger.Errorw("acknowledging interaction failed", "trace_id", traceID, "error", err)
		return
	}

	if app.config.rateLimiter.Enabled {
		user := interactionUser(i)
		if allowed, retryAfter := app.rateLimiter.Allow(user.ID); !allowed {
			app.logger.Warnw("rate limit exceeded", "trace_id", traceID, "user_id", user.ID)
			app.finalizeText(i.Interaction, fmt.Sprintf("⏳ You are going too fast. Try again in %.0f seconds.", retryAfter.Seconds()))
			return
		}
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		app.logger.Infow("command received", "trace_id", traceID, "command", data.Name, "user_id", interactionUser(i).ID)
		switch data.Name {
		case "review":
			app.handleReview(ctx, i, traceID)
		case "config":
			app.handleConfig(ctx, i, traceID)
		default:
			app.finalizeText(i.Interaction, "❌ Unknown command.")
		}
	case discordgo.InteractionMessageComponent:
		app.handleButton(ctx, i, traceID)
	}
}

func (app *application) handleReview(ctx context.Context, i *discordgo.InteractionCreate, traceID string) {
	sub := i.ApplicationCommandData().Options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "add":
		app.handleReviewAdd(ctx, i, opts, traceID)
	case "view":
		app.handleReviewView(ctx, i, opts, traceID)
	case "list":
		app.handleReviewList(ctx, i, opts, traceID)
	case "edit":
		app.handleReviewEdit(ctx, i, opts, traceID)
	case "delete":
		app.handleReviewDelete(ctx, i, opts, traceID)
	case "help":
		app.finalizeText(i.Interaction, helpText)
	default:
		app.finalizeText(i.Interaction, "❌ Unknown subcommand.")
	}
}

func (app *application) handleReviewAdd(ctx context.Context, i *discordgo.InteractionCreate, opts options, traceID string) {
	user := interactionUser(i)
	in := review.CreateInput{
		RestaurantName: opts.stringValue("restaurant"),
		Rating:         opts.floatValue("rating"),
		ItemsRaw:       opts.stringValue("items"),
		Body:           opts.stringValue("review"),
		District:       opts.stringValue("district"),
	}
	author := review.Profile{
		DisplayName: user.Username,
		AvatarURL:   user.AvatarURL("512"),
	}

	result, err := app.service.Create(ctx, i.GuildID, user.ID, author, in)
	if err != nil {
		app.reportError(i.Interaction, traceID, err)
		return
	}

	id := result.Review.ID.Hex()
	if result.FoundURL != "" {
		app.finalizeText(i.Interaction, fmt.Sprintf(
			"✅ Your review was created. A URL was discovered automatically: <%s>.\nReview ID: %s",
			result.FoundURL, id))
	} else {
		app.finalizeText(i.Interaction, fmt.Sprintf(
			"✅ Your review was created. No URL was discovered automatically.\nReview ID: %s\nYou can add one later with `/review edit id:%s url:<link>`.",
			id, id))
	}
}

func (app *application) handleReviewView(ctx context.Context, i *discordgo.InteractionCreate, opts options, traceID string) {
	result, err := app.service.View(ctx, opts.stringValue("id"))
	if err != nil {
		app.reportError(i.Interaction, traceID, err)
		return
	}
	e := embed.Review(result.Review, result.Author.DisplayName, result.Author.AvatarURL, result.ImageURL)
	app.finalizeEmbed(i.Interaction, e)
}

func (app *application) handleReviewList(ctx context.Context, i *discordgo.InteractionCreate, opts options, traceID string) {
	scope := store.ListScope(opts.stringValue("filter"))
	district := opts.stringValue("district")
	page := int(opts.intValue("page"))
	if page < 1 {
		page = 1
	}

	filter := store.ListFilter{
		Scope:    scope,
		AuthorID: interactionUser(i).ID,
		District: district,
		Page:     page,
		PageSize: 10,
	}
	reviews, err := app.service.List(ctx, filter)
	if err != nil {
		app.reportError(i.Interaction, traceID, err)
		return
	}
	if len(reviews) == 0 {
		app.finalizeText(i.Interaction, fmt.Sprintf("❌ No reviews to show for those filters (filter: %s).", scope))
		return
	}
	app.finalizeEmbed(i.Interaction, embed.List(scope, district, page, reviews))
}

func (app *application) handleReviewEdit(ctx context.Context, i *discordgo.InteractionCreate, opts options, traceID string) {
	in := review.EditInput{
		ID:             opts.stringValue("id"),
		RestaurantName: opts.stringPtr("restaurant"),
		Rating:         opts.floatPtr("rating"),
		ItemsRaw:       opts.stringPtr("items"),
		Body:           opts.stringPtr("review"),
		District:       opts.stringPtr("district"),
		URL:            opts.stringPtr("url"),
		MenuLink:       opts.stringPtr("menu"),
	}

	result, err := app.service.Edit(ctx, in)
	if err != nil {
		app.reportError(i.Interaction, traceID, err)
		return
	}
	e := embed.Review(result.Review, result.Author.DisplayName, result.Author.AvatarURL, result.ImageURL)
	app.finalizeEmbed(i.Interaction, e)
}

func (app *application) handleReviewDelete(ctx context.Context, i *discordgo.InteractionCreate, opts options, traceID string) {
	id := opts.stringValue("id")
	if err := app.service.Delete(ctx, id); err != nil {
		app.reportError(i.Interaction, traceID, err)
		return
	}
	app.finalizeText(i.Interaction, fmt.Sprintf("🗑️ Review `%s` was deleted.", id))
}

func (app *application) handleConfig(ctx context.Context, i *discordgo.InteractionCreate, traceID string) {
	sub := i.ApplicationCommandData().Options[0]
	if sub.Name != "set-channel" {
		app.finalizeText(i.Interaction, "❌ Unknown subcommand.")
		return
	}
	opts := optionMap(sub.Options)
	channel := opts["channel"].ChannelValue(nil)

	if err := app.service.SetReviewChannel(ctx, i.GuildID, channel.ID); err != nil {
		app.reportError(i.Interaction, traceID, err)
		return
	}
	app.finalizeText(i.Interaction, fmt.Sprintf("🔧 Review channel set to <#%s>.", channel.ID))
}

const helpText = "**/review help** — Show this help.\n\n" +
	"**/review add** — restaurant, rating (0.5-5.0), items (comma separated, up to 12), review (20-2000 chars), district.\n" +
	"**/review view** — id: show one review in full.\n" +
	"**/review list** — filter (own | district | all), district (with filter=district), page (default 1).\n" +
	"**/review edit** — id plus any of: restaurant, rating, items, review, district, url, menu.\n" +
	"**/review delete** — id: remove a review.\n\n" +
	"Admins: **/config set-channel** — choose where new reviews are published."
