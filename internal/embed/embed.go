// Package embed renders reviews into Discord embeds and component rows. All
// builders are pure: same inputs, same artifact.
package embed

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"reviewbot/internal/store"
)

const (
	accentColor    = 0xFF9900
	maxDescription = 1024
	dateLayout     = "02/01/2006 15:04"
)

// Stars renders a rating as full, half and empty star glyphs totalling five.
func Stars(rating float64) string {
	full := int(rating)
	half := 0
	if rating-float64(full) >= 0.5 {
		half = 1
	}
	empty := 5 - full - half

	var b strings.Builder
	b.WriteString(strings.Repeat("⭐️", full))
	if half == 1 {
		b.WriteString("✨")
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}

// Review builds the detail embed for a single review. The title links to the
// canonical URL and the image becomes a thumbnail, each only when the URL is
// an absolute http(s) one.
func Review(r *store.Review, authorName, avatarURL, imageURL string) *discordgo.MessageEmbed {
	items := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, "• "+item)
	}
	itemsText := strings.Join(items, "\n")
	if itemsText == "" {
		itemsText = "–"
	}

	e := &discordgo.MessageEmbed{
		Color:       accentColor,
		Title:       fmt.Sprintf("🍽️ Review: %s", r.RestaurantName),
		Description: truncateBody(r.Body),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rating", Value: fmt.Sprintf("%s (%g/5)", Stars(r.Rating), r.Rating), Inline: true},
			{Name: "District", Value: r.District, Inline: true},
			{Name: "Items", Value: itemsText, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("ID: %s • %s", r.ID.Hex(), r.CreatedAt.Local().Format(dateLayout)),
		},
	}

	author := &discordgo.MessageEmbedAuthor{Name: fmt.Sprintf("Review by %s", authorName)}
	if strings.HasPrefix(avatarURL, "http") {
		author.IconURL = avatarURL
	}
	e.Author = author

	if isHTTPURL(r.CanonicalURL) {
		e.URL = r.CanonicalURL
	}
	if isHTTPURL(imageURL) {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: imageURL}
	}
	return e
}

// List builds the compact listing embed, one field per review.
func List(scope store.ListScope, district string, page int, reviews []store.Review) *discordgo.MessageEmbed {
	description := fmt.Sprintf("Filter: **%s**", scope)
	if scope == store.ScopeDistrict {
		description += fmt.Sprintf(" • District: **%s**", district)
	}
	description += fmt.Sprintf("\nPage: **%d**", page)

	e := &discordgo.MessageEmbed{
		Color:       accentColor,
		Title:       "📑 Review listing",
		Description: description,
	}
	for _, r := range reviews {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s  (ID: %s)", r.RestaurantName, r.ID.Hex()),
			Value: fmt.Sprintf("⭐️ %g/5  •  District: %s\nAuthor: <@%s> • %s",
				r.Rating, r.District, r.AuthorID, r.CreatedAt.Local().Format(dateLayout)),
		})
	}
	return e
}

// ReactionRow builds the like/dislike buttons labeled with current counts,
// plus a link button to the menu when the review has one.
func ReactionRow(r *store.Review) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: "like_" + r.ID.Hex(),
			Emoji:    &discordgo.ComponentEmoji{Name: "👍"},
			Label:    fmt.Sprintf("%d", len(r.LikedBy)),
			Style:    discordgo.PrimaryButton,
		},
		discordgo.Button{
			CustomID: "dislike_" + r.ID.Hex(),
			Emoji:    &discordgo.ComponentEmoji{Name: "👎"},
			Label:    fmt.Sprintf("%d", len(r.DislikedBy)),
			Style:    discordgo.SecondaryButton,
		},
	}
	if r.MenuLink != "" {
		buttons = append(buttons, discordgo.Button{
			Label: "📖 Menu",
			URL:   r.MenuLink,
			Style: discordgo.LinkButton,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= maxDescription {
		return body
	}
	return string(runes[:1020]) + "…"
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
