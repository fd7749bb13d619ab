package embed

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reviewbot/internal/store"
)

func sampleReview() *store.Review {
	return &store.Review{
		ID:             primitive.NewObjectID(),
		AuthorID:       "user-1",
		RestaurantName: "La Picá",
		Rating:         4.5,
		Items:          []string{"pastel de choclo", "chicha"},
		Body:           "Excelente lugar, muy acogedor y con buena atención.",
		District:       "Ñuñoa",
		CreatedAt:      time.Date(2025, 6, 1, 21, 30, 0, 0, time.UTC),
	}
}

func TestStars(t *testing.T) {
	cases := []struct {
		rating float64
		want   string
	}{
		{0.5, "✨☆☆☆☆"},
		{1.0, "⭐️☆☆☆☆"},
		{2.5, "⭐️⭐️✨☆☆"},
		{3.0, "⭐️⭐️⭐️☆☆"},
		{4.5, "⭐️⭐️⭐️⭐️✨"},
		{5.0, "⭐️⭐️⭐️⭐️⭐️"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Stars(tc.rating), "rating %v", tc.rating)
	}
}

func TestReview_Fields(t *testing.T) {
	r := sampleReview()
	e := Review(r, "tester", "https://cdn.example.com/a.png", "")

	assert.Equal(t, "🍽️ Review: La Picá", e.Title)
	assert.Equal(t, r.Body, e.Description)
	require.Len(t, e.Fields, 3)

	assert.Equal(t, "Rating", e.Fields[0].Name)
	assert.Equal(t, "⭐️⭐️⭐️⭐️✨ (4.5/5)", e.Fields[0].Value)
	assert.Equal(t, "Ñuñoa", e.Fields[1].Value)
	assert.Equal(t, "• pastel de choclo\n• chicha", e.Fields[2].Value)

	assert.Contains(t, e.Footer.Text, "ID: "+r.ID.Hex())
	assert.Equal(t, "Review by tester", e.Author.Name)
	assert.Equal(t, "https://cdn.example.com/a.png", e.Author.IconURL)
}

func TestReview_LinkAndThumbnailOnlyWhenValid(t *testing.T) {
	r := sampleReview()
	e := Review(r, "tester", "", "")
	assert.Empty(t, e.URL)
	assert.Nil(t, e.Thumbnail)
	assert.Empty(t, e.Author.IconURL)

	r.CanonicalURL = "https://lapica.cl"
	e = Review(r, "tester", "not-a-url", "https://lapica.cl/og.png")
	assert.Equal(t, "https://lapica.cl", e.URL)
	require.NotNil(t, e.Thumbnail)
	assert.Equal(t, "https://lapica.cl/og.png", e.Thumbnail.URL)
	assert.Empty(t, e.Author.IconURL)

	r.CanonicalURL = "javascript:alert(1)"
	e = Review(r, "tester", "", "data:image/png;base64,x")
	assert.Empty(t, e.URL)
	assert.Nil(t, e.Thumbnail)
}

func TestReview_BodyTruncation(t *testing.T) {
	r := sampleReview()
	r.Body = strings.Repeat("a", 1024)
	e := Review(r, "tester", "", "")
	assert.Equal(t, r.Body, e.Description)

	r.Body = strings.Repeat("a", 1025)
	e = Review(r, "tester", "", "")
	assert.Equal(t, strings.Repeat("a", 1020)+"…", e.Description)
}

func TestReview_EmptyItemsPlaceholder(t *testing.T) {
	r := sampleReview()
	r.Items = nil
	e := Review(r, "tester", "", "")
	assert.Equal(t, "–", e.Fields[2].Value)
}

func TestList(t *testing.T) {
	r := sampleReview()
	e := List(store.ScopeDistrict, "Ñuñoa", 2, []store.Review{*r})

	assert.Contains(t, e.Description, "Filter: **district**")
	assert.Contains(t, e.Description, "District: **Ñuñoa**")
	assert.Contains(t, e.Description, "Page: **2**")
	require.Len(t, e.Fields, 1)
	assert.Contains(t, e.Fields[0].Name, "La Picá")
	assert.Contains(t, e.Fields[0].Name, r.ID.Hex())
	assert.Contains(t, e.Fields[0].Value, "4.5/5")
	assert.Contains(t, e.Fields[0].Value, "<@user-1>")
}

func TestReactionRow(t *testing.T) {
	r := sampleReview()
	r.LikedBy = []string{"a", "b"}
	r.DislikedBy = []string{"c"}

	row := ReactionRow(r)
	require.Len(t, row, 1)
	actions, ok := row[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, actions.Components, 2)

	like := actions.Components[0].(discordgo.Button)
	assert.Equal(t, "like_"+r.ID.Hex(), like.CustomID)
	assert.Equal(t, "2", like.Label)

	dislike := actions.Components[1].(discordgo.Button)
	assert.Equal(t, "dislike_"+r.ID.Hex(), dislike.CustomID)
	assert.Equal(t, "1", dislike.Label)
}

func TestReactionRow_MenuLink(t *testing.T) {
	r := sampleReview()
	r.MenuLink = "https://lapica.cl/menu"

	row := ReactionRow(r)
	actions := row[0].(discordgo.ActionsRow)
	require.Len(t, actions.Components, 3)

	menu := actions.Components[2].(discordgo.Button)
	assert.Equal(t, discordgo.LinkButton, menu.Style)
	assert.Equal(t, "https://lapica.cl/menu", menu.URL)
}
