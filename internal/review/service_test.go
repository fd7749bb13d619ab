package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewbot/internal/store"
	"reviewbot/internal/store/inmemory"
)

type fakeEnricher struct {
	url      string
	urlErr   error
	image    string
	imageErr error

	urlCalls   int
	imageCalls int
}

func (f *fakeEnricher) ResolveCanonicalURL(ctx context.Context, query string) (string, error) {
	f.urlCalls++
	return f.url, f.urlErr
}

func (f *fakeEnricher) ResolveImage(ctx context.Context, pageURL string) (string, error) {
	f.imageCalls++
	return f.image, f.imageErr
}

type fakeDirectory struct {
	profile Profile
	err     error
}

func (f *fakeDirectory) ResolveUser(ctx context.Context, userID string) (Profile, error) {
	return f.profile, f.err
}

type fakePublisher struct {
	channelID string
	calls     int
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, channelID string, e *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	f.calls++
	f.channelID = channelID
	return f.err
}

func newTestService(t *testing.T, enricher *fakeEnricher) (*Service, store.Storage, *fakePublisher) {
	t.Helper()
	storage := inmemory.NewStorage()
	publisher := &fakePublisher{}
	directory := &fakeDirectory{profile: Profile{DisplayName: "tester", AvatarURL: "https://cdn.example.com/a.png"}}
	svc := NewService(storage, enricher, directory, publisher, nil, zap.NewNop().Sugar())
	return svc, storage, publisher
}

func TestService_Create_Success(t *testing.T) {
	enricher := &fakeEnricher{url: "https://lapica.cl", image: "https://lapica.cl/og.png"}
	svc, storage, publisher := newTestService(t, enricher)
	ctx := context.Background()
	require.NoError(t, storage.Guilds.SetReviewChannel(ctx, "guild-1", "channel-1"))

	result, err := svc.Create(ctx, "guild-1", "user-1", Profile{DisplayName: "tester"}, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "https://lapica.cl", result.FoundURL)
	assert.Equal(t, "https://lapica.cl", result.Review.CanonicalURL)
	assert.Equal(t, 4.5, result.Review.Rating)
	assert.Equal(t, []string{"pastel de choclo", "chicha"}, result.Review.Items)
	assert.False(t, result.Review.IsDeleted)
	assert.Empty(t, result.Review.LikedBy)
	assert.Empty(t, result.Review.DislikedBy)

	assert.Equal(t, 1, publisher.calls)
	assert.Equal(t, "channel-1", publisher.channelID)

	// Round-trip: the stored record carries the submitted values.
	stored, err := storage.Reviews.GetByID(ctx, result.Review.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 4.5, stored.Rating)
	assert.Equal(t, []string{"pastel de choclo", "chicha"}, stored.Items)
}

func TestService_Create_EnrichmentFailuresAreAbsorbed(t *testing.T) {
	enricher := &fakeEnricher{urlErr: errors.New("network down"), imageErr: errors.New("network down")}
	svc, storage, publisher := newTestService(t, enricher)
	ctx := context.Background()
	require.NoError(t, storage.Guilds.SetReviewChannel(ctx, "guild-1", "channel-1"))

	result, err := svc.Create(ctx, "guild-1", "user-1", Profile{}, validCreateInput())
	require.NoError(t, err)
	assert.Empty(t, result.FoundURL)
	assert.Empty(t, result.Review.CanonicalURL)
	assert.Equal(t, 1, publisher.calls)

	// The record survived the failed enrichment.
	_, err = storage.Reviews.GetByID(ctx, result.Review.ID.Hex())
	assert.NoError(t, err)
}

func TestService_Create_NoChannelConfigured(t *testing.T) {
	enricher := &fakeEnricher{}
	svc, storage, publisher := newTestService(t, enricher)
	ctx := context.Background()

	result, err := svc.Create(ctx, "guild-1", "user-1", Profile{}, validCreateInput())
	require.ErrorIs(t, err, ErrNoChannelConfigured)
	assert.Equal(t, 0, publisher.calls)

	// The review is persisted regardless.
	require.NotNil(t, result)
	_, err = storage.Reviews.GetByID(ctx, result.Review.ID.Hex())
	assert.NoError(t, err)
}

func TestService_Create_ValidationRejectsBeforePersistence(t *testing.T) {
	enricher := &fakeEnricher{}
	svc, storage, _ := newTestService(t, enricher)
	ctx := context.Background()

	in := validCreateInput()
	in.Rating = 0.3
	_, err := svc.Create(ctx, "guild-1", "user-1", Profile{}, in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, enricher.urlCalls)

	reviews, err := storage.Reviews.List(ctx, store.ListFilter{Scope: store.ScopeAll, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestService_Create_SkipsImageWithoutURL(t *testing.T) {
	enricher := &fakeEnricher{url: ""}
	svc, storage, _ := newTestService(t, enricher)
	ctx := context.Background()
	require.NoError(t, storage.Guilds.SetReviewChannel(ctx, "guild-1", "channel-1"))

	_, err := svc.Create(ctx, "guild-1", "user-1", Profile{}, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, 1, enricher.urlCalls)
	assert.Equal(t, 0, enricher.imageCalls)
}

func TestService_View(t *testing.T) {
	enricher := &fakeEnricher{image: "https://lapica.cl/og.png"}
	svc, storage, _ := newTestService(t, enricher)
	ctx := context.Background()

	id, err := storage.Reviews.Create(ctx, &store.Review{
		AuthorID:       "user-1",
		RestaurantName: "La Picá",
		Rating:         4.5,
		Items:          []string{"chicha"},
		Body:           "Excelente lugar, muy acogedor y con buena atención.",
		District:       "Ñuñoa",
		CanonicalURL:   "https://lapica.cl",
	})
	require.NoError(t, err)

	result, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tester", result.Author.DisplayName)
	assert.Equal(t, "https://lapica.cl/og.png", result.ImageURL)
	assert.Equal(t, 1, enricher.imageCalls)

	_, err = svc.View(ctx, "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_View_AuthorLookupFallsBack(t *testing.T) {
	storage := inmemory.NewStorage()
	directory := &fakeDirectory{err: errors.New("user gone")}
	svc := NewService(storage, &fakeEnricher{}, directory, &fakePublisher{}, nil, zap.NewNop().Sugar())
	ctx := context.Background()

	id, err := storage.Reviews.Create(ctx, &store.Review{AuthorID: "user-9", RestaurantName: "X", Rating: 3, Items: []string{"a"}, Body: "b", District: "c"})
	require.NoError(t, err)

	result, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ID:user-9", result.Author.DisplayName)
}

func TestService_List_Pagination(t *testing.T) {
	svc, storage, _ := newTestService(t, &fakeEnricher{})
	ctx := context.Background()

	ids := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		id, err := storage.Reviews.Create(ctx, &store.Review{
			AuthorID:       "user-1",
			RestaurantName: "R",
			Rating:         3,
			Items:          []string{"a"},
			Body:           "some body",
			District:       "Centro",
		})
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(time.Millisecond)
	}

	page1, err := svc.List(ctx, store.ListFilter{Scope: store.ScopeAll, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page1, 10)

	page2, err := svc.List(ctx, store.ListFilter{Scope: store.ScopeAll, Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page2, 5)

	// Most recent first, no overlap between pages.
	seen := map[string]bool{}
	previous := time.Now().Add(time.Hour)
	for _, r := range append(page1, page2...) {
		assert.False(t, seen[r.ID.Hex()])
		seen[r.ID.Hex()] = true
		assert.True(t, !r.CreatedAt.After(previous))
		previous = r.CreatedAt
	}
	assert.Equal(t, ids[14], page1[0].ID.Hex())
}

func TestService_List_DistrictRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeEnricher{})

	_, err := svc.List(context.Background(), store.ListFilter{Scope: store.ScopeDistrict, District: "  ", Page: 1, PageSize: 10})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestService_List_UnknownScopeIsEmpty(t *testing.T) {
	svc, storage, _ := newTestService(t, &fakeEnricher{})
	ctx := context.Background()

	_, err := storage.Reviews.Create(ctx, &store.Review{AuthorID: "u", RestaurantName: "R", Rating: 3, Items: []string{"a"}, Body: "b", District: "d"})
	require.NoError(t, err)

	reviews, err := svc.List(ctx, store.ListFilter{Scope: "bogus", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestService_Edit(t *testing.T) {
	enricher := &fakeEnricher{image: "https://new.example.com/og.png"}
	svc, storage, _ := newTestService(t, enricher)
	ctx := context.Background()

	id, err := storage.Reviews.Create(ctx, &store.Review{
		AuthorID:       "user-1",
		RestaurantName: "Old name",
		Rating:         2.0,
		Items:          []string{"a"},
		Body:           "this body is long enough for the check",
		District:       "Centro",
	})
	require.NoError(t, err)

	name := "New name"
	url := "https://new.example.com"
	result, err := svc.Edit(ctx, EditInput{ID: id, RestaurantName: &name, URL: &url})
	require.NoError(t, err)
	assert.Equal(t, "New name", result.Review.RestaurantName)
	assert.Equal(t, "https://new.example.com", result.Review.CanonicalURL)
	assert.Equal(t, "https://new.example.com/og.png", result.ImageURL)
	assert.Equal(t, 1, enricher.imageCalls)
}

func TestService_Edit_NoImageLookupWithoutURLChange(t *testing.T) {
	enricher := &fakeEnricher{}
	svc, storage, _ := newTestService(t, enricher)
	ctx := context.Background()

	id, err := storage.Reviews.Create(ctx, &store.Review{
		AuthorID: "user-1", RestaurantName: "R", Rating: 2, Items: []string{"a"},
		Body: "this body is long enough for the check", District: "Centro",
		CanonicalURL: "https://existing.example.com",
	})
	require.NoError(t, err)

	rating := 4.0
	result, err := svc.Edit(ctx, EditInput{ID: id, Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Review.Rating)
	assert.Equal(t, 0, enricher.imageCalls)
	assert.Empty(t, result.ImageURL)
}

func TestService_Edit_NoOpAndMissing(t *testing.T) {
	svc, storage, _ := newTestService(t, &fakeEnricher{})
	ctx := context.Background()

	id, err := storage.Reviews.Create(ctx, &store.Review{
		AuthorID: "user-1", RestaurantName: "R", Rating: 2, Items: []string{"a"},
		Body: "this body is long enough for the check", District: "Centro",
	})
	require.NoError(t, err)
	before, err := storage.Reviews.GetByID(ctx, id)
	require.NoError(t, err)

	// Empty field set: not applied, updatedAt untouched.
	_, err = svc.Edit(ctx, EditInput{ID: id})
	assert.ErrorIs(t, err, store.ErrNotFound)

	after, err := storage.Reviews.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))

	name := "x"
	_, err = svc.Edit(ctx, EditInput{ID: "507f1f77bcf86cd799439011", RestaurantName: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_Delete_Idempotence(t *testing.T) {
	svc, storage, _ := newTestService(t, &fakeEnricher{})
	ctx := context.Background()

	id, err := storage.Reviews.Create(ctx, &store.Review{
		AuthorID: "user-1", RestaurantName: "R", Rating: 2, Items: []string{"a"},
		Body: "this body is long enough for the check", District: "Centro",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = storage.Reviews.GetByID(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, id), store.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), store.ErrNotFound)
}

func TestService_ToggleReaction(t *testing.T) {
	svc, storage, _ := newTestService(t, &fakeEnricher{})
	ctx := context.Background()

	id, err := storage.Reviews.Create(ctx, &store.Review{
		AuthorID: "user-1", RestaurantName: "R", Rating: 2, Items: []string{"a"},
		Body: "this body is long enough for the check", District: "Centro",
	})
	require.NoError(t, err)

	// like → liked
	rev, err := svc.ToggleReaction(ctx, id, "user-2", ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-2"}, rev.LikedBy)
	assert.Empty(t, rev.DislikedBy)

	// dislike → moves to disliked, never in both
	rev, err = svc.ToggleReaction(ctx, id, "user-2", ReactionDislike)
	require.NoError(t, err)
	assert.Empty(t, rev.LikedBy)
	assert.Equal(t, []string{"user-2"}, rev.DislikedBy)

	// dislike again → neutral
	rev, err = svc.ToggleReaction(ctx, id, "user-2", ReactionDislike)
	require.NoError(t, err)
	assert.Empty(t, rev.LikedBy)
	assert.Empty(t, rev.DislikedBy)

	// like twice → back to neutral
	_, err = svc.ToggleReaction(ctx, id, "user-2", ReactionLike)
	require.NoError(t, err)
	rev, err = svc.ToggleReaction(ctx, id, "user-2", ReactionLike)
	require.NoError(t, err)
	assert.Empty(t, rev.LikedBy)
	assert.Empty(t, rev.DislikedBy)

	// other users are independent
	rev, err = svc.ToggleReaction(ctx, id, "user-3", ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-3"}, rev.LikedBy)

	_, err = svc.ToggleReaction(ctx, "507f1f77bcf86cd799439011", "user-2", ReactionLike)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemove_LeavesInputIntact(t *testing.T) {
	ids := []string{"user-1", "user-2", "user-3"}

	kept := remove(ids, "user-2")

	assert.Equal(t, []string{"user-1", "user-3"}, kept)
	assert.Equal(t, []string{"user-1", "user-2", "user-3"}, ids)
}
