// Package review holds the review lifecycle: input validation, the
// create/read/update/delete orchestration with best-effort enrichment, the
// like/dislike reaction machine and contributor tiers.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"reviewbot/internal/embed"
	"reviewbot/internal/store"
)

// ErrNoChannelConfigured is returned by Create when the guild has no review
// channel set. The review itself is already persisted at that point.
var ErrNoChannelConfigured = errors.New("no review channel configured for this guild")

// Enricher discovers a canonical URL for a query and an image for a page.
// Both calls are single attempts; errors are logged here and never reach the
// invoker.
type Enricher interface {
	ResolveCanonicalURL(ctx context.Context, query string) (string, error)
	ResolveImage(ctx context.Context, pageURL string) (string, error)
}

type Profile struct {
	DisplayName string
	AvatarURL   string
}

type UserDirectory interface {
	ResolveUser(ctx context.Context, userID string) (Profile, error)
}

type Publisher interface {
	Publish(ctx context.Context, channelID string, e *discordgo.MessageEmbed, components []discordgo.MessageComponent) error
}

// RoleSyncer reconciles a member's contributor tier role. An empty tier name
// means the member holds no tier.
type RoleSyncer interface {
	SyncMemberTier(ctx context.Context, guildID, userID, tierName string) error
}

type Service struct {
	store     store.Storage
	enricher  Enricher
	users     UserDirectory
	publisher Publisher
	roles     RoleSyncer
	logger    *zap.SugaredLogger
}

func NewService(st store.Storage, enricher Enricher, users UserDirectory, publisher Publisher, roles RoleSyncer, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:     st,
		enricher:  enricher,
		users:     users,
		publisher: publisher,
		roles:     roles,
		logger:    logger,
	}
}

type CreateResult struct {
	Review *store.Review
	// FoundURL is the auto-discovered canonical URL, "" when none was found.
	FoundURL string
}

// Create validates and persists a new review, then enriches it best-effort
// (canonical URL, cover image), publishes the rendered embed to the guild's
// configured channel and reconciles the author's contributor tier. The review
// is persisted before any network enrichment, so enrichment failures can
// never lose it.
func (s *Service) Create(ctx context.Context, guildID, authorID string, author Profile, in CreateInput) (*CreateResult, error) {
	items, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	rev := &store.Review{
		AuthorID:       authorID,
		RestaurantName: in.RestaurantName,
		Rating:         in.Rating,
		Items:          items,
		Body:           in.Body,
		District:       in.District,
		CanonicalURL:   "",
	}
	id, err := s.store.Reviews.Create(ctx, rev)
	if err != nil {
		return nil, fmt.Errorf("creating review: %w", err)
	}

	foundURL := ""
	query := in.RestaurantName + " " + in.District
	if url, err := s.enricher.ResolveCanonicalURL(ctx, query); err != nil {
		s.logger.Warnw("canonical URL lookup failed", "review_id", id, "query", query, "error", err)
	} else if url != "" {
		foundURL = url
		if _, err := s.store.Reviews.Update(ctx, id, store.ReviewUpdate{CanonicalURL: &url}); err != nil {
			s.logger.Warnw("persisting canonical URL failed", "review_id", id, "error", err)
		}
	}

	rev, err = s.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading back review %s: %w", id, err)
	}

	imageURL := s.resolveImage(ctx, rev.CanonicalURL, id)

	s.syncContributorTier(ctx, guildID, authorID)

	channelID, err := s.store.Guilds.ReviewChannel(ctx, guildID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &CreateResult{Review: rev, FoundURL: foundURL}, ErrNoChannelConfigured
		}
		return nil, fmt.Errorf("looking up review channel: %w", err)
	}

	e := embed.Review(rev, author.DisplayName, author.AvatarURL, imageURL)
	row := embed.ReactionRow(rev)
	if err := s.publisher.Publish(ctx, channelID, e, row); err != nil {
		s.logger.Errorw("publishing review to channel failed", "review_id", id, "channel_id", channelID, "error", err)
	}

	return &CreateResult{Review: rev, FoundURL: foundURL}, nil
}

type ViewResult struct {
	Review   *store.Review
	Author   Profile
	ImageURL string
}

// View fetches a review and the render-time metadata for it. The cover image
// is re-resolved on every view, never cached.
func (s *Service) View(ctx context.Context, id string) (*ViewResult, error) {
	rev, err := s.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ViewResult{
		Review:   rev,
		Author:   s.resolveAuthor(ctx, rev.AuthorID),
		ImageURL: s.resolveImage(ctx, rev.CanonicalURL, id),
	}, nil
}

// List returns one page of reviews for the filter. An empty page is a valid
// outcome, not an error.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]store.Review, error) {
	if filter.Scope == store.ScopeDistrict && strings.TrimSpace(filter.District) == "" {
		return nil, invalid("You must name a district when filtering by district.")
	}
	return s.store.Reviews.List(ctx, filter)
}

// Edit applies an allow-listed partial update and returns the refreshed
// review. When a URL was supplied, the cover image is re-resolved from it.
func (s *Service) Edit(ctx context.Context, in EditInput) (*ViewResult, error) {
	items, err := ValidateEdit(in)
	if err != nil {
		return nil, err
	}

	update := store.ReviewUpdate{
		RestaurantName: in.RestaurantName,
		Rating:         in.Rating,
		Items:          items,
		Body:           in.Body,
		District:       in.District,
		CanonicalURL:   in.URL,
		MenuLink:       in.MenuLink,
	}
	applied, err := s.store.Reviews.Update(ctx, in.ID, update)
	if err != nil {
		return nil, fmt.Errorf("updating review %s: %w", in.ID, err)
	}
	if !applied {
		return nil, store.ErrNotFound
	}

	rev, err := s.store.Reviews.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	imageURL := ""
	if in.URL != nil {
		imageURL = s.resolveImage(ctx, *in.URL, in.ID)
	}

	return &ViewResult{
		Review:   rev,
		Author:   s.resolveAuthor(ctx, rev.AuthorID),
		ImageURL: imageURL,
	}, nil
}

// Delete soft-deletes a review. Unknown and already-deleted ids both come
// back as store.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	applied, err := s.store.Reviews.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting review %s: %w", id, err)
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

// SetReviewChannel records the guild's publishing channel. The admin gate is
// enforced by the platform's command permissions.
func (s *Service) SetReviewChannel(ctx context.Context, guildID, channelID string) error {
	return s.store.Guilds.SetReviewChannel(ctx, guildID, channelID)
}

func (s *Service) resolveImage(ctx context.Context, pageURL, reviewID string) string {
	if pageURL == "" {
		return ""
	}
	imageURL, err := s.enricher.ResolveImage(ctx, pageURL)
	if err != nil {
		s.logger.Warnw("image lookup failed", "review_id", reviewID, "url", pageURL, "error", err)
		return ""
	}
	return imageURL
}

func (s *Service) resolveAuthor(ctx context.Context, authorID string) Profile {
	profile, err := s.users.ResolveUser(ctx, authorID)
	if err != nil {
		s.logger.Warnw("author lookup failed", "author_id", authorID, "error", err)
		return Profile{DisplayName: "ID:" + authorID}
	}
	return profile
}
