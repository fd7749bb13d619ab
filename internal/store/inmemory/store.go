// Package inmemory implements the store interfaces without a database. It backs
// the service tests and local runs where no Mongo instance is available.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"reviewbot/internal/store"
)

type ReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]*store.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: make(map[string]*store.Review)}
}

func (s *ReviewStore) Create(ctx context.Context, review *store.Review) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	review.ID = primitive.NewObjectID()
	review.CreatedAt = now
	review.UpdatedAt = now
	review.IsDeleted = false
	if review.LikedBy == nil {
		review.LikedBy = []string{}
	}
	if review.DislikedBy == nil {
		review.DislikedBy = []string{}
	}

	clone := *review
	s.reviews[review.ID.Hex()] = &clone
	return review.ID.Hex(), nil
}

func (s *ReviewStore) GetByID(ctx context.Context, id string) (*store.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	review, ok := s.reviews[id]
	if !ok || review.IsDeleted {
		return nil, store.ErrNotFound
	}
	clone := *review
	clone.Items = append([]string(nil), review.Items...)
	clone.LikedBy = append([]string(nil), review.LikedBy...)
	clone.DislikedBy = append([]string(nil), review.DislikedBy...)
	return &clone, nil
}

func (s *ReviewStore) Update(ctx context.Context, id string, update store.ReviewUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emptyUpdate(update) {
		return false, nil
	}
	review, ok := s.reviews[id]
	if !ok || review.IsDeleted {
		return false, nil
	}

	if update.RestaurantName != nil {
		review.RestaurantName = *update.RestaurantName
	}
	if update.Rating != nil {
		review.Rating = *update.Rating
	}
	if update.Items != nil {
		review.Items = update.Items
	}
	if update.Body != nil {
		review.Body = *update.Body
	}
	if update.District != nil {
		review.District = *update.District
	}
	if update.CanonicalURL != nil {
		review.CanonicalURL = *update.CanonicalURL
	}
	if update.MenuLink != nil {
		review.MenuLink = *update.MenuLink
	}
	review.UpdatedAt = time.Now().UTC()
	return true, nil
}

func emptyUpdate(u store.ReviewUpdate) bool {
	return u.RestaurantName == nil &&
		u.Rating == nil &&
		u.Items == nil &&
		u.Body == nil &&
		u.District == nil &&
		u.CanonicalURL == nil &&
		u.MenuLink == nil
}

func (s *ReviewStore) SoftDelete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, ok := s.reviews[id]
	if !ok || review.IsDeleted {
		return false, nil
	}
	review.IsDeleted = true
	review.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *ReviewStore) List(ctx context.Context, filter store.ListFilter) ([]store.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []store.Review{}
	for _, review := range s.reviews {
		if review.IsDeleted {
			continue
		}
		switch filter.Scope {
		case store.ScopeOwn:
			if review.AuthorID != filter.AuthorID {
				continue
			}
		case store.ScopeDistrict:
			if review.District != filter.District {
				continue
			}
		case store.ScopeAll:
		default:
			return []store.Review{}, nil
		}
		matched = append(matched, *review)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []store.Review{}, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *ReviewStore) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, review := range s.reviews {
		if !review.IsDeleted && review.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (s *ReviewStore) SetReactions(ctx context.Context, id string, likedBy, dislikedBy []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, ok := s.reviews[id]
	if !ok || review.IsDeleted {
		return store.ErrNotFound
	}
	review.LikedBy = likedBy
	review.DislikedBy = dislikedBy
	review.UpdatedAt = time.Now().UTC()
	return nil
}

type GuildStore struct {
	mu       sync.RWMutex
	channels map[string]string
}

func NewGuildStore() *GuildStore {
	return &GuildStore{channels: make(map[string]string)}
}

func (s *GuildStore) SetReviewChannel(ctx context.Context, guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.channels[guildID] = channelID
	return nil
}

func (s *GuildStore) ReviewChannel(ctx context.Context, guildID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channelID, ok := s.channels[guildID]
	if !ok {
		return "", store.ErrNotFound
	}
	return channelID, nil
}

// NewStorage bundles the in-memory implementations behind the store.Storage
// facade.
func NewStorage() store.Storage {
	return store.Storage{
		Reviews: NewReviewStore(),
		Guilds:  NewGuildStore(),
	}
}
