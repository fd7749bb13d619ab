package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Reviews interface {
		Create(context.Context, *Review) (string, error)
		GetByID(context.Context, string) (*Review, error)
		Update(context.Context, string, ReviewUpdate) (bool, error)
		SoftDelete(context.Context, string) (bool, error)
		List(context.Context, ListFilter) ([]Review, error)
		CountByAuthor(context.Context, string) (int64, error)
		SetReactions(ctx context.Context, id string, likedBy, dislikedBy []string) error
	}
	Guilds interface {
		SetReviewChannel(ctx context.Context, guildID, channelID string) error
		ReviewChannel(ctx context.Context, guildID string) (string, error)
	}
}

func NewStorage(db *mongo.Database) Storage {
	return Storage{
		Reviews: &ReviewStore{db.Collection("reviews")},
		Guilds:  &GuildStore{db.Collection("guild_settings")},
	}
}
