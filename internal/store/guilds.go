package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GuildSettings maps a guild to the channel where new reviews are published.
// No entry means publishing is disabled until an admin configures one.
type GuildSettings struct {
	GuildID         string    `bson:"_id" json:"guild_id"`
	ReviewChannelID string    `bson:"review_channel_id" json:"review_channel_id"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

type GuildStore struct {
	coll *mongo.Collection
}

func (s *GuildStore) SetReviewChannel(ctx context.Context, guildID, channelID string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": guildID},
		bson.M{"$set": bson.M{
			"review_channel_id": channelID,
			"updated_at":        time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *GuildStore) ReviewChannel(ctx context.Context, guildID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var settings GuildSettings
	err := s.coll.FindOne(ctx, bson.M{"_id": guildID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	if settings.ReviewChannelID == "" {
		return "", ErrNotFound
	}
	return settings.ReviewChannelID, nil
}
