package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Review struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID       string             `bson:"author_id" json:"author_id"`
	RestaurantName string             `bson:"restaurant_name" json:"restaurant_name"`
	Rating         float64            `bson:"rating" json:"rating"` // 0.5–5.0, half steps
	Items          []string           `bson:"items" json:"items"`
	Body           string             `bson:"body" json:"body"`
	District       string             `bson:"district" json:"district"`
	CanonicalURL   string             `bson:"canonical_url" json:"canonical_url"` // "" = unresolved
	MenuLink       string             `bson:"menu_link" json:"menu_link"`
	LikedBy        []string           `bson:"liked_by" json:"liked_by"`
	DislikedBy     []string           `bson:"disliked_by" json:"disliked_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
	IsDeleted      bool               `bson:"is_deleted" json:"-"`
}

// ReviewUpdate is the allow-list of mutable review fields. Nil pointers (and a
// nil Items slice) are left untouched.
type ReviewUpdate struct {
	RestaurantName *string
	Rating         *float64
	Items          []string
	Body           *string
	District       *string
	CanonicalURL   *string
	MenuLink       *string
}

type ListScope string

const (
	ScopeOwn      ListScope = "own"
	ScopeDistrict ListScope = "district"
	ScopeAll      ListScope = "all"
)

type ListFilter struct {
	Scope    ListScope
	AuthorID string
	District string
	Page     int // 1-based
	PageSize int
}

type ReviewStore struct {
	coll *mongo.Collection
}

func (s *ReviewStore) Create(ctx context.Context, review *Review) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now
	review.IsDeleted = false
	if review.LikedBy == nil {
		review.LikedBy = []string{}
	}
	if review.DislikedBy == nil {
		review.DislikedBy = []string{}
	}

	res, err := s.coll.InsertOne(ctx, review)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	review.ID = oid
	return oid.Hex(), nil
}

func (s *ReviewStore) GetByID(ctx context.Context, id string) (*Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var review Review
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "is_deleted": false}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) Update(ctx context.Context, id string, update ReviewUpdate) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	set := bson.M{}
	if update.RestaurantName != nil {
		set["restaurant_name"] = *update.RestaurantName
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Items != nil {
		set["items"] = update.Items
	}
	if update.Body != nil {
		set["body"] = *update.Body
	}
	if update.District != nil {
		set["district"] = *update.District
	}
	if update.CanonicalURL != nil {
		set["canonical_url"] = *update.CanonicalURL
	}
	if update.MenuLink != nil {
		set["menu_link"] = *update.MenuLink
	}
	if len(set) == 0 {
		return false, nil
	}
	set["updated_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "is_deleted": false},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *ReviewStore) SoftDelete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *ReviewStore) List(ctx context.Context, filter ListFilter) ([]Review, error) {
	query := bson.M{"is_deleted": false}
	switch filter.Scope {
	case ScopeOwn:
		query["author_id"] = filter.AuthorID
	case ScopeDistrict:
		query["district"] = filter.District
	case ScopeAll:
	default:
		return []Review{}, nil
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewStore) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.coll.CountDocuments(ctx, bson.M{"author_id": authorID, "is_deleted": false})
}

func (s *ReviewStore) SetReactions(ctx context.Context, id string, likedBy, dislikedBy []string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "is_deleted": false},
		bson.M{"$set": bson.M{
			"liked_by":    likedBy,
			"disliked_by": dislikedBy,
			"updated_at":  time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
