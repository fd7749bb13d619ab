package review

import (
	"context"

	"reviewbot/internal/store"
)

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ToggleReaction flips the user's membership for the given reaction and
// persists the result. A user is a member of at most one of the two sets:
// reacting removes them from the opposite set, and reacting the same way
// twice returns them to neutral.
func (s *Service) ToggleReaction(ctx context.Context, id, userID string, kind ReactionKind) (*store.Review, error) {
	rev, err := s.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	toggle(rev, userID, kind)

	if err := s.store.Reviews.SetReactions(ctx, id, rev.LikedBy, rev.DislikedBy); err != nil {
		return nil, err
	}
	return rev, nil
}

func toggle(rev *store.Review, userID string, kind ReactionKind) {
	target, opposite := rev.LikedBy, rev.DislikedBy
	if kind == ReactionDislike {
		target, opposite = rev.DislikedBy, rev.LikedBy
	}

	opposite = remove(opposite, userID)
	if contains(target, userID) {
		target = remove(target, userID)
	} else {
		target = append(target, userID)
	}

	if kind == ReactionDislike {
		rev.DislikedBy, rev.LikedBy = target, opposite
	} else {
		rev.LikedBy, rev.DislikedBy = target, opposite
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// remove returns a fresh slice so the input, which may share backing memory
// with a stored record, is never written to.
func remove(ids []string, id string) []string {
	kept := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}
