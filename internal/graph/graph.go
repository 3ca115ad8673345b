package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/models"
)

var (
	// ErrInvalidID indicates a supplied identity key is not well-formed.
	ErrInvalidID = errors.New("invalid id")
	// ErrSelfSubscription indicates a user tried to subscribe to itself
	// while the policy forbids it.
	ErrSelfSubscription = errors.New("cannot subscribe to own channel")
)

// Toggle states reported by the service.
const (
	StateSubscribed   = "subscribed"
	StateUnsubscribed = "unsubscribed"
	StateLiked        = "liked"
	StateUnliked      = "unliked"
)

// EdgeStore persists subscription and like edges. Insert operations must be
// conditional on the unique (origin, target) pair and report whether a row
// was actually written; deletes report whether a row existed. Keeping each of
// those a single atomic operation is what makes the toggle race-free.
type EdgeStore interface {
	InsertSubscription(ctx context.Context, sub models.Subscription) (bool, error)
	DeleteSubscription(ctx context.Context, subscriberID, channelID string) (models.Subscription, bool, error)
	InsertLike(ctx context.Context, like models.Like) (bool, error)
	DeleteLike(ctx context.Context, likedBy string, kind models.LikeTarget, targetID string) (models.Like, bool, error)

	ListSubscribers(ctx context.Context, channelID string, limit, offset int) ([]models.PublicUser, error)
	ListSubscriptions(ctx context.Context, subscriberID string, limit, offset int) ([]models.PublicUser, error)
	ListLikedVideos(ctx context.Context, userID string, limit, offset int) ([]models.Video, error)
}

// SubscriptionToggle reports the outcome of a subscription toggle.
type SubscriptionToggle struct {
	State string              `json:"state"`
	Edge  models.Subscription `json:"edge"`
}

// LikeToggle reports the outcome of a like toggle.
type LikeToggle struct {
	State string      `json:"state"`
	Edge  models.Like `json:"edge"`
}

// Service maintains the relationship graph: directed subscription and like
// edges with idempotent toggles and joined listing queries.
type Service struct {
	store           EdgeStore
	allowSelfFollow bool

	// NowFunc overrides the clock in tests.
	NowFunc func() time.Time
}

// NewService constructs a graph service over the provided edge store.
func NewService(store EdgeStore, allowSelfFollow bool) *Service {
	if store == nil {
		panic("graph: edge store must not be nil")
	}
	return &Service{store: store, allowSelfFollow: allowSelfFollow}
}

// ToggleSubscription flips the (subscriber, channel) edge: deletes it when
// present, creates it when absent. Two immediate calls for the same pair
// deterministically alternate state and never duplicate the edge.
func (s *Service) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (SubscriptionToggle, error) {
	if !validID(subscriberID) || !validID(channelID) {
		return SubscriptionToggle{}, ErrInvalidID
	}
	if subscriberID == channelID && !s.allowSelfFollow {
		return SubscriptionToggle{}, ErrSelfSubscription
	}

	removed, existed, err := s.store.DeleteSubscription(ctx, subscriberID, channelID)
	if err != nil {
		return SubscriptionToggle{}, fmt.Errorf("delete subscription edge: %w", err)
	}
	if existed {
		return SubscriptionToggle{State: StateUnsubscribed, Edge: removed}, nil
	}

	edge := models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    s.now(),
	}
	// InsertSubscription reporting false means a concurrent toggle created
	// the edge between our delete and insert; the pair ends up subscribed
	// either way, so the outcome does not depend on who won.
	if _, err := s.store.InsertSubscription(ctx, edge); err != nil {
		return SubscriptionToggle{}, fmt.Errorf("insert subscription edge: %w", err)
	}
	return SubscriptionToggle{State: StateSubscribed, Edge: edge}, nil
}

// ToggleLike flips the (likedBy, kind, target) edge with the same semantics
// as ToggleSubscription.
func (s *Service) ToggleLike(ctx context.Context, likedBy string, kind models.LikeTarget, targetID string) (LikeToggle, error) {
	if !validID(likedBy) || !validID(targetID) {
		return LikeToggle{}, ErrInvalidID
	}
	if !kind.Valid() {
		return LikeToggle{}, fmt.Errorf("%w: unknown like target %q", ErrInvalidID, kind)
	}

	removed, existed, err := s.store.DeleteLike(ctx, likedBy, kind, targetID)
	if err != nil {
		return LikeToggle{}, fmt.Errorf("delete like edge: %w", err)
	}
	if existed {
		return LikeToggle{State: StateUnliked, Edge: removed}, nil
	}

	edge := models.Like{
		ID:         uuid.NewString(),
		LikedBy:    likedBy,
		TargetKind: kind,
		TargetID:   targetID,
		CreatedAt:  s.now(),
	}
	if _, err := s.store.InsertLike(ctx, edge); err != nil {
		return LikeToggle{}, fmt.Errorf("insert like edge: %w", err)
	}
	return LikeToggle{State: StateLiked, Edge: edge}, nil
}

// ListSubscribers returns the channel's subscribers as public projections,
// newest subscription first.
func (s *Service) ListSubscribers(ctx context.Context, channelID string, limit, offset int) ([]models.PublicUser, error) {
	if !validID(channelID) {
		return nil, ErrInvalidID
	}
	users, err := s.store.ListSubscribers(ctx, channelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return users, nil
}

// ListSubscriptions returns the channels the user subscribes to, newest
// subscription first.
func (s *Service) ListSubscriptions(ctx context.Context, subscriberID string, limit, offset int) ([]models.PublicUser, error) {
	if !validID(subscriberID) {
		return nil, ErrInvalidID
	}
	users, err := s.store.ListSubscriptions(ctx, subscriberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return users, nil
}

// ListLikedVideos returns the videos the user has liked, newest like first,
// each with a nested owner projection.
func (s *Service) ListLikedVideos(ctx context.Context, userID string, limit, offset int) ([]models.Video, error) {
	if !validID(userID) {
		return nil, ErrInvalidID
	}
	videos, err := s.store.ListLikedVideos(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list liked videos: %w", err)
	}
	return videos, nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
