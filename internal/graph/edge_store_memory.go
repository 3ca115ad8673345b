package graph

import (
	"context"
	"sort"
	"sync"

	"github.com/streamhub/backend/internal/models"
)

// NewInMemoryEdgeStore returns an EdgeStore backed by maps. Listings need the
// referenced users and videos seeded through PutUser and PutVideo.
func NewInMemoryEdgeStore() *InMemoryEdgeStore {
	return &InMemoryEdgeStore{
		subscriptions: make(map[[2]string]models.Subscription),
		likes:         make(map[[3]string]models.Like),
		users:         make(map[string]models.PublicUser),
		videos:        make(map[string]models.Video),
	}
}

// InMemoryEdgeStore implements EdgeStore for tests and local development.
type InMemoryEdgeStore struct {
	mu            sync.Mutex
	subscriptions map[[2]string]models.Subscription
	likes         map[[3]string]models.Like
	users         map[string]models.PublicUser
	videos        map[string]models.Video
}

// PutUser seeds a public user projection used by listing joins.
func (s *InMemoryEdgeStore) PutUser(user models.PublicUser) {
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
}

// PutVideo seeds a video used by liked-video joins.
func (s *InMemoryEdgeStore) PutVideo(video models.Video) {
	s.mu.Lock()
	s.videos[video.ID] = video
	s.mu.Unlock()
}

// InsertSubscription adds the edge unless the pair already exists.
func (s *InMemoryEdgeStore) InsertSubscription(_ context.Context, sub models.Subscription) (bool, error) {
	key := [2]string{sub.SubscriberID, sub.ChannelID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subscriptions[key]; exists {
		return false, nil
	}
	s.subscriptions[key] = sub
	return true, nil
}

// DeleteSubscription removes the edge for the pair if present.
func (s *InMemoryEdgeStore) DeleteSubscription(_ context.Context, subscriberID, channelID string) (models.Subscription, bool, error) {
	key := [2]string{subscriberID, channelID}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, exists := s.subscriptions[key]
	if exists {
		delete(s.subscriptions, key)
	}
	return sub, exists, nil
}

// InsertLike adds the edge unless the (likedBy, kind, target) triple exists.
func (s *InMemoryEdgeStore) InsertLike(_ context.Context, like models.Like) (bool, error) {
	key := [3]string{like.LikedBy, string(like.TargetKind), like.TargetID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.likes[key]; exists {
		return false, nil
	}
	s.likes[key] = like
	return true, nil
}

// DeleteLike removes the edge for the triple if present.
func (s *InMemoryEdgeStore) DeleteLike(_ context.Context, likedBy string, kind models.LikeTarget, targetID string) (models.Like, bool, error) {
	key := [3]string{likedBy, string(kind), targetID}
	s.mu.Lock()
	defer s.mu.Unlock()
	like, exists := s.likes[key]
	if exists {
		delete(s.likes, key)
	}
	return like, exists, nil
}

// ListSubscribers joins subscription edges for the channel against seeded users.
func (s *InMemoryEdgeStore) ListSubscribers(_ context.Context, channelID string, limit, offset int) ([]models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var edges []models.Subscription
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channelID {
			edges = append(edges, sub)
		}
	}
	sortEdgesNewestFirst(edges)

	users := make([]models.PublicUser, 0, len(edges))
	for _, sub := range paginateSubs(edges, limit, offset) {
		users = append(users, s.users[sub.SubscriberID])
	}
	return users, nil
}

// ListSubscriptions joins subscription edges for the subscriber against seeded users.
func (s *InMemoryEdgeStore) ListSubscriptions(_ context.Context, subscriberID string, limit, offset int) ([]models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var edges []models.Subscription
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID {
			edges = append(edges, sub)
		}
	}
	sortEdgesNewestFirst(edges)

	users := make([]models.PublicUser, 0, len(edges))
	for _, sub := range paginateSubs(edges, limit, offset) {
		users = append(users, s.users[sub.ChannelID])
	}
	return users, nil
}

// ListLikedVideos joins video-targeted like edges against seeded videos.
func (s *InMemoryEdgeStore) ListLikedVideos(_ context.Context, userID string, limit, offset int) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var edges []models.Like
	for _, like := range s.likes {
		if like.LikedBy == userID && like.TargetKind == models.LikeTargetVideo {
			edges = append(edges, like)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].CreatedAt.After(edges[j].CreatedAt) })

	if offset >= len(edges) {
		return []models.Video{}, nil
	}
	edges = edges[offset:]
	if limit > 0 && limit < len(edges) {
		edges = edges[:limit]
	}

	videos := make([]models.Video, 0, len(edges))
	for _, like := range edges {
		if video, ok := s.videos[like.TargetID]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

// SubscriptionCount reports the number of stored edges. Useful for tests.
func (s *InMemoryEdgeStore) SubscriptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscriptions)
}

func sortEdgesNewestFirst(edges []models.Subscription) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].CreatedAt.After(edges[j].CreatedAt) })
}

func paginateSubs(edges []models.Subscription, limit, offset int) []models.Subscription {
	if offset >= len(edges) {
		return nil
	}
	edges = edges[offset:]
	if limit > 0 && limit < len(edges) {
		edges = edges[:limit]
	}
	return edges
}

var _ EdgeStore = (*InMemoryEdgeStore)(nil)
