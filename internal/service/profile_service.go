package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/repository"
	"gorm.io/gorm"
)

var ErrChannelNotFound = domain.NotFound("channel does not exist")

// ProfileService builds the read-only channel and watch-history views. It
// never mutates account state apart from the explicit watch-history append.
type ProfileService struct {
	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	subscriptionRepo repository.SubscriptionRepository
}

func NewProfileService(userRepo repository.UserRepository, videoRepo repository.VideoRepository, subscriptionRepo repository.SubscriptionRepository) *ProfileService {
	return &ProfileService{
		userRepo:         userRepo,
		videoRepo:        videoRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// ProfileView is the public channel representation: profile fields plus the
// three computed subscription fields.
type ProfileView struct {
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// OwnerSummary is the watch-history projection of a video owner.
type OwnerSummary struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type VideoSummary struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	Owner       OwnerSummary `json:"owner"`
}

// ChannelProfile resolves a channel by username and computes its subscriber
// counts. viewerID is optional; when present it determines IsSubscribed.
func (s *ProfileService) ChannelProfile(ctx context.Context, viewerID *uuid.UUID, username string) (*ProfileView, error) {
	if username == "" {
		return nil, domain.Validation("username is required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, domain.Internal("failed to load channel")
	}

	subscriberCount, err := s.subscriptionRepo.CountByChannel(ctx, user.ID)
	if err != nil {
		return nil, domain.Internal("failed to count subscribers")
	}

	subscribedToCount, err := s.subscriptionRepo.CountBySubscriber(ctx, user.ID)
	if err != nil {
		return nil, domain.Internal("failed to count subscriptions")
	}

	isSubscribed := false
	if viewerID != nil {
		isSubscribed, err = s.subscriptionRepo.Exists(ctx, *viewerID, user.ID)
		if err != nil {
			return nil, domain.Internal("failed to check subscription")
		}
	}

	return &ProfileView{
		FullName:          user.FullName,
		Username:          user.Username,
		Email:             user.Email,
		Avatar:            user.Avatar,
		CoverImage:        user.CoverImage,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}

// WatchHistory resolves the account's stored video references in order,
// projecting each owner down to its public fields. References whose video (or
// video owner) no longer exists are dropped without error.
func (s *ProfileService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]*VideoSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, domain.Internal("failed to load user")
	}

	videoIDs := make([]uuid.UUID, 0, len(user.WatchHistory))
	for _, ref := range user.WatchHistory {
		id, err := uuid.Parse(ref)
		if err != nil {
			continue
		}
		videoIDs = append(videoIDs, id)
	}

	videos, err := s.videoRepo.GetByIDs(ctx, videoIDs)
	if err != nil {
		return nil, domain.Internal("failed to load videos")
	}
	videosByID := make(map[uuid.UUID]*domain.Video, len(videos))
	ownerIDs := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		videosByID[v.ID] = v
		ownerIDs = append(ownerIDs, v.OwnerID)
	}

	owners, err := s.userRepo.GetByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, domain.Internal("failed to load video owners")
	}
	ownersByID := make(map[uuid.UUID]*domain.User, len(owners))
	for _, o := range owners {
		ownersByID[o.ID] = o
	}

	history := make([]*VideoSummary, 0, len(videoIDs))
	for _, id := range videoIDs {
		video, ok := videosByID[id]
		if !ok {
			continue
		}
		owner, ok := ownersByID[video.OwnerID]
		if !ok {
			continue
		}
		history = append(history, &VideoSummary{
			ID:          video.ID,
			Title:       video.Title,
			Description: video.Description,
			VideoFile:   video.VideoFile,
			Thumbnail:   video.Thumbnail,
			Duration:    video.Duration,
			Views:       video.Views,
			Owner: OwnerSummary{
				FullName: owner.FullName,
				Username: owner.Username,
				Avatar:   owner.Avatar,
			},
		})
	}

	return history, nil
}

// AddToWatchHistory prepends a video reference; most recent first, duplicates
// allowed.
func (s *ProfileService) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return domain.Internal("failed to load user")
	}

	user.WatchHistory = append([]string{videoID.String()}, user.WatchHistory...)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return domain.Internal("failed to update watch history")
	}
	return nil
}
