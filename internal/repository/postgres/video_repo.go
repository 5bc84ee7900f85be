package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/domain"
	"gorm.io/gorm"
)

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *videoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	var video domain.Video
	err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []*domain.Video
	err := r.db.WithContext(ctx).Find(&videos, "id IN ?", ids).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
