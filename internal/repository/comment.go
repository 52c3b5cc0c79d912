package repository

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

const commentsTable = "tbl_comments"

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error)
	GetOwned(ctx context.Context, id, authorID uint) (*models.Comment, error)
	UpdateText(ctx context.Context, id uint, text string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", commentsTable)()
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	defer observability.TrackQuery("select", commentsTable)()
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error) {
	defer observability.TrackQuery("select", commentsTable)()

	var total int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err = r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, total, err
}

// GetOwned scopes the lookup to {id, author_id}.
func (r *commentRepository) GetOwned(ctx context.Context, id, authorID uint) (*models.Comment, error) {
	defer observability.TrackQuery("select", commentsTable)()
	var comment models.Comment
	err := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) UpdateText(ctx context.Context, id uint, text string) error {
	defer observability.TrackQuery("update", commentsTable)()
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("comment", text).Error
	return translate(err)
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", commentsTable)()
	return translate(r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error)
}
