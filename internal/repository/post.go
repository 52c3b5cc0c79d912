package repository

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

const postsTable = "tbl_posts"

// PostRepository defines the interface for post data operations.
// Every read except GetOwnedAny excludes soft-deleted rows.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, int64, error)
	ListByCategoryName(ctx context.Context, name string, limit, offset int) ([]models.Post, int64, error)
	GetOwned(ctx context.Context, id, authorID uint) (*models.Post, error)
	GetOwnedAny(ctx context.Context, id, authorID uint) (*models.Post, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	SoftDelete(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where(postsTable+".is_deleted = ?", false)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", postsTable)()
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("select", postsTable)()
	var post models.Post
	err := r.live(ctx).
		Preload("Author").
		Preload("Category").
		Where(postsTable+".id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	defer observability.TrackQuery("count", postsTable)()
	var count int64
	err := r.live(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns one page of live posts, newest first, and the live total.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	defer observability.TrackQuery("select", postsTable)()

	var total int64
	if err := r.live(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.live(ctx).
		Preload("Author").
		Preload("Category").
		Order(postsTable + ".created_at DESC").
		Order(postsTable + ".id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

// ListByCategoryName joins on the category name rather than trusting a client-supplied id.
func (r *postRepository) ListByCategoryName(ctx context.Context, name string, limit, offset int) ([]models.Post, int64, error) {
	defer observability.TrackQuery("select", postsTable)()

	scoped := func() *gorm.DB {
		return r.live(ctx).
			Model(&models.Post{}).
			Joins("JOIN "+categoriesTable+" ON "+categoriesTable+".id = "+postsTable+".category_id").
			Where(categoriesTable+".name = ?", name)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := scoped().
		Preload("Author").
		Preload("Category").
		Order(postsTable + ".created_at DESC").
		Order(postsTable + ".id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

// GetOwned scopes the lookup to {id, author_id, is_deleted=false}.
func (r *postRepository) GetOwned(ctx context.Context, id, authorID uint) (*models.Post, error) {
	defer observability.TrackQuery("select", postsTable)()
	var post models.Post
	err := r.live(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetOwnedAny scopes the lookup to {id, author_id} and ignores is_deleted.
func (r *postRepository) GetOwnedAny(ctx context.Context, id, authorID uint) (*models.Post, error) {
	defer observability.TrackQuery("select", postsTable)()
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	defer observability.TrackQuery("update", postsTable)()
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error
	return translate(err)
}

func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.UpdateFields(ctx, id, map[string]any{"is_deleted": true})
}

func (r *postRepository) HardDelete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", postsTable)()
	return translate(r.db.WithContext(ctx).Delete(&models.Post{}, id).Error)
}
