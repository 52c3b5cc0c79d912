package repository

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const categoriesTable = "tbl_categories"

// CategoryRepository reads categories and lets the seeder create them.
type CategoryRepository interface {
	Exists(ctx context.Context, id uint) (bool, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Upsert(ctx context.Context, category *models.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	defer observability.TrackQuery("count", categoriesTable)()
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	defer observability.TrackQuery("select", categoriesTable)()
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	defer observability.TrackQuery("select", categoriesTable)()
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// Upsert inserts the category or refreshes is_active when the name already exists.
func (r *categoryRepository) Upsert(ctx context.Context, category *models.Category) error {
	defer observability.TrackQuery("upsert", categoriesTable)()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active"}),
	}).Create(category).Error
	if err != nil {
		return translate(err)
	}
	if category.ID == 0 {
		found, err := r.GetByName(ctx, category.Name)
		if err != nil {
			return err
		}
		category.ID = found.ID
	}
	return nil
}
