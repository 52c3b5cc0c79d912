package repository

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

const usersTable = "tbl_user"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	FindSocial(ctx context.Context, email, socialID string) (*models.User, error)
	FindNormal(ctx context.Context, emailOrPhone string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", usersTable)()
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("select", usersTable)()
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindSocial matches a social account by email and provider id. No secret is compared.
func (r *userRepository) FindSocial(ctx context.Context, email, socialID string) (*models.User, error) {
	defer observability.TrackQuery("select", usersTable)()
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND social_id = ? AND login_type = ?", email, socialID, models.LoginTypeSocial).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindNormal matches a password account by email or phone.
func (r *userRepository) FindNormal(ctx context.Context, emailOrPhone string) (*models.User, error) {
	defer observability.TrackQuery("select", usersTable)()
	var user models.User
	err := r.db.WithContext(ctx).
		Where("login_type = ?", models.LoginTypeNormal).
		Where(r.db.Where("email = ?", emailOrPhone).Or("phone = ?", emailOrPhone)).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *userRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone", phone)
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	defer observability.TrackQuery("count", usersTable)()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(column+" = ?", value).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateFields writes only the given columns.
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	defer observability.TrackQuery("update", usersTable)()
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
	return translate(err)
}
