package service

import (
	"context"
	"errors"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn           func(context.Context, *models.User) error
	getByIDFn          func(context.Context, uint) (*models.User, error)
	findSocialFn       func(context.Context, string, string) (*models.User, error)
	findNormalFn       func(context.Context, string) (*models.User, error)
	existsByEmailFn    func(context.Context, string) (bool, error)
	existsByUsernameFn func(context.Context, string) (bool, error)
	existsByPhoneFn    func(context.Context, string) (bool, error)
	updateFieldsFn     func(context.Context, uint, map[string]any) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) FindSocial(ctx context.Context, email, socialID string) (*models.User, error) {
	return s.findSocialFn(ctx, email, socialID)
}
func (s *userRepoStub) FindNormal(ctx context.Context, emailOrPhone string) (*models.User, error) {
	return s.findNormalFn(ctx, emailOrPhone)
}
func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.existsByUsernameFn(ctx, username)
}
func (s *userRepoStub) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return s.existsByPhoneFn(ctx, phone)
}
func (s *userRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return s.updateFieldsFn(ctx, id, fields)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:           func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:          func(_ context.Context, _ uint) (*models.User, error) { return nil, repository.ErrNotFound },
		findSocialFn:       func(_ context.Context, _, _ string) (*models.User, error) { return nil, repository.ErrNotFound },
		findNormalFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, repository.ErrNotFound },
		existsByEmailFn:    func(_ context.Context, _ string) (bool, error) { return false, nil },
		existsByUsernameFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		existsByPhoneFn:    func(_ context.Context, _ string) (bool, error) { return false, nil },
		updateFieldsFn:     func(_ context.Context, _ uint, _ map[string]any) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uint) (*models.Post, error)
	existsFn             func(context.Context, uint) (bool, error)
	listFn               func(context.Context, int, int) ([]models.Post, int64, error)
	listByCategoryNameFn func(context.Context, string, int, int) ([]models.Post, int64, error)
	getOwnedFn           func(context.Context, uint, uint) (*models.Post, error)
	getOwnedAnyFn        func(context.Context, uint, uint) (*models.Post, error)
	updateFieldsFn       func(context.Context, uint, map[string]any) error
	softDeleteFn         func(context.Context, uint) error
	hardDeleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByCategoryName(ctx context.Context, name string, limit, offset int) ([]models.Post, int64, error) {
	return s.listByCategoryNameFn(ctx, name, limit, offset)
}
func (s *postRepoStub) GetOwned(ctx context.Context, id, authorID uint) (*models.Post, error) {
	return s.getOwnedFn(ctx, id, authorID)
}
func (s *postRepoStub) GetOwnedAny(ctx context.Context, id, authorID uint) (*models.Post, error) {
	return s.getOwnedAnyFn(ctx, id, authorID)
}
func (s *postRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}
func (s *postRepoStub) HardDelete(ctx context.Context, id uint) error {
	return s.hardDeleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:             func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:            func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		existsFn:             func(_ context.Context, _ uint) (bool, error) { return true, nil },
		listFn:               func(_ context.Context, _, _ int) ([]models.Post, int64, error) { return nil, 0, nil },
		listByCategoryNameFn: func(_ context.Context, _ string, _, _ int) ([]models.Post, int64, error) { return nil, 0, nil },
		getOwnedFn:           func(_ context.Context, _, _ uint) (*models.Post, error) { return nil, repository.ErrNotFound },
		getOwnedAnyFn:        func(_ context.Context, _, _ uint) (*models.Post, error) { return nil, repository.ErrNotFound },
		updateFieldsFn:       func(_ context.Context, _ uint, _ map[string]any) error { return nil },
		softDeleteFn:         func(_ context.Context, _ uint) error { return nil },
		hardDeleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	existsFn    func(context.Context, uint) (bool, error)
	getByNameFn func(context.Context, string) (*models.Category, error)
	listFn      func(context.Context) ([]models.Category, error)
	upsertFn    func(context.Context, *models.Category) error
}

func (s *categoryRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *categoryRepoStub) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getByNameFn(ctx, name)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Upsert(ctx context.Context, category *models.Category) error {
	return s.upsertFn(ctx, category)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		existsFn:    func(_ context.Context, _ uint) (bool, error) { return true, nil },
		getByNameFn: func(_ context.Context, _ string) (*models.Category, error) { return nil, repository.ErrNotFound },
		listFn:      func(_ context.Context) ([]models.Category, error) { return nil, nil },
		upsertFn:    func(_ context.Context, _ *models.Category) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]models.Comment, int64, error)
	getOwnedFn   func(context.Context, uint, uint) (*models.Comment, error)
	updateTextFn func(context.Context, uint, string) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) GetOwned(ctx context.Context, id, authorID uint) (*models.Comment, error) {
	return s.getOwnedFn(ctx, id, authorID)
}
func (s *commentRepoStub) UpdateText(ctx context.Context, id uint, text string) error {
	return s.updateTextFn(ctx, id, text)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint) (*models.Comment, error) { return nil, repository.ErrNotFound },
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, int64, error) { return nil, 0, nil },
		getOwnedFn:   func(_ context.Context, _, _ uint) (*models.Comment, error) { return nil, repository.ErrNotFound },
		updateTextFn: func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppError asserts that err is an AppError with the given status, code and message.
func assertAppError(t *testing.T, err error, status int, code models.Code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}
