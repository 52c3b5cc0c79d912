package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

const msgPostNotOwned = "Post not found or unauthorized"

type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
}

// PostPage is one page of posts.
type PostPage struct {
	Posts []models.Post
	Page  Page
}

// DeletedPost identifies a post removed by a delete operation.
type DeletedPost struct {
	ID        uint
	Title     string
	DeletedAt time.Time
}

func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository) *PostService {
	return &PostService{posts: posts, categories: categories}
}

func (s *PostService) requireCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return models.NewValidationError("Invalid category ID. Category does not exist.")
	}
	exists, err := s.categories.Exists(ctx, *id)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !exists {
		return models.NewValidationError("Invalid category ID. Category does not exist.")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint, in validation.CreatePostInput) (*models.Post, error) {
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		AuthorID:   authorID,
		CategoryID: in.CategoryID,
		IsActive:   true,
	}
	if in.ImageURL != "" {
		post.ImageURL = &in.ImageURL
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, page int) (*PostPage, error) {
	posts, total, err := s.posts.List(ctx, PostsPageSize, offsetFor(page, PostsPageSize))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	meta, err := pageFor(page, PostsPageSize, total)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Page: meta}, nil
}

func (s *PostService) ListByCategory(ctx context.Context, categoryName string, page int) (*PostPage, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return nil, models.NewMissingFieldsError("category_name is required")
	}

	posts, total, err := s.posts.ListByCategoryName(ctx, categoryName, CategoryPostsPageSize, offsetFor(page, CategoryPostsPageSize))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	meta, err := pageFor(page, CategoryPostsPageSize, total)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, models.NewNotFoundError(fmt.Sprintf("No posts found in category '%s'", categoryName))
	}
	return &PostPage{Posts: posts, Page: meta}, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, models.NewNotFoundError("Post not found")
	case err != nil:
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) owned(ctx context.Context, id, authorID uint, includeDeleted bool) (*models.Post, error) {
	var (
		post *models.Post
		err  error
	)
	if includeDeleted {
		post, err = s.posts.GetOwnedAny(ctx, id, authorID)
	} else {
		post, err = s.posts.GetOwned(ctx, id, authorID)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, models.NewNotFoundError(msgPostNotOwned)
	case err != nil:
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// UpdatePost applies the provided fields. An empty image_url clears the image.
func (s *PostService) UpdatePost(ctx context.Context, id, authorID uint, in validation.UpdatePostInput) (*models.Post, error) {
	if _, err := s.owned(ctx, id, authorID, false); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if err := s.requireCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.ImageURL != nil {
		if *in.ImageURL == "" {
			fields["image_url"] = nil
		} else {
			fields["image_url"] = *in.ImageURL
		}
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}

	if err := s.posts.UpdateFields(ctx, id, fields); err != nil {
		return nil, models.NewInternalError(err)
	}

	updated, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return updated, nil
}

// SoftDeletePost flags a live post as deleted. A second call finds nothing.
func (s *PostService) SoftDeletePost(ctx context.Context, id, authorID uint) (*DeletedPost, error) {
	post, err := s.owned(ctx, id, authorID, false)
	if err != nil {
		return nil, err
	}
	if err := s.posts.SoftDelete(ctx, post.ID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &DeletedPost{ID: post.ID, Title: post.Title, DeletedAt: time.Now().UTC()}, nil
}

// HardDeletePost removes the row, including one that was already soft-deleted.
func (s *PostService) HardDeletePost(ctx context.Context, id, authorID uint) (*DeletedPost, error) {
	post, err := s.owned(ctx, id, authorID, true)
	if err != nil {
		return nil, err
	}
	if err := s.posts.HardDelete(ctx, post.ID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &DeletedPost{ID: post.ID, Title: post.Title, DeletedAt: time.Now().UTC()}, nil
}
