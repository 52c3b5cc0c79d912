package service

import (
	"context"
	"errors"

	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

const msgCommentNotOwned = "Comment not found or unauthorized"

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// CommentPage is one page of a post's comments.
type CommentPage struct {
	Comments []models.Comment
	Page     Page
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

func (s *CommentService) requireLivePost(ctx context.Context, postID uint) error {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !exists {
		return models.NewNotFoundError("Post not found")
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, authorID uint, in validation.CreateCommentInput) (*models.Comment, error) {
	if err := s.requireLivePost(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Comment: in.Comment, PostID: in.PostID, AuthorID: authorID}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, page int) (*CommentPage, error) {
	if err := s.requireLivePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, total, err := s.comments.ListByPost(ctx, postID, CommentsPageSize, offsetFor(page, CommentsPageSize))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if total == 0 {
		return nil, models.NewNotFoundError("No comments found for this post")
	}
	meta, err := pageFor(page, CommentsPageSize, total)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: comments, Page: meta}, nil
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, models.NewNotFoundError("Comment not found")
	case err != nil:
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) owned(ctx context.Context, id, authorID uint) (*models.Comment, error) {
	comment, err := s.comments.GetOwned(ctx, id, authorID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, models.NewNotFoundError(msgCommentNotOwned)
	case err != nil:
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, id, authorID uint, in validation.UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.owned(ctx, id, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateText(ctx, comment.ID, in.Comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	comment.Comment = in.Comment
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, id, authorID uint) (*models.Comment, error) {
	comment, err := s.owned(ctx, id, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}
