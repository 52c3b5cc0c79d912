package server

import (
	"blogapi/internal/events"
	"blogapi/internal/models"
	"blogapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /v1/posts/create-posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in validation.CreatePostInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), identity.ID, in)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emitPost(c, events.PostCreated, post)
	return models.RespondSuccess(c, fiber.StatusCreated, "Post created successfully", newPostView(post))
}

// GetPosts handles GET /v1/posts/get-all-posts?page=N
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPosts(c.UserContext(), parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondPage(c, newPostViews(page.Posts), pagination(page.Page, "totalPosts"))
}

// GetCategoryPosts handles GET /v1/posts/get-all-category-posts?category_name=X&page=N
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListByCategory(c.UserContext(), c.Query("category_name"), parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondPage(c, newPostViews(page.Posts), pagination(page.Page, "totalPosts"))
}

// GetPost handles GET /v1/posts/get-single-post/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", msgInvalidPostID)
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", newPostView(post))
}

// UpdatePost handles POST /v1/posts/update-posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var in validation.UpdatePostInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}
	id, err := parseID(c, "id", msgInvalidPostID)
	if err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), id, identity.ID, in)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emitPost(c, events.PostUpdated, post)
	return models.RespondSuccess(c, fiber.StatusOK, "Post updated successfully", newPostView(post))
}

// SoftDeletePost handles POST /v1/posts/soft-delete-posts/:id
func (s *Server) SoftDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", msgInvalidPostID)
	if err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	deleted, err := s.postService.SoftDeletePost(c.UserContext(), id, identity.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emitPost(c, events.PostSoftDeleted, &models.Post{ID: deleted.ID, Title: deleted.Title, AuthorID: identity.ID})
	return models.RespondSuccess(c, fiber.StatusOK, "Post deleted successfully", deletedPostView{
		ID:        deleted.ID,
		Title:     deleted.Title,
		DeletedAt: &deleted.DeletedAt,
	})
}

// HardDeletePost handles POST /v1/posts/hard-delete-posts/:id. Already soft-deleted posts qualify.
func (s *Server) HardDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", msgInvalidPostID)
	if err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	deleted, err := s.postService.HardDeletePost(c.UserContext(), id, identity.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emitPost(c, events.PostHardDeleted, &models.Post{ID: deleted.ID, Title: deleted.Title, AuthorID: identity.ID})
	return models.RespondSuccess(c, fiber.StatusOK, "Post permanently deleted", deletedPostView{
		ID:    deleted.ID,
		Title: deleted.Title,
	})
}
