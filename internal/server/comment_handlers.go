package server

import (
	"blogapi/internal/events"
	"blogapi/internal/models"
	"blogapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /v1/comments/create-comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var in validation.CreateCommentInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), identity.ID, in)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emitComment(c, events.CommentCreated, comment)
	return models.RespondSuccess(c, fiber.StatusCreated, "Comment created successfully", newCommentView(comment))
}

// GetComments handles GET /v1/comments/get-post-comments?post_id=N&page=N
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseUint(c.Query("post_id"), "post_id is required and must be a valid number")
	if err != nil {
		return s.respondError(c, err)
	}

	page, err := s.commentService.ListComments(c.UserContext(), postID, parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondPage(c, newCommentViews(page.Comments), pagination(page.Page, "totalComments"))
}

// GetComment handles GET /v1/comments/get-single-comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id", msgInvalidCommentID)
	if err != nil {
		return s.respondError(c, err)
	}

	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "", newCommentView(comment))
}

// UpdateComment handles POST /v1/comments/update-comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	var in validation.UpdateCommentInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}
	id, err := parseID(c, "id", msgInvalidCommentID)
	if err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), id, identity.ID, in)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emitComment(c, events.CommentUpdated, comment)
	return models.RespondSuccess(c, fiber.StatusOK, "Comment updated successfully", nil)
}

// DeleteComment handles POST /v1/comments/delete-comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id", msgInvalidCommentID)
	if err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	comment, err := s.commentService.DeleteComment(c.UserContext(), id, identity.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emitComment(c, events.CommentDeleted, comment)
	return models.RespondSuccess(c, fiber.StatusOK, "Comment deleted successfully", nil)
}
