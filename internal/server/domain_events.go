package server

import (
	"blogapi/internal/events"
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// emit hands an event to the background publisher. It never fails the request.
func (s *Server) emit(c *fiber.Ctx, t events.Type, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Emit(c.UserContext(), t, payload)
}

func (s *Server) emitPost(c *fiber.Ctx, t events.Type, post *models.Post) {
	s.emit(c, t, map[string]any{
		"post_id":   post.ID,
		"author_id": post.AuthorID,
		"title":     post.Title,
	})
}

func (s *Server) emitComment(c *fiber.Ctx, t events.Type, comment *models.Comment) {
	s.emit(c, t, map[string]any{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
	})
}
