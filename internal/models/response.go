package models

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the common response shape for every endpoint.
type Envelope struct {
	Code       Code        `json:"code"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a page of a list response. TotalLabel names the total
// field on the wire, e.g. "totalPosts" or "totalComments".
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int64
	TotalLabel  string
}

func (p Pagination) MarshalJSON() ([]byte, error) {
	label := p.TotalLabel
	if label == "" {
		label = "total"
	}
	return json.Marshal(map[string]any{
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		label:         p.Total,
	})
}

// RespondSuccess writes a success envelope with the given HTTP status.
func RespondSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// RespondPage writes a paginated success envelope.
func RespondPage(c *fiber.Ctx, data any, page Pagination) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Code:       CodeSuccess,
		Data:       data,
		Pagination: &page,
	})
}
