package server

import (
	"time"

	"blogapi/internal/models"
	"blogapi/internal/service"
)

// userSummary is the public face of an account in user responses.
type userSummary struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func newUserSummary(u *models.User) userSummary {
	return userSummary{ID: u.ID, Email: u.Email, Username: u.Username}
}

type loginUser struct {
	userSummary
	Token string `json:"token"`
}

type loginView struct {
	User loginUser `json:"user"`
}

type categoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type postView struct {
	ID         uint          `json:"id"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	ImageURL   *string       `json:"image_url"`
	AuthorID   uint          `json:"author_id"`
	CategoryID *uint         `json:"category_id"`
	IsActive   bool          `json:"is_active"`
	IsDeleted  bool          `json:"is_deleted"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Author     *userSummary  `json:"author,omitempty"`
	Category   *categoryView `json:"category,omitempty"`
}

func newPostView(p *models.Post) postView {
	v := postView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		ImageURL:   p.ImageURL,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		IsActive:   p.IsActive,
		IsDeleted:  p.IsDeleted,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Author != nil {
		author := newUserSummary(p.Author)
		v.Author = &author
	}
	if p.Category != nil {
		v.Category = &categoryView{ID: p.Category.ID, Name: p.Category.Name}
	}
	return v
}

func newPostViews(posts []models.Post) []postView {
	out := make([]postView, 0, len(posts))
	for i := range posts {
		out = append(out, newPostView(&posts[i]))
	}
	return out
}

// deletedPostView answers both delete flavours. Hard deletes carry no timestamp.
type deletedPostView struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type commentView struct {
	ID        uint         `json:"id"`
	Comment   string       `json:"comment"`
	PostID    uint         `json:"post_id"`
	AuthorID  uint         `json:"author_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Author    *userSummary `json:"author,omitempty"`
}

func newCommentView(cm *models.Comment) commentView {
	v := commentView{
		ID:        cm.ID,
		Comment:   cm.Comment,
		PostID:    cm.PostID,
		AuthorID:  cm.AuthorID,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
	if cm.Author != nil {
		author := newUserSummary(cm.Author)
		v.Author = &author
	}
	return v
}

func newCommentViews(comments []models.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentView(&comments[i]))
	}
	return out
}

func pagination(p service.Page, label string) models.Pagination {
	return models.Pagination{
		CurrentPage: p.Current,
		TotalPages:  p.TotalPages,
		Total:       p.Total,
		TotalLabel:  label,
	}
}
