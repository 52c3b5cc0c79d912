package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is given to every generated account.
const DefaultPassword = "password123"

// Options controls how much demo content Run generates.
// Zero Users seeds categories only.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	Password        string
	Clean           bool
}

// Summary counts what a run wrote.
type Summary struct {
	Categories int
	Users      int
	Posts      int
	Comments   int
}

// Seeder writes through the same repositories the API uses.
type Seeder struct {
	db         *gorm.DB
	users      repository.UserRepository
	categories repository.CategoryRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	hasher     *auth.PasswordHasher
	faker      *gofakeit.Faker
}

// NewSeeder binds a seeder to db. A zero seed picks a random one.
func NewSeeder(db *gorm.DB, hasher *auth.PasswordHasher, seed int64) *Seeder {
	return &Seeder{
		db:         db,
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		posts:      repository.NewPostRepository(db),
		comments:   repository.NewCommentRepository(db),
		hasher:     hasher,
		faker:      gofakeit.New(seed),
	}
}

// Run upserts the catalog and then generates users, posts and comments.
func (s *Seeder) Run(ctx context.Context, catalog *Catalog, opts Options) (Summary, error) {
	var sum Summary

	if opts.Clean {
		if err := s.Clear(ctx); err != nil {
			return sum, err
		}
	}

	categories, err := s.Categories(ctx, catalog)
	if err != nil {
		return sum, err
	}
	sum.Categories = len(categories)

	if opts.Users <= 0 {
		return sum, nil
	}

	password := opts.Password
	if password == "" {
		password = DefaultPassword
	}
	users, err := s.Users(ctx, opts.Users, password)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)

	posts, comments, err := s.Content(ctx, users, categories, opts.PostsPerUser, opts.CommentsPerPost)
	sum.Posts, sum.Comments = posts, comments
	return sum, err
}

// Clear removes every user, post and comment. Categories are kept.
func (s *Seeder) Clear(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Categories upserts every catalog entry by name and returns the stored rows.
func (s *Seeder) Categories(ctx context.Context, catalog *Catalog) ([]models.Category, error) {
	if catalog == nil {
		catalog = &DefaultCatalog
	}

	out := make([]models.Category, 0, len(catalog.Categories))
	for _, entry := range catalog.Categories {
		category := models.Category{Name: entry.Name, IsActive: true}
		if err := s.categories.Upsert(ctx, &category); err != nil {
			return nil, fmt.Errorf("upsert category %q: %w", entry.Name, err)
		}
		// An insert with is_active=false would fall back to the column default.
		if !entry.IsActive() {
			if err := s.db.WithContext(ctx).Model(&models.Category{}).
				Where("id = ?", category.ID).
				Update("is_active", false).Error; err != nil {
				return nil, fmt.Errorf("deactivate category %q: %w", entry.Name, err)
			}
			category.IsActive = false
		}
		out = append(out, category)
	}
	return out, nil
}

// Users creates n verified normal-login accounts sharing one password.
func (s *Seeder) Users(ctx context.Context, n int, password string) ([]models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s_%d", sanitizeUsername(s.faker.Username()), i+1)
		user := models.User{
			Fullname:    s.faker.Name(),
			Username:    username,
			Email:       strings.ToLower(username) + "@" + s.faker.DomainName(),
			Password:    &hash,
			CountryCode: "+1",
			ProfilePic:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
			LoginType:   models.LoginTypeNormal,
			IsActive:    true,
			IsVerified:  true,
			Step:        1,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// Content gives every user postsPerUser posts in random active categories,
// each with up to commentsPerPost comments by random users.
func (s *Seeder) Content(ctx context.Context, users []models.User, categories []models.Category, postsPerUser, commentsPerPost int) (int, int, error) {
	if len(users) == 0 || postsPerUser <= 0 {
		return 0, 0, nil
	}

	active := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsActive {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return 0, 0, errors.New("no active categories to post into")
	}

	var posts, comments int
	for _, author := range users {
		for i := 0; i < postsPerUser; i++ {
			category := active[s.faker.IntRange(0, len(active)-1)]
			post := models.Post{
				Title:      strings.TrimSuffix(s.faker.Sentence(s.faker.IntRange(3, 8)), "."),
				Content:    s.faker.Paragraph(s.faker.IntRange(1, 3), 4, 12, "\n\n"),
				AuthorID:   author.ID,
				CategoryID: &category.ID,
				IsActive:   true,
			}
			if s.faker.Bool() {
				image := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", s.faker.UUID())
				post.ImageURL = &image
			}
			if err := s.posts.Create(ctx, &post); err != nil {
				return posts, comments, fmt.Errorf("create post: %w", err)
			}
			posts++

			for j := s.faker.IntRange(0, max(commentsPerPost, 0)); j > 0; j-- {
				comment := models.Comment{
					Comment:  s.faker.Sentence(s.faker.IntRange(4, 16)),
					PostID:   post.ID,
					AuthorID: users[s.faker.IntRange(0, len(users)-1)].ID,
				}
				if err := s.comments.Create(ctx, &comment); err != nil {
					return posts, comments, fmt.Errorf("create comment: %w", err)
				}
				comments++
			}
		}
	}
	return posts, comments, nil
}

// sanitizeUsername keeps the characters the profile validator accepts.
func sanitizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) < 3 {
		name = "user" + name
	}
	if len(name) > 40 {
		name = name[:40]
	}
	return name
}
