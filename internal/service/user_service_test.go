package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "service-test-secret-at-least-32-chars"

func newTestUserService(users repository.UserRepository) *UserService {
	return NewUserService(users, auth.NewPasswordHasher(4), auth.NewTokenService(testSecret, "blogapi", time.Hour))
}

func hashed(t *testing.T, plain string) *string {
	t.Helper()
	h, err := auth.NewPasswordHasher(4).Hash(plain)
	require.NoError(t, err)
	return &h
}

func normalUser(t *testing.T) *models.User {
	t.Helper()
	return &models.User{
		ID:         7,
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   hashed(t, "secret1"),
		LoginType:  models.LoginTypeNormal,
		IsActive:   true,
		IsVerified: true,
	}
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("normal signup hashes the password", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var created *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 1
			created = u
			return nil
		}

		svc := newTestUserService(repo)
		user, err := svc.Register(context.Background(), validation.RegisterInput{
			Fullname: "Alice", Username: "alice", Email: "alice@example.com", Password: "secret1",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, uint(1), user.ID)
		assert.Equal(t, models.LoginTypeNormal, user.LoginType)
		assert.True(t, user.IsActive)
		assert.True(t, user.IsVerified)
		assert.Equal(t, 1, user.Step)
		assert.Nil(t, user.Phone)
		require.NotNil(t, user.Password)
		assert.NotEqual(t, "secret1", *user.Password)
		assert.True(t, auth.NewPasswordHasher(4).Verify("secret1", *user.Password))
	})

	t.Run("social signup stores no password", func(t *testing.T) {
		t.Parallel()
		svc := newTestUserService(noopUserRepo())
		user, err := svc.Register(context.Background(), validation.RegisterInput{
			Fullname: "Bob", Username: "bob", SocialID: "g-123", Phone: "5551234",
		})
		require.NoError(t, err)
		assert.Equal(t, models.LoginTypeSocial, user.LoginType)
		assert.Nil(t, user.Password)
		require.NotNil(t, user.SocialID)
		assert.Equal(t, "g-123", *user.SocialID)
		assert.Equal(t, "5551234", user.PhoneNumber())
	})

	t.Run("email conflict wins over username", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.existsByEmailFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
		repo.existsByUsernameFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
		repo.createFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("create must not be called on conflict")
			return nil
		}

		_, err := newTestUserService(repo).Register(context.Background(), validation.RegisterInput{
			Fullname: "A", Username: "alice", Email: "alice@example.com", Password: "secret1",
		})
		assertAppError(t, err, fiber.StatusConflict, models.CodeAlreadyExists, "Email alice@example.com already exists.")
	})

	t.Run("username conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.existsByUsernameFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

		_, err := newTestUserService(repo).Register(context.Background(), validation.RegisterInput{
			Fullname: "A", Username: "alice", Email: "alice@example.com", Password: "secret1",
		})
		assertAppError(t, err, fiber.StatusConflict, models.CodeAlreadyExists, "Username alice already exists.")
	})

	t.Run("phone conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.existsByPhoneFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

		_, err := newTestUserService(repo).Register(context.Background(), validation.RegisterInput{
			Fullname: "A", Username: "alice", Email: "alice@example.com", Password: "secret1", Phone: "5551234",
		})
		assertAppError(t, err, fiber.StatusConflict, models.CodeAlreadyExists, "Phone 5551234 already exists.")
	})

	t.Run("empty email is not checked", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.existsByEmailFn = func(_ context.Context, _ string) (bool, error) {
			t.Error("empty email must not be looked up")
			return true, nil
		}

		_, err := newTestUserService(repo).Register(context.Background(), validation.RegisterInput{
			Fullname: "A", Username: "social", SocialID: "g-1",
		})
		require.NoError(t, err)
	})

	t.Run("unique index race is a conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, _ *models.User) error {
			return errors.Join(repository.ErrDuplicate, errors.New("UNIQUE constraint failed: tbl_user.email"))
		}

		_, err := newTestUserService(repo).Register(context.Background(), validation.RegisterInput{
			Fullname: "A", Username: "alice", Email: "alice@example.com", Password: "secret1",
		})
		assertAppError(t, err, fiber.StatusConflict, models.CodeAlreadyExists, "User already exists")
	})

	t.Run("lookup failure is internal", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.existsByUsernameFn = func(_ context.Context, _ string) (bool, error) { return false, errors.New("db down") }

		_, err := newTestUserService(repo).Register(context.Background(), validation.RegisterInput{
			Fullname: "A", Username: "alice", Email: "alice@example.com", Password: "secret1",
		})
		assertAppError(t, err, fiber.StatusInternalServerError, models.CodeOperationFailed, models.MsgSomethingWentWrong)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	t.Run("valid password issues a token", func(t *testing.T) {
		t.Parallel()
		user := normalUser(t)
		repo := noopUserRepo()
		repo.findNormalFn = func(_ context.Context, id string) (*models.User, error) {
			assert.Equal(t, "alice@example.com", id)
			return user, nil
		}
		var updated map[string]any
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]any) error {
			updated = fields
			return nil
		}

		svc := newTestUserService(repo)
		res, err := svc.Login(context.Background(), validation.LoginInput{LoginEmailPhone: "alice@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"is_login": true}, updated)
		assert.True(t, res.User.IsLogin)

		claims, err := auth.NewTokenService(testSecret, "blogapi", time.Hour).Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, auth.Identity{ID: 7, Email: "alice@example.com", Username: "alice"}, claims.Identity())
	})

	t.Run("social login skips the password", func(t *testing.T) {
		t.Parallel()
		social := "g-1"
		repo := noopUserRepo()
		repo.findSocialFn = func(_ context.Context, email, socialID string) (*models.User, error) {
			assert.Equal(t, "bob@example.com", email)
			assert.Equal(t, "g-1", socialID)
			return &models.User{ID: 3, Username: "bob", LoginType: models.LoginTypeSocial, SocialID: &social, IsActive: true, IsVerified: true}, nil
		}

		res, err := newTestUserService(repo).Login(context.Background(), validation.LoginInput{LoginEmailPhone: "bob@example.com", SocialID: "g-1"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	tests := []struct {
		name    string
		mutate  func(u *models.User)
		pass    string
		status  int
		code    models.Code
		message string
	}{
		{"wrong password", nil, "wrong-pass", fiber.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid credentials"},
		{"deleted account", func(u *models.User) { u.IsDeleted = true }, "secret1", fiber.StatusNotFound, models.CodeUserAccountNotFound, "User account not found"},
		{"inactive account", func(u *models.User) { u.IsActive = false }, "secret1", fiber.StatusForbidden, models.CodeInactiveAccount, models.NewInactiveAccountError().Message},
		{"unverified account", func(u *models.User) { u.IsVerified = false }, "secret1", fiber.StatusForbidden, models.CodeOTPNotVerified, models.NewNotVerifiedError().Message},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user := normalUser(t)
			if tt.mutate != nil {
				tt.mutate(user)
			}
			repo := noopUserRepo()
			repo.findNormalFn = func(_ context.Context, _ string) (*models.User, error) { return user, nil }
			repo.updateFieldsFn = func(_ context.Context, _ uint, _ map[string]any) error {
				t.Error("failed login must not mark the session")
				return nil
			}

			_, err := newTestUserService(repo).Login(context.Background(), validation.LoginInput{LoginEmailPhone: "alice@example.com", Password: tt.pass})
			appErr := models.AsAppError(err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, tt.status, appErr.Status)
		})
	}

	t.Run("unknown account", func(t *testing.T) {
		t.Parallel()
		_, err := newTestUserService(noopUserRepo()).Login(context.Background(), validation.LoginInput{LoginEmailPhone: "nobody@example.com", Password: "secret1"})
		assertAppError(t, err, fiber.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid credentials")
	})
}

func TestUserService_Logout(t *testing.T) {
	t.Parallel()

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		err := newTestUserService(noopUserRepo()).Logout(context.Background(), 99)
		assertAppError(t, err, fiber.StatusNotFound, models.CodeUserAccountNotFound, "User not found")
	})

	t.Run("clears the session flag", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id, IsLogin: true}, nil }
		var updated map[string]any
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]any) error {
			updated = fields
			return nil
		}

		require.NoError(t, newTestUserService(repo).Logout(context.Background(), 7))
		assert.Equal(t, map[string]any{"is_login": false}, updated)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Parallel()

	t.Run("social account is not eligible", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, LoginType: models.LoginTypeSocial}, nil
		}
		err := newTestUserService(repo).ChangePassword(context.Background(), 3, validation.ChangePasswordInput{OldPassword: "x", NewPassword: "secret2"})
		assertAppError(t, err, fiber.StatusNotFound, models.CodeUserAccountNotFound, "User not found or not eligible for password change")
	})

	t.Run("old password must match", func(t *testing.T) {
		t.Parallel()
		user := normalUser(t)
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return user, nil }

		err := newTestUserService(repo).ChangePassword(context.Background(), 7, validation.ChangePasswordInput{OldPassword: "nope123", NewPassword: "secret2"})
		assertAppError(t, err, fiber.StatusUnauthorized, models.CodeInvalidCredentials, "Old password does not match")
	})

	t.Run("stores a new hash", func(t *testing.T) {
		t.Parallel()
		user := normalUser(t)
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return user, nil }
		var stored string
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]any) error {
			stored, _ = fields["password"].(string)
			return nil
		}

		err := newTestUserService(repo).ChangePassword(context.Background(), 7, validation.ChangePasswordInput{OldPassword: "secret1", NewPassword: "secret2"})
		require.NoError(t, err)
		assert.True(t, auth.NewPasswordHasher(4).Verify("secret2", stored))
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		user    *models.User
		status  int
		code    models.Code
		message string
	}{
		{"not logged in", &models.User{ID: 1, LoginType: models.LoginTypeNormal}, fiber.StatusUnauthorized, models.CodeUnauthorized, "You must be logged in to reset password"},
		{"social account", &models.User{ID: 1, LoginType: models.LoginTypeSocial, IsLogin: true}, fiber.StatusForbidden, models.CodeOperationNotAllowed, "Password reset is not allowed for social login users"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := noopUserRepo()
			repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return tt.user, nil }
			err := newTestUserService(repo).ResetPassword(context.Background(), 1, validation.ResetPasswordInput{NewPassword: "secret2"})
			appErr := models.AsAppError(err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, tt.status, appErr.Status)
		})
	}

	t.Run("logged in normal account", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return &models.User{ID: 1, LoginType: models.LoginTypeNormal, IsLogin: true}, nil
		}
		require.NoError(t, newTestUserService(repo).ResetPassword(context.Background(), 1, validation.ResetPasswordInput{NewPassword: "secret2"}))
	})
}

func TestUserService_EditProfile(t *testing.T) {
	t.Parallel()

	strPtr := func(s string) *string { return &s }

	loggedIn := func() *userRepoStub {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", Email: "alice@example.com", IsLogin: true}, nil
		}
		return repo
	}

	t.Run("requires a session", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil }
		_, err := newTestUserService(repo).EditProfile(context.Background(), 1, validation.EditProfileInput{Fullname: strPtr("X")})
		assertAppError(t, err, fiber.StatusUnauthorized, models.CodeUnauthorized, "You must be logged in to edit profile")
	})

	t.Run("taken email", func(t *testing.T) {
		t.Parallel()
		repo := loggedIn()
		repo.existsByEmailFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
		_, err := newTestUserService(repo).EditProfile(context.Background(), 1, validation.EditProfileInput{Email: strPtr("bob@example.com")})
		assertAppError(t, err, fiber.StatusConflict, models.CodeAlreadyExists, "Email 'bob@example.com' already exists.")
	})

	t.Run("unchanged username is not checked", func(t *testing.T) {
		t.Parallel()
		repo := loggedIn()
		repo.existsByUsernameFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
		user, err := newTestUserService(repo).EditProfile(context.Background(), 1, validation.EditProfileInput{Username: strPtr("alice")})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("applies present fields only", func(t *testing.T) {
		t.Parallel()
		repo := loggedIn()
		var updated map[string]any
		repo.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]any) error {
			updated = fields
			return nil
		}
		user, err := newTestUserService(repo).EditProfile(context.Background(), 1, validation.EditProfileInput{
			Fullname: strPtr("Alice B"),
			Phone:    strPtr("5550000"),
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"fullname": "Alice B", "phone": "5550000"}, updated)
		assert.Equal(t, "Alice B", user.Fullname)
		assert.Equal(t, "5550000", user.PhoneNumber())
		assert.Equal(t, "alice@example.com", user.Email)
	})
}
