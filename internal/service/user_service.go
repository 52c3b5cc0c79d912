// Package service holds the business rules behind each API operation.
package service

import (
	"context"
	"errors"
	"fmt"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/validation"

	"golang.org/x/sync/errgroup"
)

type UserService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

// LoginResult is a logged-in user and the token issued for it.
type LoginResult struct {
	User  *models.User
	Token string
}

func NewUserService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// uniqueness holds which of the requested values are already taken.
type uniqueness struct {
	email, username, phone bool
}

// checkUnique runs the lookups concurrently. Empty values are not checked.
func (s *UserService) checkUnique(ctx context.Context, email, username, phone string) (uniqueness, error) {
	var taken uniqueness
	g, gctx := errgroup.WithContext(ctx)

	if email != "" {
		g.Go(func() error {
			exists, err := s.users.ExistsByEmail(gctx, email)
			taken.email = exists
			return err
		})
	}
	if username != "" {
		g.Go(func() error {
			exists, err := s.users.ExistsByUsername(gctx, username)
			taken.username = exists
			return err
		})
	}
	if phone != "" {
		g.Go(func() error {
			exists, err := s.users.ExistsByPhone(gctx, phone)
			taken.phone = exists
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return uniqueness{}, models.NewInternalError(err)
	}
	return taken, nil
}

func registerConflict(in validation.RegisterInput, taken uniqueness) error {
	switch {
	case taken.email:
		return models.NewAlreadyExistsError(fmt.Sprintf("Email %s already exists.", in.Email))
	case taken.username:
		return models.NewAlreadyExistsError(fmt.Sprintf("Username %s already exists.", in.Username))
	case taken.phone:
		return models.NewAlreadyExistsError(fmt.Sprintf("Phone %s already exists.", in.Phone))
	}
	return nil
}

// Register creates a verified account. Social signups store no password.
func (s *UserService) Register(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	taken, err := s.checkUnique(ctx, in.Email, in.Username, in.Phone)
	if err != nil {
		return nil, err
	}
	if err := registerConflict(in, taken); err != nil {
		return nil, err
	}

	user := &models.User{
		Fullname:    in.Fullname,
		Username:    in.Username,
		Email:       in.Email,
		CountryCode: in.CountryCode,
		ProfilePic:  in.ProfilePic,
		LoginType:   models.LoginTypeNormal,
		IsActive:    true,
		IsVerified:  true,
		Step:        1,
	}
	if in.Phone != "" {
		user.Phone = &in.Phone
	}
	if in.SocialID != "" {
		user.LoginType = models.LoginTypeSocial
		user.SocialID = &in.SocialID
	} else {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = &hash
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, s.lateConflict(ctx, in)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// lateConflict names the field that lost a concurrent registration race.
func (s *UserService) lateConflict(ctx context.Context, in validation.RegisterInput) error {
	taken, err := s.checkUnique(ctx, in.Email, in.Username, in.Phone)
	if err == nil {
		if conflict := registerConflict(in, taken); conflict != nil {
			return conflict
		}
	}
	return models.NewAlreadyExistsError("User already exists")
}

// Login authenticates by social id or by password. Every lookup or password
// failure yields the same error so callers cannot probe for accounts.
func (s *UserService) Login(ctx context.Context, in validation.LoginInput) (*LoginResult, error) {
	invalid := models.NewInvalidCredentialsError("Invalid credentials")

	var (
		user *models.User
		err  error
	)
	if in.SocialID != "" {
		user, err = s.users.FindSocial(ctx, in.LoginEmailPhone, in.SocialID)
	} else {
		user, err = s.users.FindNormal(ctx, in.LoginEmailPhone)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, invalid
	case err != nil:
		return nil, models.NewInternalError(err)
	}
	if in.SocialID == "" && !s.hasher.Verify(in.Password, user.PasswordHash()) {
		return nil, invalid
	}

	switch {
	case user.IsDeleted:
		return nil, models.NewAccountNotFoundError("User account not found")
	case !user.IsActive:
		return nil, models.NewInactiveAccountError()
	case !user.IsVerified:
		return nil, models.NewNotVerifiedError()
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{"is_login": true}); err != nil {
		return nil, models.NewInternalError(err)
	}
	user.IsLogin = true

	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Email: user.Email, Username: user.Username})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *UserService) getUser(ctx context.Context, id uint, notFound string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, models.NewAccountNotFoundError(notFound)
	case err != nil:
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// Logout clears the session flag. Outstanding tokens stay valid until they expire.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	user, err := s.getUser(ctx, userID, "User not found")
	if err != nil {
		return err
	}
	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{"is_login": false}); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ChangePassword replaces the password of a normal account after proving the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, in validation.ChangePasswordInput) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return models.NewInternalError(err)
	}
	if user == nil || !user.IsNormalLogin() {
		return models.NewAccountNotFoundError("User not found or not eligible for password change")
	}

	if !s.hasher.Verify(in.OldPassword, user.PasswordHash()) {
		return models.NewInvalidCredentialsError("Old password does not match")
	}
	return s.setPassword(ctx, user.ID, in.NewPassword)
}

// ResetPassword sets a new password without the old one, but only during a logged-in session.
func (s *UserService) ResetPassword(ctx context.Context, userID uint, in validation.ResetPasswordInput) error {
	user, err := s.getUser(ctx, userID, "User not found")
	if err != nil {
		return err
	}
	if !user.IsLogin {
		return models.NewUnauthorizedError("You must be logged in to reset password")
	}
	if !user.IsNormalLogin() {
		return models.NewOperationNotAllowedError("Password reset is not allowed for social login users")
	}
	return s.setPassword(ctx, user.ID, in.NewPassword)
}

func (s *UserService) setPassword(ctx context.Context, userID uint, plain string) error {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"password": hash}); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// EditProfile applies the fields present in the input. A changed email,
// username or phone must not be held by any account.
func (s *UserService) EditProfile(ctx context.Context, userID uint, in validation.EditProfileInput) (*models.User, error) {
	user, err := s.getUser(ctx, userID, "User not found")
	if err != nil {
		return nil, err
	}
	if !user.IsLogin {
		return nil, models.NewUnauthorizedError("You must be logged in to edit profile")
	}

	fields := map[string]any{}
	changed := func(p *string, current string) bool {
		return p != nil && *p != "" && *p != current
	}

	if changed(in.Email, user.Email) {
		exists, err := s.users.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if exists {
			return nil, models.NewAlreadyExistsError(fmt.Sprintf("Email '%s' already exists.", *in.Email))
		}
		fields["email"] = *in.Email
		user.Email = *in.Email
	}
	if changed(in.Username, user.Username) {
		exists, err := s.users.ExistsByUsername(ctx, *in.Username)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if exists {
			return nil, models.NewAlreadyExistsError(fmt.Sprintf("Username '%s' already exists.", *in.Username))
		}
		fields["username"] = *in.Username
		user.Username = *in.Username
	}
	if changed(in.Phone, user.PhoneNumber()) {
		exists, err := s.users.ExistsByPhone(ctx, *in.Phone)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if exists {
			return nil, models.NewAlreadyExistsError(fmt.Sprintf("Phone '%s' already exists.", *in.Phone))
		}
		fields["phone"] = *in.Phone
		user.Phone = in.Phone
	}

	if in.Fullname != nil {
		fields["fullname"] = *in.Fullname
		user.Fullname = *in.Fullname
	}
	if in.CountryCode != nil {
		fields["country_code"] = *in.CountryCode
		user.CountryCode = *in.CountryCode
	}
	if in.ProfilePic != nil {
		fields["profile_pic"] = *in.ProfilePic
		user.ProfilePic = *in.ProfilePic
	}

	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		if repository.IsDuplicate(err) {
			return nil, models.NewAlreadyExistsError("Profile value already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}
