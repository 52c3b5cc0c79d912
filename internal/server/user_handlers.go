package server

import (
	"blogapi/internal/events"
	"blogapi/internal/models"
	"blogapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TestAPI handles GET /v1/user/test-api
func (s *Server) TestAPI(c *fiber.Ctx) error {
	return c.SendString("Blog API is running")
}

// Register handles POST /v1/user/register
func (s *Server) Register(c *fiber.Ctx) error {
	var in validation.RegisterInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}

	user, err := s.userService.Register(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	s.emit(c, events.UserRegistered, map[string]any{
		"user_id":    user.ID,
		"username":   user.Username,
		"login_type": string(user.LoginType),
	})

	return models.RespondSuccess(c, fiber.StatusCreated, "Signup successful", newUserSummary(user))
}

// Login handles POST /v1/user/login
func (s *Server) Login(c *fiber.Ctx) error {
	var in validation.LoginInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}

	res, err := s.userService.Login(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	return models.RespondSuccess(c, fiber.StatusOK, "Login successful", loginView{
		User: loginUser{userSummary: newUserSummary(res.User), Token: res.Token},
	})
}

// Logout handles POST /v1/user/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	if err := s.userService.Logout(c.UserContext(), identity.ID); err != nil {
		return s.respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Logout successful", nil)
}

// ForgotPassword handles POST /v1/user/forgot-password. The caller proves the
// old password while logged in.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var in validation.ChangePasswordInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	if err := s.userService.ChangePassword(c.UserContext(), identity.ID, in); err != nil {
		return s.respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Password changed successfully", nil)
}

// ResetPassword handles POST /v1/user/reset-password
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var in validation.ResetPasswordInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	if err := s.userService.ResetPassword(c.UserContext(), identity.ID, in); err != nil {
		return s.respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Password reset successful", nil)
}

// EditProfile handles POST /v1/user/edit-profile
func (s *Server) EditProfile(c *fiber.Ctx) error {
	var in validation.EditProfileInput
	if err := bindBody(c, &in); err != nil {
		return s.respondError(c, err)
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return s.respondError(c, err)
	}

	user, err := s.userService.EditProfile(c.UserContext(), identity.ID, in)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondSuccess(c, fiber.StatusOK, "Profile updated successfully", newUserSummary(user))
}
