// Package middleware provides the access gate, request logging, rate limiting, tracing and metrics.
package middleware

import (
	"context"
	"crypto/subtle"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const (
	// HeaderAPIKey carries the shared API secret.
	HeaderAPIKey = "x-api-key"
	// HeaderAuthorization carries the raw token. No scheme prefix is parsed.
	HeaderAuthorization = "Authorization"

	// LocalIdentity holds the auth.Identity decoded by TokenAuth.
	LocalIdentity = "identity"
	// LocalUserID holds the caller's id as a uint.
	LocalUserID = "userID"
)

// APIKey rejects requests whose x-api-key header does not equal expected byte for byte.
func APIKey(expected string) fiber.Handler {
	want := []byte(expected)
	return func(c *fiber.Ctx) error {
		got := []byte(c.Get(HeaderAPIKey))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			observability.GateRejections.WithLabelValues("api_key").Inc()
			return models.RespondWithError(c, models.NewUnauthorizedError("Invalid API key"))
		}
		return c.Next()
	}
}

// TokenAuth verifies the Authorization header and attaches the caller's identity.
// The header value is handed to Verify unmodified, so "Bearer <token>" is rejected.
func TokenAuth(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderAuthorization)
		if raw == "" {
			observability.GateRejections.WithLabelValues("token_missing").Inc()
			return models.RespondWithError(c, models.NewTokenMissingError())
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			observability.GateRejections.WithLabelValues("token_invalid").Inc()
			return models.RespondWithError(c, models.NewTokenInvalidError())
		}

		identity := claims.Identity()
		c.Locals(LocalIdentity, identity)
		c.Locals(LocalUserID, identity.ID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, identity.ID))

		return c.Next()
	}
}

// IdentityFrom returns the identity attached by TokenAuth. ok is false when no
// identity, or one without an id, is present.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(LocalIdentity).(auth.Identity)
	if !ok || identity.ID == 0 {
		return auth.Identity{}, false
	}
	return identity, true
}
