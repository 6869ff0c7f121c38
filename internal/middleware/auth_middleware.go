package middleware

import (
	"strings"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// SessionToken reads the session cookie, falling back to an
// "Authorization: Bearer <token>" header for non-browser clients.
func SessionToken(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth resolves the session token into an identity and stores it for downstream handlers
func RequireAuth(auth service.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c, cookieName)
		if token == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing session token"})
		}

		identity, err := auth.Resolve(token)
		if err != nil {
			return c.Status(apperror.HTTPStatus(apperror.KindOf(err))).JSON(fiber.Map{"error": apperror.PublicMessage(err)})
		}

		SetIdentity(c, identity)
		return c.Next()
	}
}

// Identity returns the caller set by RequireAuth. Unauthenticated requests get the zero value.
func Identity(c *fiber.Ctx) policy.Identity {
	identity, _ := c.Locals(identityKey).(policy.Identity)
	return identity
}

// SetIdentity is used by RequireAuth and by tests that skip it.
func SetIdentity(c *fiber.Ctx, identity policy.Identity) {
	c.Locals(identityKey, identity)
}

// RequirePermission rejects callers whose roles do not grant op
func RequirePermission(op policy.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity(c)
		if err := policy.Authorize(identity, op); err != nil {
			return c.Status(apperror.HTTPStatus(apperror.KindOf(err))).JSON(fiber.Map{"error": apperror.PublicMessage(err)})
		}
		return c.Next()
	}
}
