package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	apperrors "property-ops/errors"
	"property-ops/model"
)

const IdentityKey = "identity"

type Identity struct {
	Username string
	Role     string
	StaffId  string
}

func Authorize(signingKey string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(signingKey),
		ErrorHandler: jwtError,
		ContextKey:   IdentityKey,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CurrentIdentity reads the claims stored by Authorize. Requests without a
// token get an empty identity.
func CurrentIdentity(c *fiber.Ctx) Identity {
	token, ok := c.Locals(IdentityKey).(*jwt.Token)
	if !ok {
		return Identity{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	staffId, _ := claims["staffId"].(string)
	return Identity{Username: username, Role: role, StaffId: staffId}
}

func (i Identity) IsManager() bool {
	return i.Role == model.RoleAdmin || i.Role == model.RoleManager
}

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentIdentity(c).Role
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return apperrors.RaisePermissionsError(c, "role "+quoteOrNone(role)+" cannot access "+c.Path())
	}
}

// SharedSecret guards machine-to-machine routes with a static header value.
// An empty secret disables the route.
func SharedSecret(header, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return apperrors.RaiseNotFoundError(c, "route disabled")
		}
		given := strings.TrimSpace(c.Get(header))
		if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			return apperrors.RaisePermissionsError(c, "invalid "+header)
		}
		return c.Next()
	}
}

func quoteOrNone(role string) string {
	if role == "" {
		return "<none>"
	}
	return "\"" + role + "\""
}
