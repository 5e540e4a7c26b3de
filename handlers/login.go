package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	apperrors "property-ops/errors"
	"property-ops/logging"
	"property-ops/services"
)

func (h *Handlers) Login(c *fiber.Ctx) error {
	type Credentials struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	var creds = new(Credentials)

	if err := c.BodyParser(creds); err != nil {
		return apperrors.RaiseError(c, fiber.StatusBadRequest,
			"Error on login request when parse credentials", err.Error())
	}

	user, err := h.staff.Authenticate(c.UserContext(), creds.Login, creds.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return apperrors.RaiseError(c, fiber.StatusUnauthorized, "Invalid login or password", "")
	}
	if err != nil {
		return apperrors.RaiseError(c, fiber.StatusInternalServerError,
			"Error on login request when comparing user data", err.Error())
	}

	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = user.Login
	claims["role"] = user.Role
	claims["staffId"] = user.StaffId
	claims["exp"] = time.Now().Add(h.cfg.TokenTTL).Unix()

	t, err := token.SignedString([]byte(h.cfg.SigningKey))
	if err != nil {
		logging.FromContext(c.UserContext()).WithError(err).Error("cannot sign token")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Success login", "data": t})
}
