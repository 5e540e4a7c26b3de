package errors

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound          = stderrors.New("not found")
	ErrValidation        = stderrors.New("validation failed")
	ErrInvalidDates      = stderrors.New("Invalid Dates")
	ErrInvalidTransition = stderrors.New("invalid status transition")
	ErrRoleMismatch      = stderrors.New("staff role does not match job requirement")
	ErrConflict          = stderrors.New("schedule conflict")
	ErrInvalidState      = stderrors.New("invalid state")
	ErrAlreadyExists     = stderrors.New("already exists")
)

func RaiseError(context *fiber.Ctx, status int, message string, data string) error {
	return context.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data})
}

func RaisePermissionsError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusUnauthorized, "lack of permissions", data)
}

func RaiseInternalServerError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusInternalServerError, "internal error", data)
}

func RaiseBadRequestError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusBadRequest, "bad request", data)
}

func RaiseNotFoundError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusNotFound, "resource not found", data)
}

func RaiseConflictError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusConflict, "conflict", data)
}

func RaiseUnprocessableError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusUnprocessableEntity, "rejected", data)
}

// StatusFor maps the domain error wrapped in err to an HTTP status.
func StatusFor(err error) int {
	switch {
	case stderrors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case stderrors.Is(err, ErrConflict), stderrors.Is(err, ErrAlreadyExists):
		return fiber.StatusConflict
	case stderrors.Is(err, ErrInvalidTransition),
		stderrors.Is(err, ErrRoleMismatch),
		stderrors.Is(err, ErrInvalidDates),
		stderrors.Is(err, ErrInvalidState):
		return fiber.StatusUnprocessableEntity
	case stderrors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// RaiseFor renders err with the status picked by StatusFor.
func RaiseFor(context *fiber.Ctx, err error) error {
	switch StatusFor(err) {
	case fiber.StatusNotFound:
		return RaiseNotFoundError(context, err.Error())
	case fiber.StatusConflict:
		return RaiseConflictError(context, err.Error())
	case fiber.StatusUnprocessableEntity:
		return RaiseUnprocessableError(context, err.Error())
	case fiber.StatusBadRequest:
		return RaiseBadRequestError(context, err.Error())
	default:
		return RaiseInternalServerError(context, err.Error())
	}
}
