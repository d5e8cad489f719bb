package handler

import (
	"errors"
	"strconv"
	"time"

	"go-pos-core/internal/model"
	"go-pos-core/internal/service"
	"go-pos-core/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps domain errors to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrAccountInUse):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrSKUImmutable),
		errors.Is(err, service.ErrForbiddenRole),
		errors.Is(err, model.ErrInvalidDateRange):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, jwt.ErrInvalidToken):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes domain errors directly. Anything else goes back to Fiber so
// ErrorHandler logs it and answers with a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		return err
	}
	body := fiber.Map{"error": err.Error()}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return c.Status(code).JSON(body)
}

// ErrorHandler is the app-wide fiber.Config.ErrorHandler.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
		}
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

// Helper untuk parse :id
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}

// dateRange reads ?start= and ?end= as whole days in loc.
func dateRange(c *fiber.Ctx, loc *time.Location) (model.DateRange, error) {
	return model.ParseDateRange(c.Query("start"), c.Query("end"), loc)
}
