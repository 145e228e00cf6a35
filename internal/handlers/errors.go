package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
)

var validate = validator.New()

// parseBody decodes the request body into dst and runs its validate tags.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewInvalidRequestError("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.NewInvalidRequestError(verrs[0].Field() + " failed " + verrs[0].Tag() + " validation")
		}
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return nil
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeSessionNotFound, apperrors.ErrCodeProfileNotFound, apperrors.ErrCodeSanctionNotFound:
		return fiber.StatusNotFound
	case apperrors.ErrCodeSessionExpired:
		return fiber.StatusGone
	case apperrors.ErrCodeInvalidRequest:
		return fiber.StatusBadRequest
	case apperrors.ErrCodeStorageFailure:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler as {error, code}.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if se, ok := apperrors.AsStandard(err); ok {
			status := statusFor(se.Code)
			if status >= fiber.StatusInternalServerError {
				log.Error("Request failed", map[string]interface{}{
					"path":    c.Path(),
					"code":    se.Code,
					"details": se.Details,
				})
			}
			body := fiber.Map{"error": se.Message, "code": se.Code}
			if se.Details != "" && status == fiber.StatusBadRequest {
				body["details"] = se.Details
			}
			return c.Status(status).JSON(body)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "code": fe.Code})
		}

		log.Error("Unhandled request error", map[string]interface{}{"path": c.Path(), "error": err.Error()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
			"code":  "INTERNAL",
		})
	}
}
