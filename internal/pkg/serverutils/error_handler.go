// FILE: internal/pkg/serverutils/error_handler.go
package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

// ErrorHandlerMiddleware maps the workflow error taxonomy onto HTTP statuses
// in one place so controllers just return errors.
//
//	ValidationError                        -> 400
//	SessionNotFoundError                   -> 404
//	InvalidStateError, AlreadyDecidedError -> 409
//	NotIngestedError                       -> 409
//	ConflictError                          -> 409 (retryable)
//	AnalysisUnavailableError, DeliveryError -> 502 (transient dependency)
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(statusFor(err)).JSON(ErrorResponse(err.Error()))
	}
}

func statusFor(err error) int {
	var (
		validation *workflow.ValidationError
		notFound   *workflow.SessionNotFoundError
		invalid    *workflow.InvalidStateError
		decided    *workflow.AlreadyDecidedError
		ingest     *workflow.NotIngestedError
		conflict   *workflow.ConflictError
		analysis   *workflow.AnalysisUnavailableError
		delivery   *workflow.DeliveryError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &decided), errors.As(err, &ingest), errors.As(err, &conflict):
		return fiber.StatusConflict
	case errors.As(err, &analysis), errors.As(err, &delivery):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
