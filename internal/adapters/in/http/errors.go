package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mealorder/internal/core/application/usecases/commands"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const retryAfterSeconds = 1

// problem turns a handler error into a status code and body. Internal
// failures never expose their message.
func problem(err error) Error {
	body := Error{Kind: commands.KindInternal.String()}

	var wf *commands.WorkflowError
	if errors.As(err, &wf) {
		body.Kind = wf.Kind.String()
		body.Step = string(wf.Step)
		for _, id := range wf.MealIDs {
			body.MealIDs = append(body.MealIDs, id.String())
		}
	} else if errs.IsValidation(err) {
		body.Kind = commands.KindValidation.String()
	}

	switch {
	case body.Kind == commands.KindValidation.String():
		body.Code = http.StatusBadRequest
	case errs.Is(err, errs.ErrObjectNotFound):
		body.Code = http.StatusNotFound
	case errs.Is(err, zone.ErrNotServiceable),
		errs.Is(err, services.ErrPastDeadline),
		errs.Is(err, services.ErrNotDeliveryDay):
		body.Code = http.StatusUnprocessableEntity
	case body.Kind == commands.KindBusinessRule.String():
		body.Code = http.StatusConflict
	case body.Kind == commands.KindRetryableConflict.String():
		body.Code = http.StatusServiceUnavailable
	default:
		body.Code = http.StatusInternalServerError
		body.Message = "Internal error"
		return body
	}

	body.Message = err.Error()
	body.Details = details(err)
	return body
}

func details(err error) map[string]any {
	var notServiceable *zone.NotServiceableError
	if errors.As(err, &notServiceable) {
		return map[string]any{"postalCode": notServiceable.PostalCode, "suggestions": notServiceable.Suggestions}
	}

	var pastDeadline *services.PastDeadlineError
	if errors.As(err, &pastDeadline) {
		return map[string]any{
			"deliveryDate":  pastDeadline.DeliveryDate.Format(time.DateOnly),
			"deadline":      pastDeadline.Deadline.Format(time.RFC3339),
			"nextAvailable": pastDeadline.NextAvailable.Format(time.DateOnly),
		}
	}

	var shortage *services.ShortageError
	if errors.As(err, &shortage) {
		lines := make([]map[string]any, len(shortage.Shortages))
		for i, s := range shortage.Shortages {
			lines[i] = insufficientDetails(s)
		}
		return map[string]any{"shortages": lines}
	}

	var insufficient *meal.InsufficientInventoryError
	if errors.As(err, &insufficient) {
		return map[string]any{"shortages": []map[string]any{insufficientDetails(insufficient)}}
	}

	var unavailable *meal.MealUnavailableError
	if errors.As(err, &unavailable) {
		return map[string]any{"mealId": unavailable.MealID.String(), "mealName": unavailable.MealName}
	}
	return nil
}

func insufficientDetails(e *meal.InsufficientInventoryError) map[string]any {
	return map[string]any{
		"mealId":    e.MealID.String(),
		"mealName":  e.MealName,
		"requested": e.Requested,
		"available": e.Available,
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	body := problem(err)
	if body.Code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err,
			"stack", errs.ExtractStackLines(err, 5))
	}
	if body.Code == http.StatusServiceUnavailable {
		ctx.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	return ctx.JSON(body.Code, body)
}

// errorHandler renders errors that escaped the handlers: routing misses,
// parameter binding failures and panics recovered by middleware.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		} else {
			logger.ErrorContext(ctx.Request().Context(), "unhandled error", "path", ctx.Path(), "error", err)
		}

		body := Error{Code: code, Message: message}
		if code == http.StatusBadRequest {
			body.Kind = commands.KindValidation.String()
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(code)
		} else {
			writeErr = ctx.JSON(code, body)
		}
		if writeErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "write error response", "error", writeErr)
		}
	}
}
