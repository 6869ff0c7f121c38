package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidJSON = apperror.Validation("Invalid JSON")

// ErrorHandler renders every error returned by a handler as {"error": msg}.
// Internal causes are logged and never sent to the client.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		kind := apperror.KindOf(err)
		if kind == apperror.KindInternal {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request failed")
		}
		return c.Status(apperror.HTTPStatus(kind)).JSON(fiber.Map{"error": apperror.PublicMessage(err)})
	}
}

func parseID(c *fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid " + what + " ID")
	}
	return id, nil
}

// parseDate accepts a calendar day (YYYY-MM-DD, local time) or an RFC3339 timestamp.
// dateOnly reports which form was given.
func parseDate(value string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, apperror.Validation("Invalid date '" + value + "'; use YYYY-MM-DD or RFC3339")
}

// queryRange reads startDate/endDate. A date-only end covers that whole day.
func queryRange(c *fiber.Ctx) (start, end *time.Time, err error) {
	if v := c.Query("startDate"); v != "" {
		t, _, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, dateOnly, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		end = &t
	}
	return start, end, nil
}

func queryInt(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func sendFile(c *fiber.Ctx, filename, contentType string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
