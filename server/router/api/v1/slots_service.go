package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/slotsense/server/availability"
	apperr "github.com/hrygo/slotsense/server/internal/errors"
)

// timezoneListResource points clients with an invalid timezone at the list of
// valid identifiers.
const timezoneListResource = "https://en.wikipedia.org/wiki/List_of_tz_database_time_zones"

// GetSlots handles GET /api/slots. Query parameters: url (required), limit,
// timezone, daysLimit. Non-numeric limit values fall back to the configured
// defaults.
func (s *APIV1Service) GetSlots(c echo.Context) error {
	req := availability.Request{
		FeedURL:   c.QueryParam("url"),
		Timezone:  c.QueryParam("timezone"),
		Limit:     intQueryParam(c, "limit"),
		DaysLimit: intQueryParam(c, "daysLimit"),
	}

	blocks, err := s.Availability.AvailableSlots(c.Request().Context(), req)
	if err != nil {
		return writeError(c, req, err)
	}
	return c.JSON(http.StatusOK, blocks)
}

// writeError maps pipeline failures to their HTTP responses.
func writeError(c echo.Context, req availability.Request, err error) error {
	switch apperr.CodeOf(err, apperr.ErrCodeInternal) {
	case apperr.ErrCodeMissingFeedAddress:
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "iCal URL is required",
		})
	case apperr.ErrCodeInvalidTimezone:
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error":    "Invalid timezone",
			"timezone": req.Timezone,
			"resource": timezoneListResource,
		})
	case apperr.ErrCodeUnreachableFeed:
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid iCal URL. Please provide a direct link to .ics file",
		})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Internal server error",
		})
	}
}

// intQueryParam parses an optional positive integer query parameter; absent
// or malformed values yield zero, which means "use the default".
func intQueryParam(c echo.Context, name string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
