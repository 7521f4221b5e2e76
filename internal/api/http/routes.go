package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-theme/internal/store"
	"github.com/i474232898/weather-theme/internal/weather"
)

const lookupTimeout = 15 * time.Second

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), lookupTimeout)
		defer cancel()

		report, err := service.Lookup(ctx, locReq.toLocation())
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(report)
	})

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.GetLatest(locReq.toLocation())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather report for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather report")
		}
		return c.JSON(report)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.Location.toLocation()
		reports, err := service.GetRange(loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"from":     req.From,
			"to":       req.To,
			"reports":  reports,
		})
	})

	v1.Get("/themes", func(c *fiber.Ctx) error {
		classifier := service.Classifier()
		rules := classifier.Rules()

		themes := make([]fiber.Map, 0, len(rules)+1)
		for _, r := range rules {
			themes = append(themes, fiber.Map{
				"themeId":     r.Theme,
				"keywords":    r.Keywords,
				"temperature": r.Temp,
				"background":  weather.Background(r.Theme),
			})
		}
		themes = append(themes, fiber.Map{
			"themeId":    weather.ThemeDefault,
			"background": weather.Background(weather.ThemeDefault),
		})

		return c.JSON(fiber.Map{
			"thresholds": classifier.Thresholds(),
			"rules":      themes,
		})
	})

	v1.Get("/localtime", func(c *fiber.Ctx) error {
		var q localTimeQuery
		if err := q.bind(c); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"localTime": weather.InvalidTime, "message": err.Error()})
		}

		formatted := weather.FormatLocalTime(q.ObservedAt, q.Offset)
		if formatted == weather.InvalidTime {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"localTime": formatted})
		}
		return c.JSON(fiber.Map{"localTime": formatted})
	})
}

// lookupError turns a lookup failure into the user-facing HTTP error.
func lookupError(err error) error {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, weather.UserMessage(err))
	default:
		return fiber.NewError(fiber.StatusServiceUnavailable, weather.UserMessage(err))
	}
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"required,max=100"`
	Country string `validate:"omitempty,alpha,len=2"`
}

func (l locationQuery) toLocation() weather.Location {
	return weather.Location{
		City:    l.City,
		Country: strings.ToUpper(l.Country),
	}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.City = strings.TrimSpace(c.Query("city"))
	q.Country = strings.TrimSpace(c.Query("country"))

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

type localTimeQuery struct {
	ObservedAt int64
	Offset     int64
}

func (q *localTimeQuery) bind(c *fiber.Ctx) error {
	dt, err := strconv.ParseInt(c.Query("dt"), 10, 64)
	if err != nil {
		return errors.New("dt must be unix seconds")
	}
	offset, err := strconv.ParseInt(c.Query("offset", "0"), 10, 64)
	if err != nil {
		return errors.New("offset must be seconds east of UTC")
	}
	q.ObservedAt = dt
	q.Offset = offset
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
