package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/assistant"
	"github.com/airwatchhq/airwatch/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, airSvc *airq.Service, chatSvc *assistant.Service, memStore *store.MemoryStore) {
	api := app.Group("/api")

	api.Get("/aqi/:location/history", func(c *fiber.Ctx) error {
		limit := 24
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
			}
			limit = n
		}

		readings := airSvc.History(c.Params("location"), limit)
		return c.JSON(fiber.Map{"readings": readings})
	})

	api.Get("/aqi/:location?", func(c *fiber.Ctx) error {
		return c.JSON(airSvc.CurrentContext(c.Params("location")))
	})

	api.Post("/cities/compare", func(c *fiber.Ctx) error {
		var req compareRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := airSvc.Compare(c.Context(), req.Cities)
		if err != nil {
			if errors.Is(err, airq.ErrUnknownCity) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to retrieve multi-city data")
		}

		return c.JSON(fiber.Map{
			"cities":    snapshots,
			"timestamp": time.Now().UTC(),
			"total":     len(snapshots),
		})
	})

	api.Get("/cities/supported", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"cities": airSvc.SupportedCities()})
	})

	api.Get("/weather/:location", func(c *fiber.Ctx) error {
		obs, err := airSvc.Weather(c.Context(), c.Params("location"))
		if err != nil {
			if errors.Is(err, airq.ErrUnknownCity) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to retrieve weather data")
		}
		return c.JSON(obs)
	})

	api.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		aqiCtx := airSvc.CurrentContext(req.Location)
		response, err := chatSvc.Chat(c.Context(), req.SessionID, req.Message, aqiCtx)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to process chat message")
		}

		return c.JSON(fiber.Map{
			"response":  response,
			"context":   aqiCtx,
			"timestamp": time.Now().UTC(),
		})
	})

	api.Get("/chat/:sessionId", func(c *fiber.Ctx) error {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
			}
			limit = n
		}

		history := memStore.ChatHistory(c.Params("sessionId"), limit)
		return c.JSON(fiber.Map{"history": history})
	})

	api.Post("/voice", func(c *fiber.Ctx) error {
		var req voiceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		aqiCtx := airSvc.CurrentContext(req.Location)
		reply, err := chatSvc.Voice(c.Context(), req.SessionID, req.Transcript, aqiCtx)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to process voice command")
		}

		if !reply.IsAirQualityQuery {
			return c.JSON(fiber.Map{
				"response": reply.Response,
				"intent":   reply.Intent,
				"entities": reply.Entities,
			})
		}

		return c.JSON(fiber.Map{
			"response":  reply.Response,
			"intent":    reply.Intent,
			"entities":  reply.Entities,
			"context":   aqiCtx,
			"timestamp": time.Now().UTC(),
		})
	})

	api.Post("/export", func(c *fiber.Ctx) error {
		var req exportRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "missing required export parameters")
		}

		from, err := parseTime(req.DateRange.From)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		to, err := parseTime(req.DateRange.To)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records := airSvc.Export(airq.ExportOptions{
			From:              from,
			To:                to,
			Locations:         req.Locations,
			IncludeAQI:        req.DataTypes.AQI,
			IncludePollutants: req.DataTypes.Pollutants,
			IncludeWeather:    req.DataTypes.Weather,
			IncludeMetadata:   req.IncludeMetadata,
		})

		return c.JSON(fiber.Map{
			"data":         records,
			"totalRecords": len(records),
			"format":       req.Format,
			"timestamp":    time.Now().UTC(),
		})
	})
}

// compareRequest is the body of a multi-city comparison.
type compareRequest struct {
	Cities []string `json:"cities" validate:"required,min=1,max=10,dive,required"`
}

type chatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
	Location  string `json:"location"`
}

type voiceRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	SessionID  string `json:"sessionId" validate:"required"`
	Location   string `json:"location"`
}

type exportRequest struct {
	Format    string           `json:"format" validate:"required"`
	DateRange exportDateRange  `json:"dateRange" validate:"required"`
	DataTypes *exportDataTypes `json:"dataTypes" validate:"required"`

	Locations       []string `json:"locations"`
	IncludeMetadata bool     `json:"includeMetadata"`
}

type exportDateRange struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type exportDataTypes struct {
	AQI        bool `json:"aqi"`
	Pollutants bool `json:"pollutants"`
	Weather    bool `json:"weather"`
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
