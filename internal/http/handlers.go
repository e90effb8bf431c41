package http

import (
	"encoding/json"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const internalError = "Internal server error"

// Register mounts the AQI routes. Fixed paths go before "/:id".
func Register(app *fiber.App, svc *service.AQIService) {
	h := &handler{svc: svc}

	g := app.Group("/api/aqi")
	g.Get("/latest", h.getLatest)
	g.Get("/range", h.getByDateRange)
	g.Get("/date/:date", h.getByDate)
	g.Get("/:id", h.getByID)
	g.Get("/", h.getAll)
	g.Post("/", h.create)
}

type handler struct {
	svc *service.AQIService
}

// fail maps service errors onto status codes. Internal detail stays in the
// service log.
func fail(c *fiber.Ctx, err error) error {
	if service.IsValidation(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalError})
}

func (h *handler) getByID(c *fiber.Ctx) error {
	reading, err := h.svc.GetAQIByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if reading == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "AQI data not found"})
	}
	return c.JSON(h.svc.WithLevel(*reading))
}

func (h *handler) getAll(c *fiber.Ctx) error {
	readings, err := h.svc.GetAllAQI(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(h.svc.WithLevels(readings))
}

func (h *handler) getLatest(c *fiber.Ctx) error {
	reading, err := h.svc.GetLatestAQI(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	if reading == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No AQI data found"})
	}
	return c.JSON(h.svc.WithLevel(*reading))
}

func (h *handler) getByDate(c *fiber.Ctx) error {
	readings, err := h.svc.GetAQIByDate(c.UserContext(), c.Params("date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(h.svc.WithLevels(readings))
}

func (h *handler) getByDateRange(c *fiber.Ctx) error {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" || end == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "startDate and endDate query parameters are required"})
	}

	readings, err := h.svc.GetAQIByDateRange(c.UserContext(), start, end)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(h.svc.WithLevels(readings))
}

func (h *handler) create(c *fiber.Ctx) error {
	// A malformed body counts as empty and fails validation below.
	var body map[string]json.RawMessage
	_ = json.Unmarshal(c.Body(), &body)

	req, ok := parseCreateBody(body)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":       "At least one valid numeric measurement is required",
			"validFields": domain.FieldNames,
		})
	}

	reading, err := h.svc.CreateAQI(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	log.Info().Int64("id", reading.ID).Msg("aqi reading created via api")
	return c.Status(fiber.StatusCreated).JSON(h.svc.WithLevel(*reading))
}

// parseCreateBody keeps each canonical field that is a finite number or a
// numeric string. ok is false when none qualify.
func parseCreateBody(body map[string]json.RawMessage) (req domain.CreateRequest, ok bool) {
	for _, name := range domain.FieldNames {
		raw, present := body[name]
		if !present {
			continue
		}
		if v, valid := numeric(raw); valid {
			req.Set(name, v)
			ok = true
		}
	}
	return req, ok
}

func numeric(raw json.RawMessage) (float64, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return domain.ParseNumber(v)
}
