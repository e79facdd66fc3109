package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tourio/travel-reservation-api/internal/model"
	"github.com/tourio/travel-reservation-api/internal/service"
)

// TourHandler exposes the tour catalog over HTTP.
type TourHandler struct {
	Tours *service.TourService
}

func NewTourHandler(t *service.TourService) *TourHandler {
	return &TourHandler{Tours: t}
}

// dateOnly is the wire format for tour dates.
const dateOnly = "2006-01-02"

type tourReq struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	DestinationID uint64 `json:"destination_id" validate:"required"`
	PriceCents    int64  `json:"price_cents" validate:"required"`
	DurationDays  int    `json:"duration_days" validate:"min=1"`
	MaxCapacity   int    `json:"max_capacity"`
	Type          string `json:"type"`
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	ImageURL      string `json:"image_url"`
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Create handles POST /v1/tours (admin only).
func (h *TourHandler) Create(c echo.Context) error {
	var req tourReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tour, err := h.Tours.Create(ctx, service.CreateTourInput{
		Name:          req.Name,
		Description:   req.Description,
		DestinationID: req.DestinationID,
		PriceCents:    req.PriceCents,
		DurationDays:  req.DurationDays,
		MaxCapacity:   req.MaxCapacity,
		Type:          model.TourType(req.Type),
		StartDate:     start,
		EndDate:       end,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, tour)
}

// Get handles GET /v1/tours/:id.
func (h *TourHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tour, err := h.Tours.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tour)
}

// List handles GET /v1/tours.  Filters are selected by query
// parameters, checked in a fixed order; the first one present wins.
//
//	?available=true     – AVAILABLE tours with seats left
//	?upcoming=true      – tours starting after today
//	?status=...         – by lifecycle status
//	?type=...           – by sale type
//	?destination_id=... – by destination
//	?min_price/&max_price – by per-person price in cents
//	?from=...&to=...    – by start date range (YYYY-MM-DD)
//	?q=...              – free-text search over name and description
func (h *TourHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		tours []model.Tour
		err   error
	)
	switch {
	case c.QueryParam("available") == "true":
		tours, err = h.Tours.ListAvailable(ctx)
	case c.QueryParam("upcoming") == "true":
		tours, err = h.Tours.ListUpcoming(ctx)
	case c.QueryParam("status") != "":
		tours, err = h.Tours.ListByStatus(ctx, model.TourStatus(c.QueryParam("status")))
	case c.QueryParam("type") != "":
		tours, err = h.Tours.ListByType(ctx, model.TourType(c.QueryParam("type")))
	case c.QueryParam("destination_id") != "":
		destID, perr := strconv.ParseUint(c.QueryParam("destination_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination_id"})
		}
		tours, err = h.Tours.ListByDestination(ctx, destID)
	case c.QueryParam("min_price") != "" || c.QueryParam("max_price") != "":
		minCents, perr := parsePriceParam(c.QueryParam("min_price"), 0)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
		}
		maxCents, perr := parsePriceParam(c.QueryParam("max_price"), int64(1)<<62)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		tours, err = h.Tours.ListByPriceRange(ctx, minCents, maxCents)
	case c.QueryParam("from") != "" && c.QueryParam("to") != "":
		from, ok := parseDate(c.QueryParam("from"))
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
		}
		to, ok := parseDate(c.QueryParam("to"))
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
		}
		tours, err = h.Tours.ListByDateRange(ctx, from, to)
	case c.QueryParam("q") != "":
		tours, err = h.Tours.Search(ctx, c.QueryParam("q"))
	default:
		tours, err = h.Tours.ListAll(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tours)
}

func parsePriceParam(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// Update handles PUT /v1/tours/:id (admin only).
func (h *TourHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req tourReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tour, err := h.Tours.Update(ctx, id, service.UpdateTourInput{
		Name:          req.Name,
		Description:   req.Description,
		DestinationID: req.DestinationID,
		PriceCents:    req.PriceCents,
		DurationDays:  req.DurationDays,
		Type:          model.TourType(req.Type),
		StartDate:     start,
		EndDate:       end,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tour)
}

type capacityReq struct {
	Capacity int `json:"capacity"`
}

// SetCapacity handles PATCH /v1/tours/:id/capacity (admin only).  The
// new capacity must lie within [0, max]; status is rederived.
func (h *TourHandler) SetCapacity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req capacityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tour, err := h.Tours.SetCapacity(ctx, id, req.Capacity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tour)
}

// Cancel handles POST /v1/tours/:id/cancel (admin only).
func (h *TourHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tour, err := h.Tours.Cancel(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tour)
}

// Delete handles DELETE /v1/tours/:id (admin only).
func (h *TourHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Tours.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
