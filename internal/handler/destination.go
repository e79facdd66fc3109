package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tourio/travel-reservation-api/internal/model"
	"github.com/tourio/travel-reservation-api/internal/service"
)

// DestinationHandler exposes the destination catalog over HTTP.
type DestinationHandler struct {
	Destinations *service.DestinationService
}

func NewDestinationHandler(d *service.DestinationService) *DestinationHandler {
	return &DestinationHandler{Destinations: d}
}

type destinationReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Country     string `json:"country" validate:"required"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Type        string `json:"type"`
	Active      *bool  `json:"active"`
	ImageURL    string `json:"image_url"`
}

// Create handles POST /v1/destinations (admin only).
func (h *DestinationHandler) Create(c echo.Context) error {
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Destinations.Create(ctx, service.CreateDestinationInput{
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		City:        req.City,
		Region:      req.Region,
		Type:        model.DestinationType(req.Type),
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// Get handles GET /v1/destinations/:id.
func (h *DestinationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Destinations.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// List handles GET /v1/destinations.  ?active=true narrows the listing
// to active destinations.
func (h *DestinationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		out []model.Destination
		err error
	)
	if c.QueryParam("active") == "true" {
		out, err = h.Destinations.ListActive(ctx)
	} else {
		out, err = h.Destinations.ListAll(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /v1/destinations/:id (admin only).
func (h *DestinationHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Destinations.Update(ctx, id, service.UpdateDestinationInput{
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		City:        req.City,
		Region:      req.Region,
		Type:        model.DestinationType(req.Type),
		Active:      active,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /v1/destinations/:id (admin only).
func (h *DestinationHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Destinations.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
