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

// ReservationHandler exposes the reservation lifecycle over HTTP.
// Customers operate on their own reservations; admins see everything.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Revenue      *service.RevenueAggregator
}

func NewReservationHandler(r *service.ReservationService, rev *service.RevenueAggregator) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Revenue: rev}
}

type createReservationReq struct {
	UserID          uint64 `json:"user_id"` // admins may book on behalf of a user
	TourID          uint64 `json:"tour_id" validate:"required"`
	NumberOfPeople  int    `json:"number_of_people" validate:"required,min=1"`
	SpecialRequests string `json:"special_requests"`
	ContactPhone    string `json:"contact_phone"`
	ContactEmail    string `json:"contact_email" validate:"omitempty,email"`
}

// Create handles POST /v1/reservations.  Customers always book for
// themselves; an admin may supply a user_id to book on a user's behalf.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if currentRole(c) != model.RoleAdmin || req.UserID == 0 {
		req.UserID = uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Reservations.Create(ctx, service.CreateReservationInput{
		UserID:          req.UserID,
		TourID:          req.TourID,
		NumberOfPeople:  req.NumberOfPeople,
		SpecialRequests: req.SpecialRequests,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// load fetches the reservation and enforces that non-admin callers may
// only touch their own bookings.  A nil reservation means the error
// response has already been written.
func (h *ReservationHandler) load(c echo.Context, ctx context.Context) (*model.Reservation, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, writeError(c, err)
	}
	if currentRole(c) != model.RoleAdmin {
		uid, ok := currentUserID(c)
		if !ok || res.UserID != uid {
			return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return res, nil
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.load(c, ctx)
	if res == nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /v1/reservations.  Customers always get their own
// reservations (optionally narrowed by ?status=).  Admins can filter:
//
//	?user_id=...        – by booking user
//	?tour_id=...        – by tour
//	?status=...         – by lifecycle status
//	?payment_status=... – by payment status
//	?since=...          – created on or after a date (YYYY-MM-DD)
//	?country=...        – by the tour destination's country
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var (
		out []model.Reservation
		err error
	)
	if currentRole(c) != model.RoleAdmin {
		if status := c.QueryParam("status"); status != "" {
			out, err = h.Reservations.ListByUserAndStatus(ctx, uid, model.ReservationStatus(status))
		} else {
			out, err = h.Reservations.ListByUser(ctx, uid)
		}
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}

	switch {
	case c.QueryParam("user_id") != "" && c.QueryParam("status") != "":
		target, perr := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		out, err = h.Reservations.ListByUserAndStatus(ctx, target, model.ReservationStatus(c.QueryParam("status")))
	case c.QueryParam("user_id") != "":
		target, perr := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		out, err = h.Reservations.ListByUser(ctx, target)
	case c.QueryParam("tour_id") != "":
		tourID, perr := strconv.ParseUint(c.QueryParam("tour_id"), 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour_id"})
		}
		out, err = h.Reservations.ListByTour(ctx, tourID)
	case c.QueryParam("status") != "":
		out, err = h.Reservations.ListByStatus(ctx, model.ReservationStatus(c.QueryParam("status")))
	case c.QueryParam("payment_status") != "":
		out, err = h.Reservations.ListByPaymentStatus(ctx, model.PaymentStatus(c.QueryParam("payment_status")))
	case c.QueryParam("since") != "":
		since, perr := time.Parse(dateOnly, c.QueryParam("since"))
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "since must be YYYY-MM-DD"})
		}
		out, err = h.Reservations.ListCreatedAfter(ctx, since)
	case c.QueryParam("country") != "":
		out, err = h.Reservations.ListByDestinationCountry(ctx, c.QueryParam("country"))
	default:
		out, err = h.Reservations.ListAll(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type updateReservationReq struct {
	NumberOfPeople  int    `json:"number_of_people" validate:"required,min=1"`
	Status          string `json:"status" validate:"required"`
	PaymentStatus   string `json:"payment_status" validate:"required"`
	SpecialRequests string `json:"special_requests"`
	ContactPhone    string `json:"contact_phone"`
	ContactEmail    string `json:"contact_email" validate:"omitempty,email"`
}

// Update handles PUT /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.load(c, ctx)
	if res == nil {
		return err
	}
	updated, err := h.Reservations.Update(ctx, res.ID, service.UpdateReservationInput{
		NumberOfPeople:  req.NumberOfPeople,
		Status:          model.ReservationStatus(req.Status),
		PaymentStatus:   model.PaymentStatus(req.PaymentStatus),
		SpecialRequests: req.SpecialRequests,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.load(c, ctx)
	if res == nil {
		return err
	}
	if err := h.Reservations.Delete(ctx, res.ID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Confirm handles POST /v1/reservations/:id/confirm (admin only).
func (h *ReservationHandler) Confirm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Reservations.Confirm(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.load(c, ctx)
	if res == nil {
		return err
	}
	cancelled, err := h.Reservations.Cancel(ctx, res.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cancelled)
}

type paymentReq struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// UpdatePayment handles PATCH /v1/reservations/:id/payment-status
// (admin only).
func (h *ReservationHandler) UpdatePayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Reservations.UpdatePaymentStatus(ctx, id, model.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CountConfirmed handles GET /v1/tours/:id/reservations/count, the
// confirmed-headcount report for a tour (admin only).
func (h *ReservationHandler) CountConfirmed(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	n, err := h.Reservations.CountConfirmedByTour(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tour_id": id, "confirmed_count": n})
}

// TotalRevenue handles GET /v1/reports/revenue (admin only).  The
// figure sums confirmed, paid reservations and is zero when none exist.
func (h *ReservationHandler) TotalRevenue(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	total, err := h.Revenue.TotalRevenueCents(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total_revenue_cents": total})
}
