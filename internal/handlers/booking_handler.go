package handlers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/realtime"
	"github.com/karigar-app/karigar-backend/internal/services/booking"
	"github.com/karigar-app/karigar-backend/internal/store"
)

type BookingHandler struct {
	Bookings *booking.Service
	Users    store.UserStore
	Hub      *realtime.Hub
	RDB      *redis.Client
}

func NewBookingHandler(bookings *booking.Service, users store.UserStore, hub *realtime.Hub, rdb *redis.Client) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Users: users, Hub: hub, RDB: rdb}
}

type CreateBookingReq struct {
	WorkerID    string  `json:"worker_id"`
	Task        string  `json:"task"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Create books a worker for the authenticated employer. The worker's hourly
// rate is snapshotted into the payment record so later rate changes do not
// reprice existing bookings.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	employerID, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req CreateBookingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid worker ID",
		})
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "date must be RFC3339",
		})
	}

	worker, err := h.Users.GetByID(c.Context(), workerID)
	if err != nil {
		return serviceError(c, err)
	}
	if worker.Role != models.RoleWorker {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Not found",
		})
	}

	b, err := h.Bookings.Create(c.Context(), booking.CreateParams{
		WorkerID:    workerID,
		EmployerID:  employerID,
		Task:        req.Task,
		Description: req.Description,
		Date:        date,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Amount:      worker.Profile.HourlyRate,
	})
	if err != nil {
		return serviceError(c, err)
	}

	h.notify(b, "booking_created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Booking created",
		"data":    toBookingResponse(b),
	})
}

// List returns the caller's bookings: employers see the bookings they made,
// workers see the bookings made for them, admins see everything.
func (h *BookingHandler) List(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	role, _ := c.Locals("role").(string)

	var bookings []models.Booking
	switch role {
	case string(models.RoleWorker):
		bookings, err = h.Bookings.List(c.Context(), nil, &uid)
	case string(models.RoleAdmin):
		bookings, err = h.Bookings.List(c.Context(), nil, nil)
	default:
		bookings, err = h.Bookings.List(c.Context(), &uid, nil)
	}
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]fiber.Map, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid booking ID",
		})
	}

	b, err := h.Bookings.Bookings.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}

	role, _ := c.Locals("role").(string)
	if role != string(models.RoleAdmin) && b.EmployerID != uid && b.WorkerID != uid {
		return fiber.ErrForbidden
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toBookingResponse(b),
	})
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves a booking along its lifecycle. Workers accept, complete
// or cancel bookings assigned to them; employers can only cancel their own.
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid booking ID",
		})
	}

	var req UpdateStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	newStatus := models.BookingStatus(req.Status)

	current, err := h.Bookings.Bookings.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}

	role, _ := c.Locals("role").(string)
	switch role {
	case string(models.RoleWorker):
		if current.WorkerID != uid {
			return fiber.ErrForbidden
		}
	case string(models.RoleAdmin):
	default:
		// Employers may only cancel, and only their own bookings.
		if current.EmployerID != uid {
			return fiber.ErrForbidden
		}
		if newStatus != models.BookingStatusCancelled {
			return fiber.ErrForbidden
		}
	}

	b, err := h.Bookings.Transition(c.Context(), id, newStatus)
	if err != nil {
		return serviceError(c, err)
	}

	h.notify(b, "booking_"+string(newStatus))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking updated",
		"data":    toBookingResponse(b),
	})
}

type PayBookingReq struct {
	Method string `json:"method"`
}

// Pay runs the payment step for a booking. The gateway is simulated; a
// failed attempt leaves the payment pending so the employer can retry.
func (h *BookingHandler) Pay(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid booking ID",
		})
	}

	var req PayBookingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	current, err := h.Bookings.Bookings.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if current.EmployerID != uid {
		return fiber.ErrForbidden
	}

	ok, err := h.Bookings.ProcessPayment(c.Context(), id, req.Method)
	if err != nil {
		return serviceError(c, err)
	}

	if !ok {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Payment failed, please try again",
			"data": fiber.Map{
				"payment_status": models.PaymentStatusPending,
			},
		})
	}

	b, err := h.Bookings.Bookings.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	h.notify(b, "payment_completed")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment completed",
		"data":    toBookingResponse(b),
	})
}

// notify pushes a booking event to both connected websocket clients and the
// per-user Redis notification channels. Delivery is best effort.
func (h *BookingHandler) notify(b *models.Booking, event string) {
	msg := fiber.Map{
		"type":    event,
		"booking": toBookingResponse(b),
	}

	h.Hub.SendToBooking(b.EmployerID, b.WorkerID, msg)

	if h.RDB == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, uid := range []uuid.UUID{b.EmployerID, b.WorkerID} {
		if err := h.RDB.Publish(context.Background(), "notifications:"+uid.String(), payload).Err(); err != nil {
			log.Printf("notify: redis publish for %s failed: %v", uid, err)
		}
	}
}
