package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/services/directory"
	"github.com/karigar-app/karigar-backend/internal/services/rating"
)

type WorkerHandler struct {
	Directory *directory.Service
	Ratings   *rating.Service
}

func NewWorkerHandler(dir *directory.Service, ratings *rating.Service) *WorkerHandler {
	return &WorkerHandler{Directory: dir, Ratings: ratings}
}

// List returns every available worker, optionally narrowed by ?skill= and
// ?q= (both substring, both case-insensitive, conjunctive).
func (h *WorkerHandler) List(c *fiber.Ctx) error {
	skill := c.Query("skill")
	q := c.Query("q")

	var (
		workers []models.User
		err     error
	)
	if skill == "" && q == "" {
		workers, err = h.Directory.ListAvailable(c.Context())
	} else {
		workers, err = h.Directory.Search(c.Context(), skill, q)
	}
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]fiber.Map, 0, len(workers))
	for i := range workers {
		out = append(out, toWorkerResponse(&workers[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

func (h *WorkerHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid worker ID",
		})
	}

	w, err := h.Directory.GetWorker(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toWorkerResponse(w),
	})
}

// GetRatings returns a worker's ratings, newest first.
func (h *WorkerHandler) GetRatings(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid worker ID",
		})
	}

	ratings, err := h.Ratings.ListForWorker(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]fiber.Map, 0, len(ratings))
	for i := range ratings {
		out = append(out, toRatingResponse(&ratings[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

type SetAvailabilityReq struct {
	AvailabilityStatus string `json:"availability_status"`
}

// SetAvailability toggles the authenticated worker's directory visibility.
func (h *WorkerHandler) SetAvailability(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req SetAvailabilityReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	status := models.AvailabilityStatus(req.AvailabilityStatus)
	if status != models.AvailabilityAvailable && status != models.AvailabilityUnavailable {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "availability_status must be available or unavailable",
		})
	}

	if err := h.Directory.SetAvailability(c.Context(), uid, status); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Availability updated",
		"data": fiber.Map{
			"availability_status": status,
		},
	})
}
