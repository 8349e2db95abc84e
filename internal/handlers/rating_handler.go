package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/services/rating"
)

type RatingHandler struct {
	Ratings *rating.Service
}

func NewRatingHandler(ratings *rating.Service) *RatingHandler {
	return &RatingHandler{Ratings: ratings}
}

type SubmitRatingReq struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
}

// Submit records an employer's rating for a completed booking. One rating per
// booking; the worker's average is recomputed as part of the call.
func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	employerID, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req SubmitRatingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid booking ID",
		})
	}

	r, err := h.Ratings.Submit(c.Context(), bookingID, employerID, req.Rating, req.Review)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Rating submitted",
		"data":    toRatingResponse(r),
	})
}
