package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karigar-app/karigar-backend/internal/models"
)

type AdminHandler struct {
	DB         *gorm.DB
	CNICSecret string
}

func NewAdminHandler(db *gorm.DB, cnicSecret string) *AdminHandler {
	return &AdminHandler{DB: db, CNICSecret: cnicSecret}
}

// ListUsers returns accounts for the moderation queue, optionally filtered
// by ?status= and ?role=.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	q := h.DB.Model(&models.User{}).Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch users",
		})
	}

	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i], h.CNICSecret))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

type SetUserStatusReq struct {
	Status string `json:"status"`
}

// SetUserStatus approves, rejects or suspends an account. Admin accounts
// cannot be moderated through this endpoint.
func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID",
		})
	}

	var req SetUserStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	status := models.UserStatus(req.Status)
	switch status {
	case models.StatusApproved, models.StatusRejected, models.StatusSuspended:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "status must be approved, rejected or suspended",
		})
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}
	if user.Role == models.RoleAdmin {
		return fiber.ErrForbidden
	}

	if err := h.DB.Model(&user).Update("status", status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update user",
		})
	}

	user.Status = status
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User status updated",
		"data":    toUserResponse(&user, h.CNICSecret),
	})
}

type VerifyCNICReq struct {
	Verified bool `json:"verified"`
}

// VerifyCNIC marks a user's identity document as reviewed.
func (h *AdminHandler) VerifyCNIC(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID",
		})
	}

	var req VerifyCNICReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	res := h.DB.Model(&models.User{}).Where("id = ?", id).
		Update("profile_cnic_verified", req.Verified)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update user",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "CNIC verification updated",
	})
}

// Stats powers the admin dashboard counters.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	var (
		totalWorkers   int64
		totalEmployers int64
		pendingUsers   int64
		totalBookings  int64
		completed      int64
	)

	h.DB.Model(&models.User{}).Where("role = ?", models.RoleWorker).Count(&totalWorkers)
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleEmployer).Count(&totalEmployers)
	h.DB.Model(&models.User{}).Where("status = ?", models.StatusPending).Count(&pendingUsers)
	h.DB.Model(&models.Booking{}).Count(&totalBookings)
	h.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).Count(&completed)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_workers":      totalWorkers,
			"total_employers":    totalEmployers,
			"pending_users":      pendingUsers,
			"total_bookings":     totalBookings,
			"completed_bookings": completed,
		},
	})
}
