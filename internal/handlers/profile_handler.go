package handlers

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/karigar-app/karigar-backend/internal/models"
)

const maxUploadBytes = 5 << 20 // 5 MB per image

type ProfileHandler struct {
	DB         *gorm.DB
	CNICSecret string
	UploadDir  string
}

func NewProfileHandler(db *gorm.DB, cnicSecret, uploadDir string) *ProfileHandler {
	return &ProfileHandler{DB: db, CNICSecret: cnicSecret, UploadDir: uploadDir}
}

type UpdateProfileReq struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Phone           *string  `json:"phone"`
	Address         *string  `json:"address"`
	Description     *string  `json:"description"`
	Skills          []string `json:"skills"`
	HourlyRate      *int64   `json:"hourly_rate"`
	ExperienceYears *int     `json:"experience_years"`
}

// Update applies a partial profile edit for the authenticated user. Only
// fields present in the body change; the full name is recomputed whenever
// either name part does.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req UpdateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	updates := map[string]interface{}{}
	nameChanged := false

	if req.FirstName != nil {
		user.Profile.FirstName = strings.TrimSpace(*req.FirstName)
		updates["profile_first_name"] = user.Profile.FirstName
		nameChanged = true
	}
	if req.LastName != nil {
		user.Profile.LastName = strings.TrimSpace(*req.LastName)
		updates["profile_last_name"] = user.Profile.LastName
		nameChanged = true
	}
	if nameChanged {
		user.Profile.FullName = strings.TrimSpace(user.Profile.FirstName + " " + user.Profile.LastName)
		updates["profile_full_name"] = user.Profile.FullName
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updates["profile_address"] = strings.TrimSpace(*req.Address)
	}
	if req.Description != nil {
		updates["profile_description"] = strings.TrimSpace(*req.Description)
	}
	if req.Skills != nil {
		raw, err := json.Marshal(req.Skills)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid skills",
			})
		}
		updates["profile_skills"] = datatypes.JSON(raw)
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "hourly_rate must not be negative",
			})
		}
		updates["profile_hourly_rate"] = *req.HourlyRate
	}
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "experience_years must not be negative",
			})
		}
		updates["profile_experience_years"] = *req.ExperienceYears
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update profile",
			})
		}
	}

	if err := h.DB.First(&user, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to reload profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated",
		"data":    toUserResponse(&user, h.CNICSecret),
	})
}

// UploadCNICPhotos stores the front and back CNIC images and records their
// paths on the profile. Re-uploading resets the verification flag.
func (h *ProfileHandler) UploadCNICPhotos(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	photos := map[string]string{}
	for _, side := range []string{"front", "back"} {
		file, err := c.FormFile(side)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("%s image is required", side),
			})
		}
		if file.Size > maxUploadBytes {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("%s image exceeds 5MB", side),
			})
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Only jpg and png images are allowed",
			})
		}

		rel := filepath.Join("cnic", uid.String(), side+ext)
		dst := filepath.Join(h.UploadDir, rel)
		if err := c.SaveFile(file, dst); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to store image",
			})
		}
		photos[side] = "/uploads/" + filepath.ToSlash(rel)
	}

	raw, err := json.Marshal(photos)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store image paths",
		})
	}

	res := h.DB.Model(&models.User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"profile_cnic_photos":   datatypes.JSON(raw),
		"profile_cnic_verified": false,
	})
	if res.Error != nil || res.RowsAffected == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "CNIC photos uploaded, pending verification",
		"data":    photos,
	})
}

// UploadProfilePicture stores a display picture for the authenticated user.
func (h *ProfileHandler) UploadProfilePicture(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	file, err := c.FormFile("picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "picture is required",
		})
	}
	if file.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "picture exceeds 5MB",
		})
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Only jpg and png images are allowed",
		})
	}

	rel := filepath.Join("avatars", uid.String()+ext)
	if err := c.SaveFile(file, filepath.Join(h.UploadDir, rel)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store image",
		})
	}

	url := "/uploads/" + filepath.ToSlash(rel)
	res := h.DB.Model(&models.User{}).Where("id = ?", uid).
		Update("profile_profile_picture", url)
	if res.Error != nil || res.RowsAffected == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile picture updated",
		"data": fiber.Map{
			"profile_picture": url,
		},
	})
}
