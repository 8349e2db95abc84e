package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/karigar-app/karigar-backend/internal/models"
)

type SkillHandler struct {
	DB *gorm.DB
}

func NewSkillHandler(db *gorm.DB) *SkillHandler {
	return &SkillHandler{DB: db}
}

// List returns the skill registry, optionally filtered by ?category=.
func (h *SkillHandler) List(c *fiber.Ctx) error {
	q := h.DB.Model(&models.Skill{}).Order("name ASC")
	if category := c.Query("category"); category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}

	var skills []models.Skill
	if err := q.Find(&skills).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch skills",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    skills,
	})
}

// Categories returns the distinct skill categories for directory filters.
func (h *SkillHandler) Categories(c *fiber.Ctx) error {
	var categories []string
	if err := h.DB.Model(&models.Skill{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch categories",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

type CreateSkillReq struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Create adds a skill to the registry. Names are unique case-insensitively.
func (h *SkillHandler) Create(c *fiber.Ctx) error {
	var req CreateSkillReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "name is required",
		})
	}

	var existing models.Skill
	err := h.DB.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Skill already exists",
		})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to check skill",
		})
	}

	skill := models.Skill{
		Name:     name,
		Category: strings.TrimSpace(req.Category),
	}
	if err := h.DB.Create(&skill).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create skill",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Skill created",
		"data":    skill,
	})
}
