package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/utils"
)

type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	Expires    int
	CNICSecret string
}

type RegisterReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CNIC      string `json:"cnic"`
	Role      string `json:"role"` // employer / worker (admin never from the public API)

	// Worker-only fields
	Skills          []string `json:"skills,omitempty"`
	HourlyRate      int64    `json:"hourly_rate,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
	Description     string   `json:"description,omitempty"`
}

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	password := strings.TrimSpace(req.Password)
	address := strings.TrimSpace(req.Address)
	cnic := strings.TrimSpace(req.CNIC)
	role := strings.ToLower(strings.TrimSpace(req.Role))

	errors := FieldErrors{}

	if firstName == "" {
		errors.Add("first_name", "First name is required")
	}
	if lastName == "" {
		errors.Add("last_name", "Last name is required")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Invalid email format")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	} else if len(password) < 6 {
		errors.Add("password", "Password must be at least 6 characters")
	}
	if phone == "" {
		errors.Add("phone", "Phone number is required")
	} else if len(phone) < 8 {
		errors.Add("phone", "Invalid phone number")
	}
	if address == "" {
		errors.Add("address", "Address is required")
	}
	if cnic == "" {
		errors.Add("cnic", "CNIC is required")
	}
	if role != string(models.RoleEmployer) && role != string(models.RoleWorker) {
		errors.Add("role", "Role must be employer or worker")
	}
	if role == string(models.RoleWorker) && len(req.Skills) == 0 {
		errors.Add("skills", "Workers must list at least one skill")
	}

	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "Email is already registered")
		return validationFail(c, errs)
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to process password",
		})
	}

	storedCNIC := cnic
	if h.CNICSecret != "" {
		if enc, err := utils.EncryptCNIC(cnic, h.CNICSecret); err == nil {
			storedCNIC = enc
		} else {
			log.Println("Failed to encrypt CNIC:", err)
		}
	}

	profile := models.Profile{
		FirstName:       firstName,
		LastName:        lastName,
		FullName:        firstName + " " + lastName,
		Address:         address,
		CNIC:            storedCNIC,
		HourlyRate:      req.HourlyRate,
		ExperienceYears: req.ExperienceYears,
		Description:     strings.TrimSpace(req.Description),
	}
	if len(req.Skills) > 0 {
		if b, err := json.Marshal(req.Skills); err == nil {
			profile.Skills = datatypes.JSON(b)
		}
	}

	u := models.User{
		Email:              email,
		Phone:              phone,
		Password:           pw,
		Role:               models.Role(role),
		Status:             models.StatusPending, // admin approval gate
		AvailabilityStatus: models.AvailabilityAvailable,
		Profile:            profile,
	}

	if err := h.DB.Create(&u).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to register",
		})
	}

	// No session cookie: the account must be approved before it can sign in.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration received. Your account is pending approval.",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":     u.ID,
				"name":   u.Profile.FullName,
				"email":  u.Email,
				"phone":  u.Phone,
				"role":   u.Role,
				"status": u.Status,
			},
		},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// statusMessage is the account-status business rule checked after the
// credentials pass and before any session is granted.
func statusMessage(status models.UserStatus) string {
	switch status {
	case models.StatusPending:
		return "Your account is pending approval. Please wait for admin approval."
	case models.StatusRejected:
		return "Your account has been rejected. Please contact support."
	case models.StatusSuspended:
		return "Your account has been suspended. Please contact support."
	default:
		return "Your account is not approved. Please contact support."
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Invalid body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if email == "" {
		errors.Add("email", "Email is required")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}

	if !utils.CheckPassword(u.Password, password) {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}

	if u.Status != models.StatusApproved {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": statusMessage(u.Status),
			"data": fiber.Map{
				"status": u.Status,
			},
		})
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "kg_token",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Signed in",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":     u.ID,
				"name":   u.Profile.FullName,
				"email":  u.Email,
				"role":   u.Role,
				"status": u.Status,
			},
		},
	})
}

// Status is the credentialed status check behind the status-check screen:
// it verifies email+password and reports the account status without ever
// issuing a session.
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Invalid body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}

	if !utils.CheckPassword(u.Password, strings.TrimSpace(req.Password)) {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"status":  u.Status,
			"message": statusMessage(u.Status),
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "kg_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Signed out",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toUserResponse(&u, h.CNICSecret),
	})
}
