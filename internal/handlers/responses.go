package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/utils"
)

// toUserResponse is the owner/admin view of a user, CNIC decrypted.
func toUserResponse(u *models.User, cnicSecret string) fiber.Map {
	cnic := u.Profile.CNIC
	if cnicSecret != "" {
		if dec, err := utils.DecryptCNIC(cnic, cnicSecret); err == nil {
			cnic = dec
		}
	}

	var photos map[string]string
	if len(u.Profile.CNICPhotos) > 0 {
		_ = json.Unmarshal(u.Profile.CNICPhotos, &photos)
	}

	return fiber.Map{
		"id":                  u.ID,
		"email":               u.Email,
		"phone":               u.Phone,
		"role":                u.Role,
		"status":              u.Status,
		"availability_status": u.AvailabilityStatus,
		"profile": fiber.Map{
			"first_name":       u.Profile.FirstName,
			"last_name":        u.Profile.LastName,
			"full_name":        u.Profile.FullName,
			"address":          u.Profile.Address,
			"cnic":             cnic,
			"cnic_verified":    u.Profile.CNICVerified,
			"cnic_photos":      photos,
			"skills":           u.SkillList(),
			"description":      u.Profile.Description,
			"rating":           u.Profile.Rating,
			"hourly_rate":      u.Profile.HourlyRate,
			"experience_years": u.Profile.ExperienceYears,
			"profile_picture":  u.Profile.ProfilePicture,
		},
		"created_at": u.CreatedAt,
	}
}

// toWorkerResponse is the public directory view. Identity-document fields
// stay private.
func toWorkerResponse(u *models.User) fiber.Map {
	return fiber.Map{
		"id":                  u.ID,
		"availability_status": u.AvailabilityStatus,
		"profile": fiber.Map{
			"full_name":        u.Profile.FullName,
			"address":          u.Profile.Address,
			"cnic_verified":    u.Profile.CNICVerified,
			"skills":           u.SkillList(),
			"description":      u.Profile.Description,
			"rating":           u.Profile.Rating,
			"hourly_rate":      u.Profile.HourlyRate,
			"experience_years": u.Profile.ExperienceYears,
			"profile_picture":  u.Profile.ProfilePicture,
		},
	}
}

func toBookingResponse(b *models.Booking) fiber.Map {
	resp := fiber.Map{
		"id":          b.ID,
		"worker_id":   b.WorkerID,
		"employer_id": b.EmployerID,
		"status":      b.Status,
		"date":        b.Date.Format(time.RFC3339),
		"task":        b.Task,
		"description": b.Description,
		"location": fiber.Map{
			"latitude":  b.Location.Latitude,
			"longitude": b.Location.Longitude,
			"address":   b.Location.Address,
		},
		"payment": fiber.Map{
			"amount": b.Payment.Amount,
			"status": b.Payment.Status,
			"method": b.Payment.Method,
		},
		"created_at": b.CreatedAt,
	}

	if b.Worker != nil {
		resp["worker"] = fiber.Map{
			"id":        b.Worker.ID,
			"full_name": b.Worker.Profile.FullName,
		}
	}
	if b.Employer != nil {
		resp["employer"] = fiber.Map{
			"id":        b.Employer.ID,
			"full_name": b.Employer.Profile.FullName,
		}
	}

	return resp
}

func toRatingResponse(r *models.Rating) fiber.Map {
	return fiber.Map{
		"id":          r.ID,
		"booking_id":  r.BookingID,
		"worker_id":   r.WorkerID,
		"employer_id": r.EmployerID,
		"rating":      r.Rating,
		"review":      r.Review,
		"created_at":  r.CreatedAt,
	}
}
