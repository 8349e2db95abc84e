package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karigar-app/karigar-backend/internal/models"
)

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// GormUsers implements UserStore on Postgres.
type GormUsers struct {
	DB *gorm.DB
}

func NewGormUsers(db *gorm.DB) *GormUsers { return &GormUsers{DB: db} }

func (s *GormUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (s *GormUsers) ListWorkers(ctx context.Context) ([]models.User, error) {
	var workers []models.User
	if err := s.DB.WithContext(ctx).
		Where("role = ?", models.RoleWorker).
		Find(&workers).Error; err != nil {
		return nil, wrapErr(err)
	}
	return workers, nil
}

func (s *GormUsers) UpdateAvailability(ctx context.Context, workerID uuid.UUID, status models.AvailabilityStatus) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", workerID).
		Updates(map[string]interface{}{
			"availability_status": status,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormUsers) UpdateRating(ctx context.Context, workerID uuid.UUID, rating float64) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", workerID).
		Updates(map[string]interface{}{
			"profile_rating": rating,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GormBookings implements BookingStore on Postgres.
type GormBookings struct {
	DB *gorm.DB
}

func NewGormBookings(db *gorm.DB) *GormBookings { return &GormBookings{DB: db} }

func (s *GormBookings) Create(ctx context.Context, b *models.Booking) error {
	return wrapErr(s.DB.WithContext(ctx).Create(b).Error)
}

func (s *GormBookings) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &b, nil
}

func (s *GormBookings) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	res := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormBookings) UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, method string) error {
	res := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": status,
			"payment_method": method,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormBookings) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Booking, error) {
	return s.list(ctx, "employer_id = ?", employerID)
}

func (s *GormBookings) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Booking, error) {
	return s.list(ctx, "worker_id = ?", workerID)
}

func (s *GormBookings) ListAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, wrapErr(err)
	}
	return bookings, nil
}

func (s *GormBookings) list(ctx context.Context, cond string, arg interface{}) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Worker").
		Preload("Employer").
		Where(cond, arg).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, wrapErr(err)
	}
	return bookings, nil
}

// GormRatings implements RatingStore on Postgres.
type GormRatings struct {
	DB *gorm.DB
}

func NewGormRatings(db *gorm.DB) *GormRatings { return &GormRatings{DB: db} }

func (s *GormRatings) Create(ctx context.Context, r *models.Rating) error {
	return wrapErr(s.DB.WithContext(ctx).Create(r).Error)
}

func (s *GormRatings) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := s.DB.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, wrapErr(err)
	}
	return ratings, nil
}

func (s *GormRatings) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Rating{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error; err != nil {
		return false, wrapErr(err)
	}
	return count > 0, nil
}
