package repository

import (
	"context"
	"errors"

	"github.com/enoteca-decanter/agenda/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	Save(ctx context.Context, booking *models.Booking) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// FindAll returns bookings in insertion order.
func (r *bookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Save writes every column of an existing booking, zero values included.
func (r *bookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	res := r.db.WithContext(ctx).
		Model(booking).
		Select("*").
		Omit("id", "created_at").
		Updates(booking)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
