package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/enoteca-decanter/agenda/internal/repository"
	"github.com/enoteca-decanter/agenda/pkg/rabbitmq"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrEditOnly is returned when a creation sets a value that only an
	// edit may set: CANCELADO status, MENU 4 or the beverage package.
	ErrEditOnly = errors.New("value can only be set when editing")
)

// Publisher announces booking changes. A nil Publisher disables it.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, booking *models.Booking) error
}

type bookingService struct {
	log       *slog.Logger
	repo      repository.BookingRepository
	publisher Publisher
}

func NewBookingService(log *slog.Logger, repo repository.BookingRepository, publisher Publisher) BookingService {
	return &bookingService{log: log, repo: repo, publisher: publisher}
}

func (s *bookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	const op = "service.CreateBooking"

	if err := checkCreatable(booking); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	booking.ID = 0
	if err := s.repo.Create(ctx, booking); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking created", slog.String("op", op), slog.Uint64("id", uint64(booking.ID)))
	s.publish(ctx, rabbitmq.RoutingCreated, booking)
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	const op = "service.GetBooking"

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	const op = "service.ListBookings"

	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

// UpdateBooking replaces every field of booking id except the id itself.
func (s *bookingService) UpdateBooking(ctx context.Context, id uint, booking *models.Booking) error {
	const op = "service.UpdateBooking"

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	booking.ID = existing.ID
	booking.CreatedAt = existing.CreatedAt
	if err := s.repo.Save(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking updated", slog.String("op", op), slog.Uint64("id", uint64(id)), slog.String("status", string(booking.Status)))
	s.publish(ctx, rabbitmq.RoutingUpdated, booking)
	return nil
}

// publish never fails the write that triggered it.
func (s *bookingService) publish(ctx context.Context, routingKey string, booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, booking); err != nil {
		s.log.Warn("failed to publish booking change", slog.String("routing_key", routingKey), sl.Err(err))
	}
}

func checkCreatable(b *models.Booking) error {
	switch {
	case b.Status == models.StatusCancelled:
		return fmt.Errorf("%w: status %s", ErrEditOnly, b.Status)
	case b.MenuTier == models.MenuTier4:
		return fmt.Errorf("%w: menu %s", ErrEditOnly, b.MenuTier)
	case b.BeveragePackage:
		return fmt.Errorf("%w: bebidas", ErrEditOnly)
	}
	return nil
}
