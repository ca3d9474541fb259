package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bedspace-scheduling-backend/internal/model"
)

// Store defines the interface for all database operations. The read queries
// are the occupancy index the scheduling engine runs on; the writes back the
// API shell. Reads never mask failures: a broken read path surfaces as an
// error, never as "no occupancies".
type Store interface {
	PremisesByID(ctx context.Context, id uuid.UUID) (*model.Premises, error)
	BedspaceByID(ctx context.Context, id uuid.UUID) (*model.Bedspace, error)
	BookingsForBedspace(ctx context.Context, bedspaceID uuid.UUID, arrivingOnOrBefore time.Time) ([]model.Booking, error)
	VoidPeriodsForBedspace(ctx context.Context, bedspaceID uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error)
	BookingsForPremises(ctx context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.Booking, error)
	VoidPeriodsForPremises(ctx context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error)
	LatestBookingDepartingBefore(ctx context.Context, bedspaceID uuid.UUID, before time.Time) (*model.Booking, error)
	BedspacesForSearch(ctx context.Context, deliveryUnitIDs []uuid.UUID, startDate, endDate time.Time) ([]model.Bedspace, error)
	ProbationDeliveryUnits(ctx context.Context, ids []uuid.UUID) ([]model.ProbationDeliveryUnit, error)
	ResolveCharacteristics(ctx context.Context, names []string) ([]model.Characteristic, error)

	BookingByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	CreateBooking(ctx context.Context, booking *model.Booking) error
	UpdateBookingDeparture(ctx context.Context, id uuid.UUID, departure time.Time) error
	VoidPeriodByID(ctx context.Context, id uuid.UUID) (*model.VoidPeriod, error)
	CreateVoidPeriod(ctx context.Context, void *model.VoidPeriod) error
	CancelVoidPeriod(ctx context.Context, id uuid.UUID, at time.Time) error

	// Transaction runs fn against a store bound to a database transaction.
	// The conflict-check-then-write sequences in the API shell run inside it
	// so a request's own reads and writes cannot interleave with its write.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) PremisesByID(ctx context.Context, id uuid.UUID) (*model.Premises, error) {
	var premises model.Premises
	err := s.db.WithContext(ctx).
		Preload("Characteristics").
		First(&premises, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("premises %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch premises %s: %w", id, err)
	}
	return &premises, nil
}

func (s *gormStore) BedspaceByID(ctx context.Context, id uuid.UUID) (*model.Bedspace, error) {
	var bedspace model.Bedspace
	err := s.db.WithContext(ctx).
		Preload("Room.Premises").
		First(&bedspace, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("bedspace %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bedspace %s: %w", id, err)
	}
	return &bedspace, nil
}

func (s *gormStore) BookingsForBedspace(ctx context.Context, bedspaceID uuid.UUID, arrivingOnOrBefore time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("bedspace_id = ? AND status <> ? AND arrival_date <= ?", bedspaceID, model.BookingStatusCancelled, arrivingOnOrBefore).
		Order("arrival_date").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for bedspace %s: %w", bedspaceID, err)
	}
	return bookings, nil
}

func (s *gormStore) VoidPeriodsForBedspace(ctx context.Context, bedspaceID uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error) {
	var voids []model.VoidPeriod
	err := s.db.WithContext(ctx).
		Where("bedspace_id = ? AND cancelled_at IS NULL AND start_date < ? AND end_date > ?", bedspaceID, to, from).
		Order("start_date").
		Find(&voids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch void periods for bedspace %s: %w", bedspaceID, err)
	}
	return voids, nil
}

func (s *gormStore) BookingsForPremises(ctx context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Joins("JOIN bedspaces ON bedspaces.id = bookings.bedspace_id").
		Joins("JOIN rooms ON rooms.id = bedspaces.room_id").
		Where("rooms.premises_id IN ?", premisesIDs).
		Where("bookings.arrival_date <= ? AND bookings.departure_date >= ?", to, from).
		Preload("Bedspace.Room").
		Order("bookings.arrival_date, bookings.id").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for premises: %w", err)
	}
	return bookings, nil
}

func (s *gormStore) VoidPeriodsForPremises(ctx context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error) {
	var voids []model.VoidPeriod
	err := s.db.WithContext(ctx).
		Joins("JOIN bedspaces ON bedspaces.id = void_periods.bedspace_id").
		Joins("JOIN rooms ON rooms.id = bedspaces.room_id").
		Where("rooms.premises_id IN ?", premisesIDs).
		Where("void_periods.cancelled_at IS NULL").
		Where("void_periods.start_date < ? AND void_periods.end_date > ?", to, from).
		Order("void_periods.start_date, void_periods.id").
		Find(&voids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch void periods for premises: %w", err)
	}
	return voids, nil
}

func (s *gormStore) LatestBookingDepartingBefore(ctx context.Context, bedspaceID uuid.UUID, before time.Time) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).
		Where("bedspace_id = ? AND status <> ? AND departure_date < ?", bedspaceID, model.BookingStatusCancelled, before).
		Order("departure_date DESC").
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest booking for bedspace %s: %w", bedspaceID, err)
	}
	return &booking, nil
}

func (s *gormStore) BedspacesForSearch(ctx context.Context, deliveryUnitIDs []uuid.UUID, startDate, endDate time.Time) ([]model.Bedspace, error) {
	var bedspaces []model.Bedspace
	err := s.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = bedspaces.room_id").
		Joins("JOIN premises ON premises.id = rooms.premises_id").
		Where("premises.probation_delivery_unit_id IN ?", deliveryUnitIDs).
		Where("bedspaces.end_date IS NULL OR bedspaces.end_date > ?", endDate).
		Where("NOT EXISTS (SELECT 1 FROM bookings WHERE bookings.bedspace_id = bedspaces.id AND bookings.status <> ? AND bookings.arrival_date <= ? AND bookings.departure_date >= ?)",
			model.BookingStatusCancelled, endDate, startDate).
		Where("NOT EXISTS (SELECT 1 FROM void_periods WHERE void_periods.bedspace_id = bedspaces.id AND void_periods.cancelled_at IS NULL AND void_periods.start_date <= ? AND void_periods.end_date > ?)",
			endDate, startDate).
		Preload("Room.Characteristics").
		Preload("Room.Premises.Characteristics").
		Order("bedspaces.reference, bedspaces.id").
		Find(&bedspaces).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search bedspaces: %w", err)
	}
	return bedspaces, nil
}

func (s *gormStore) ProbationDeliveryUnits(ctx context.Context, ids []uuid.UUID) ([]model.ProbationDeliveryUnit, error) {
	var units []model.ProbationDeliveryUnit
	if err := s.db.WithContext(ctx).Find(&units, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch probation delivery units: %w", err)
	}
	return units, nil
}

func (s *gormStore) ResolveCharacteristics(ctx context.Context, names []string) ([]model.Characteristic, error) {
	var characteristics []model.Characteristic
	if err := s.db.WithContext(ctx).Find(&characteristics, "name IN ?", names).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve characteristics: %w", err)
	}
	return characteristics, nil
}

func (s *gormStore) BookingByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).
		Preload("Bedspace.Room").
		First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (s *gormStore) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateBookingDeparture(ctx context.Context, id uuid.UUID, departure time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Update("departure_date", departure)
	if result.Error != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) VoidPeriodByID(ctx context.Context, id uuid.UUID) (*model.VoidPeriod, error) {
	var void model.VoidPeriod
	err := s.db.WithContext(ctx).First(&void, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("void period %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch void period %s: %w", id, err)
	}
	return &void, nil
}

func (s *gormStore) CreateVoidPeriod(ctx context.Context, void *model.VoidPeriod) error {
	if err := s.db.WithContext(ctx).Create(void).Error; err != nil {
		return fmt.Errorf("failed to create void period: %w", err)
	}
	return nil
}

func (s *gormStore) CancelVoidPeriod(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.VoidPeriod{}).
		Where("id = ? AND cancelled_at IS NULL", id).
		Update("cancelled_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel void period %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("void period %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
