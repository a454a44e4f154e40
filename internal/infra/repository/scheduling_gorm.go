package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Business Calendar
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBusinessHours(
	ctx context.Context,
	dayOfWeek int,
) (*models.BusinessHours, error) {

	var hours models.BusinessHours
	err := r.db.WithContext(ctx).
		Where("day_of_week = ?", dayOfWeek).
		First(&hours).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &hours, nil
}

// --------------------------------------------------
// Block Registry
// --------------------------------------------------

func (r *SchedulingGormRepository) ListBlocks(
	ctx context.Context,
	windowStart time.Time,
	windowEnd time.Time,
) ([]models.AvailabilityBlock, error) {

	var blocks []models.AvailabilityBlock
	err := r.db.WithContext(ctx).
		Where(
			"block_type = ? AND start_time <= ? AND end_time >= ?",
			domain.BlockTypeBlocked,
			windowEnd,
			windowStart,
		).
		Order("start_time ASC").
		Find(&blocks).Error

	if err != nil {
		return nil, err
	}

	return blocks, nil
}

// --------------------------------------------------
// Booking Ledger (reads)
// --------------------------------------------------

func (r *SchedulingGormRepository) ListActiveBookings(
	ctx context.Context,
	windowStart time.Time,
	windowEnd time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"status IN ? AND start_time >= ? AND start_time <= ?",
			domain.AvailabilityStatuses,
			windowStart,
			windowEnd,
		).
		Order("start_time ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// CountOverlappingBookings locks the overlapping rows and counts them in
// application code. Postgres rejects FOR UPDATE combined with aggregates, so
// the ids are selected and counted here rather than with count(*).
func (r *SchedulingGormRepository) CountOverlappingBookings(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (int64, error) {

	var ids []uint
	err := overlappingBookingIDs(r.db.WithContext(ctx), start, end).
		Pluck("id", &ids).Error

	if err != nil {
		return 0, err
	}

	return int64(len(ids)), nil
}

func overlappingBookingIDs(db *gorm.DB, start, end time.Time) *gorm.DB {
	return db.
		Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"status NOT IN ? AND start_time < ? AND end_time > ?",
			domain.ReleasedStatuses,
			end,
			start,
		)
}

func (r *SchedulingGormRepository) GetBookingDetail(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("ServiceType").
		First(&b, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// --------------------------------------------------
// Service Types
// --------------------------------------------------

func (r *SchedulingGormRepository) GetActiveServiceType(
	ctx context.Context,
	id uint,
) (*models.ServiceType, error) {

	var svc models.ServiceType
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = true", id).
		First(&svc).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &svc, nil
}

func (r *SchedulingGormRepository) ListActiveServiceTypes(
	ctx context.Context,
) ([]models.ServiceType, error) {

	var types []models.ServiceType
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("duration_minutes ASC").
		Find(&types).Error

	if err != nil {
		return nil, err
	}

	return types, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *SchedulingGormRepository) UpsertCustomerByEmail(
	ctx context.Context,
	email string,
	firstName string,
	lastName string,
	phone string,
) (*models.Customer, error) {

	email = strings.ToLower(strings.TrimSpace(email))

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&customer).Error

	if err == nil {
		customer.FirstName = firstName
		customer.LastName = lastName
		customer.Phone = phone

		if err := r.db.WithContext(ctx).Save(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Booking Ledger (writes)
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *SchedulingGormRepository) ExpireStalePending(
	ctx context.Context,
	olderThan time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"status = ? AND created_at < ?",
			string(domain.StatusPending),
			olderThan,
		).
		Update("status", string(domain.StatusCancelled))

	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

// WithinTransaction hands fn a repository bound to a serializable
// transaction. Serializable isolation plus the locked overlap count is what
// prevents two concurrent attempts from both committing the same slot.
func (r *SchedulingGormRepository) WithinTransaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSchedulingGormRepository(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
