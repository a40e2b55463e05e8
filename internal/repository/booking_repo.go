package repository

import (
	"context"
	"time"

	"renthub/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	PropertyID int64     `gorm:"column:property_id;index"`
	TenantID   int64     `gorm:"column:tenant_id;index"`
	LandlordID int64     `gorm:"column:landlord_id;index"`
	Message    *string   `gorm:"column:message;type:text"`
	Status     string    `gorm:"column:status"`
	RentStart  time.Time `gorm:"column:rent_start"`
	RentEnd    time.Time `gorm:"column:rent_end"`
	IsPaid     bool      `gorm:"column:is_paid"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// BookingListRow is a booking joined with the display fields of its
// property for the tenant/landlord list views.
type BookingListRow struct {
	ID            int64     `gorm:"column:id" json:"id"`
	PropertyID    int64     `gorm:"column:property_id" json:"property_id"`
	TenantID      int64     `gorm:"column:tenant_id" json:"tenant_id"`
	LandlordID    int64     `gorm:"column:landlord_id" json:"landlord_id"`
	Status        string    `gorm:"column:status" json:"status"`
	RentStart     time.Time `gorm:"column:rent_start" json:"rent_start"`
	RentEnd       time.Time `gorm:"column:rent_end" json:"rent_end"`
	IsPaid        bool      `gorm:"column:is_paid" json:"is_paid"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	PropertyTitle string    `gorm:"column:property_title" json:"property_title"`
	PropertyCity  string    `gorm:"column:property_city" json:"property_city"`
}

func toDomainBooking(m bookingModel) *domain.Booking {
	var message string
	if m.Message != nil {
		message = *m.Message
	}

	return &domain.Booking{
		ID:         m.ID,
		PropertyID: m.PropertyID,
		TenantID:   m.TenantID,
		LandlordID: m.LandlordID,
		Message:    message,
		Status:     domain.BookingStatus(m.Status),
		RentStart:  m.RentStart,
		RentEnd:    m.RentEnd,
		IsPaid:     m.IsPaid,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var message *string
	if b.Message != "" {
		v := b.Message
		message = &v
	}

	return bookingModel{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		TenantID:   b.TenantID,
		LandlordID: b.LandlordID,
		Message:    message,
		Status:     string(b.Status),
		RentStart:  b.RentStart,
		RentEnd:    b.RentEnd,
		IsPaid:     b.IsPaid,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

// GetForTenant returns the booking only when tenantID owns it, so a foreign
// booking id behaves exactly like a missing one.
func (r *BookingRepository) GetForTenant(ctx context.Context, id, tenantID int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetForLandlord(ctx context.Context, id, landlordID int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("id = ? AND landlord_id = ?", id, landlordID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) CountForTenant(ctx context.Context, tenantID int64, status string) (int64, error) {
	return r.count(ctx, "tenant_id", tenantID, status)
}

func (r *BookingRepository) CountForLandlord(ctx context.Context, landlordID int64, status string) (int64, error) {
	return r.count(ctx, "landlord_id", landlordID, status)
}

func (r *BookingRepository) count(ctx context.Context, ownerCol string, ownerID int64, status string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{}).Where(ownerCol+" = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *BookingRepository) ListForTenant(ctx context.Context, tenantID int64, status string, limit, offset int) ([]BookingListRow, error) {
	return r.list(ctx, "tenant_id", tenantID, status, limit, offset)
}

func (r *BookingRepository) ListForLandlord(ctx context.Context, landlordID int64, status string, limit, offset int) ([]BookingListRow, error) {
	return r.list(ctx, "landlord_id", landlordID, status, limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, ownerCol string, ownerID int64, status string, limit, offset int) ([]BookingListRow, error) {
	q := r.db.WithContext(ctx).Table("bookings").
		Select("bookings.id, bookings.property_id, bookings.tenant_id, bookings.landlord_id, bookings.status, bookings.rent_start, bookings.rent_end, bookings.is_paid, bookings.created_at, properties.title AS property_title, properties.city AS property_city").
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("bookings."+ownerCol+" = ?", ownerID)
	if status != "" {
		q = q.Where("bookings.status = ?", status)
	}

	rows := make([]BookingListRow, 0)
	tx := q.Order("bookings.created_at DESC").Limit(limit).Offset(offset).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// TransitionForLandlord flips status to `to` only when the booking belongs
// to landlordID and is currently in one of the `from` states. The
// precondition travels inside the UPDATE, so two racing transitions can
// never both win.
func (r *BookingRepository) TransitionForLandlord(ctx context.Context, id, landlordID int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	return r.transition(ctx, "landlord_id", landlordID, id, from, to)
}

func (r *BookingRepository) TransitionForTenant(ctx context.Context, id, tenantID int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	return r.transition(ctx, "tenant_id", tenantID, id, from, to)
}

func (r *BookingRepository) transition(ctx context.Context, ownerCol string, ownerID, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND "+ownerCol+" = ? AND status IN ?", id, ownerID, from).
		Update("status", string(to))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// UpdateDatesForTenant rewrites the rental window, guarded by the same
// conditional-update shape as the status transitions.
func (r *BookingRepository) UpdateDatesForTenant(ctx context.Context, id, tenantID int64, from []domain.BookingStatus, start, end time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND tenant_id = ? AND status IN ?", id, tenantID, from).
		Updates(map[string]any{
			"rent_start": start,
			"rent_end":   end,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) MarkPaidForLandlord(ctx context.Context, id, landlordID int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND landlord_id = ? AND status = ?", id, landlordID, string(domain.BookingApproved)).
		Update("is_paid", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
