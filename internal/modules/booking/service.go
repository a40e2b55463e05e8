package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"renthub/internal/domain"
	"renthub/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Service struct {
	bookings   BookingRepository
	properties PropertyReader
	notifier   Notifier
}

func NewService(bookings BookingRepository, properties PropertyReader, notifier Notifier) *Service {
	return &Service{
		bookings:   bookings,
		properties: properties,
		notifier:   notifier,
	}
}

// CreateBooking validates the rental window, resolves the property and
// persists a pending booking. TenantID comes from the authenticated caller
// and LandlordID from the stored property, never from client input.
func (s *Service) CreateBooking(ctx context.Context, tenantID, propertyID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if err := validateRentWindow(time.Now(), req.RentStart, req.RentEnd); err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	b := &domain.Booking{
		PropertyID: p.ID,
		TenantID:   tenantID,
		LandlordID: p.LandlordID,
		Message:    req.Message,
		Status:     domain.BookingPending,
		RentStart:  req.RentStart.UTC(),
		RentEnd:    req.RentEnd.UTC(),
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.BookingCreated(ctx, b)
	}

	return b, nil
}

func (s *Service) ListForTenant(ctx context.Context, tenantID int64, q ListQuery) (*BookingPage, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	status := normalizeStatusFilter(q.Status)

	total, err := s.bookings.CountForTenant(ctx, tenantID, status)
	if err != nil {
		return nil, err
	}

	rows, err := s.bookings.ListForTenant(ctx, tenantID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return newPage(rows, total, page, limit), nil
}

func (s *Service) ListForLandlord(ctx context.Context, landlordID int64, q ListQuery) (*BookingPage, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	status := normalizeStatusFilter(q.Status)

	total, err := s.bookings.CountForLandlord(ctx, landlordID, status)
	if err != nil {
		return nil, err
	}

	rows, err := s.bookings.ListForLandlord(ctx, landlordID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return newPage(rows, total, page, limit), nil
}

func (s *Service) GetForTenant(ctx context.Context, tenantID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetForTenant(ctx, bookingID, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) GetForLandlord(ctx context.Context, landlordID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetForLandlord(ctx, bookingID, landlordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Approve moves a pending booking to approved. Only the landlord the
// booking was snapshotted against may call it.
func (s *Service) Approve(ctx context.Context, landlordID, bookingID int64) (*domain.Booking, error) {
	return s.decide(ctx, landlordID, bookingID, domain.BookingApproved)
}

// Reject moves a pending booking to rejected, a terminal state.
func (s *Service) Reject(ctx context.Context, landlordID, bookingID int64) (*domain.Booking, error) {
	return s.decide(ctx, landlordID, bookingID, domain.BookingRejected)
}

func (s *Service) decide(ctx context.Context, landlordID, bookingID int64, to domain.BookingStatus) (*domain.Booking, error) {
	ok, err := s.bookings.TransitionForLandlord(ctx, bookingID, landlordID,
		[]domain.BookingStatus{domain.BookingPending}, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.classifyLandlordMiss(ctx, bookingID, landlordID)
	}

	b, err := s.bookings.GetForLandlord(ctx, bookingID, landlordID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.BookingDecided(ctx, b)
	}

	return b, nil
}

// Cancel lets the owning tenant withdraw a pending booking. Approved and
// terminal bookings answer with a conflict rather than flipping silently.
func (s *Service) Cancel(ctx context.Context, tenantID, bookingID int64) (*domain.Booking, error) {
	ok, err := s.bookings.TransitionForTenant(ctx, bookingID, tenantID,
		[]domain.BookingStatus{domain.BookingPending}, domain.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.classifyTenantMiss(ctx, bookingID, tenantID)
	}

	return s.bookings.GetForTenant(ctx, bookingID, tenantID)
}

// Reschedule rewrites the rental window of a pending or approved booking.
// The date invariants are re-validated in full.
func (s *Service) Reschedule(ctx context.Context, tenantID, bookingID int64, req RescheduleRequest) (*domain.Booking, error) {
	if err := validateRentWindow(time.Now(), req.RentStart, req.RentEnd); err != nil {
		return nil, err
	}

	ok, err := s.bookings.UpdateDatesForTenant(ctx, bookingID, tenantID,
		[]domain.BookingStatus{domain.BookingPending, domain.BookingApproved},
		req.RentStart.UTC(), req.RentEnd.UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.classifyTenantMiss(ctx, bookingID, tenantID)
	}

	return s.bookings.GetForTenant(ctx, bookingID, tenantID)
}

// MarkPaid records payment on an approved booking.
func (s *Service) MarkPaid(ctx context.Context, landlordID, bookingID int64) (*domain.Booking, error) {
	ok, err := s.bookings.MarkPaidForLandlord(ctx, bookingID, landlordID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.classifyLandlordMiss(ctx, bookingID, landlordID)
	}

	return s.bookings.GetForLandlord(ctx, bookingID, landlordID)
}

// classifyTenantMiss decides whether a failed conditional update means the
// booking is invisible to the caller (not found) or visible but in the
// wrong state (conflict).
func (s *Service) classifyTenantMiss(ctx context.Context, bookingID, tenantID int64) error {
	if _, err := s.bookings.GetForTenant(ctx, bookingID, tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return ErrConflict
}

func (s *Service) classifyLandlordMiss(ctx context.Context, bookingID, landlordID int64) error {
	if _, err := s.bookings.GetForLandlord(ctx, bookingID, landlordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return ErrConflict
}

// validateRentWindow enforces the date invariants shared by creation and
// reschedule: start strictly in the future, end strictly after start, end
// strictly in the future.
func validateRentWindow(now, start, end time.Time) error {
	switch {
	case start.IsZero() || end.IsZero():
		return fmt.Errorf("%w: rent start and rent end are required", ErrValidation)
	case !start.After(now):
		return fmt.Errorf("%w: rent start must be in the future", ErrValidation)
	case !end.After(start):
		return fmt.Errorf("%w: rent end must be after rent start", ErrValidation)
	case !end.After(now):
		return fmt.Errorf("%w: rent end must be in the future", ErrValidation)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// normalizeStatusFilter drops unrecognized values instead of erroring;
// listing stays permissive.
func normalizeStatusFilter(status string) string {
	if domain.ValidBookingStatus(status) {
		return status
	}
	return ""
}

func newPage(rows []repository.BookingListRow, total int64, page, limit int) *BookingPage {
	return &BookingPage{
		Bookings:    rows,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}
}
