package notify

import (
	"context"
	"fmt"
	"log"

	"renthub/internal/domain"
	"renthub/internal/mailer"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Service emails booking events to the counterparty. Everything here is
// best-effort: callers ignore the returned error beyond logging.
type Service struct {
	users UserReader
	mail  mailer.Mailer
}

func NewService(users UserReader, mail mailer.Mailer) *Service {
	return &Service{users: users, mail: mail}
}

// BookingCreated tells the landlord a new request arrived.
func (s *Service) BookingCreated(ctx context.Context, b *domain.Booking) error {
	landlord, err := s.users.GetByID(ctx, b.LandlordID)
	if err != nil {
		return err
	}

	subject := "New booking request"
	plain := fmt.Sprintf("You have a new booking request #%d for %s to %s.",
		b.ID, b.RentStart.Format("2006-01-02"), b.RentEnd.Format("2006-01-02"))
	html := fmt.Sprintf("<p>You have a new booking request <b>#%d</b> for %s to %s.</p>",
		b.ID, b.RentStart.Format("2006-01-02"), b.RentEnd.Format("2006-01-02"))

	if err := s.mail.Send(ctx, landlord.Email, landlord.Name, subject, plain, html); err != nil {
		log.Printf("notify: booking created mail failed: booking=%d err=%v", b.ID, err)
		return err
	}
	return nil
}

// BookingDecided tells the tenant the landlord approved or rejected.
func (s *Service) BookingDecided(ctx context.Context, b *domain.Booking) error {
	tenant, err := s.users.GetByID(ctx, b.TenantID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your booking was %s", b.Status)
	plain := fmt.Sprintf("Your booking request #%d is now %s.", b.ID, b.Status)
	html := fmt.Sprintf("<p>Your booking request <b>#%d</b> is now <b>%s</b>.</p>", b.ID, b.Status)

	if err := s.mail.Send(ctx, tenant.Email, tenant.Name, subject, plain, html); err != nil {
		log.Printf("notify: booking decided mail failed: booking=%d err=%v", b.ID, err)
		return err
	}
	return nil
}
