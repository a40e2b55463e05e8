package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "rentctl",
		Short: "Operational tooling for the renthub backend",
	}
	rootCmd.AddCommand(migrateCmd(), seedCmd(), cleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return database.Connect(dsn)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(repository.Models()...); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Println("schema up to date")
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired refresh tokens and verification codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			ctx := context.Background()
			now := time.Now()

			tokens, err := repository.NewRefreshTokenRepository(db).DeleteStale(ctx, now, now.Add(-olderThan))
			if err != nil {
				return fmt.Errorf("cleanup refresh tokens: %w", err)
			}
			codes, err := repository.NewEmailVerificationRepository(db).DeleteStale(ctx, now)
			if err != nil {
				return fmt.Errorf("cleanup verification codes: %w", err)
			}
			log.Printf("deleted %d refresh tokens, %d verification codes", tokens, codes)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "also remove revoked tokens older than this")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, properties and bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(repository.Models()...); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return seed(db)
		},
	}
}

func seed(db *gorm.DB) error {
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	properties := repository.NewPropertyRepository(db)
	bookings := repository.NewBookingRepository(db)

	log.Println("creating users...")
	landlord, err := seedUser(ctx, users, "landlord@renthub.dev", "Alina Landlord", domain.RoleLandlord)
	if err != nil {
		return err
	}
	tenant, err := seedUser(ctx, users, "renter@renthub.dev", "Timur Renter", domain.RoleRenter)
	if err != nil {
		return err
	}

	log.Println("creating properties...")
	demoProps := []*domain.Property{
		{
			LandlordID:   landlord.ID,
			Title:        "Sunny loft near the river",
			Description:  "Two-room loft with a workspace, five minutes from the embankment.",
			Address:      "12 Riverside Ave",
			City:         "Almaty",
			Country:      "Kazakhstan",
			Lat:          43.238949,
			Lng:          76.889709,
			NightlyPrice: 18000,
			Currency:     "KZT",
			Bedrooms:     2,
			Bathrooms:    1,
			Images:       []string{"https://picsum.photos/seed/loft/800/600"},
			IsAvailable:  true,
		},
		{
			LandlordID:   landlord.ID,
			Title:        "Quiet studio in the old town",
			Description:  "Compact studio, freshly renovated, fast wifi.",
			Address:      "4 Panfilov St",
			City:         "Almaty",
			Country:      "Kazakhstan",
			Lat:          43.261,
			Lng:          76.952,
			NightlyPrice: 9500,
			Currency:     "KZT",
			Bedrooms:     1,
			Bathrooms:    1,
			Images:       []string{"https://picsum.photos/seed/studio/800/600"},
			IsAvailable:  true,
		},
	}
	for _, p := range demoProps {
		if err := properties.Create(ctx, p); err != nil {
			return fmt.Errorf("seed property %q: %w", p.Title, err)
		}
	}

	log.Println("creating bookings...")
	start := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	demoBookings := []*domain.Booking{
		{
			PropertyID: demoProps[0].ID,
			TenantID:   tenant.ID,
			LandlordID: landlord.ID,
			Message:    "Visiting for a work trip, arriving in two weeks.",
			Status:     domain.BookingPending,
			RentStart:  start,
			RentEnd:    start.AddDate(0, 0, 5),
		},
		{
			PropertyID: demoProps[1].ID,
			TenantID:   tenant.ID,
			LandlordID: landlord.ID,
			Message:    "Weekend stay.",
			Status:     domain.BookingApproved,
			RentStart:  start.AddDate(0, 1, 0),
			RentEnd:    start.AddDate(0, 1, 2),
		},
	}
	for _, b := range demoBookings {
		if err := bookings.Create(ctx, b); err != nil {
			return fmt.Errorf("seed booking for property %d: %w", b.PropertyID, err)
		}
	}

	log.Println("done. demo accounts use password 'password123'")
	return nil
}

func seedUser(ctx context.Context, repo *repository.UserRepository, email, name string, role domain.UserRole) (*domain.User, error) {
	existing, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		Name:          name,
		EmailVerified: true,
	}
	if err := repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	return u, nil
}
