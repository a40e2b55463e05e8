package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"renthub/internal/blob"
	"renthub/internal/database"
	"renthub/internal/geo"
	"renthub/internal/mailer"
	"renthub/internal/middleware"
	"renthub/internal/modules/auth"
	"renthub/internal/modules/booking"
	"renthub/internal/modules/property"
	"renthub/internal/notify"
	jwtsvc "renthub/internal/pkg/jwt"
	"renthub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	codeRepo := repository.NewEmailVerificationRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	var mail mailer.Mailer
	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		mail = mailer.NewSendGrid(key,
			envOr("MAIL_FROM", "no-reply@renthub.app"),
			envOr("MAIL_FROM_NAME", "RentHub"))
	} else {
		log.Println("SENDGRID_API_KEY empty, transactional mail disabled")
	}

	geocoder := geo.NewHTTPGeocoder(
		envOr("GEOCODER_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		os.Getenv("GEOCODER_API_KEY"),
	)

	blobs := blob.NewCloudinary(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
		envOr("CLOUDINARY_FOLDER", "renthub"),
	)

	authService := auth.NewService(
		userRepo,
		tokenRepo,
		codeRepo,
		j,
		mail,
		os.Getenv("VERIFICATION_CODE_PEPPER"),
		15*time.Minute,
		os.Getenv("REFRESH_TOKEN_PEPPER"),
		30*24*time.Hour,
	)
	authHandler := auth.NewHandler(authService)

	propertyService := property.NewService(propertyRepo, geocoder, blobs)
	propertyHandler := property.NewHandler(propertyService)

	var notifier booking.Notifier
	if mail != nil {
		notifier = notify.NewService(userRepo, mail)
	}
	bookingService := booking.NewService(bookingRepo, propertyRepo, notifier)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		propertyHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			propertyHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + envOr("PORT", "8080")); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
