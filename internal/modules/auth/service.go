package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"renthub/internal/domain"
	"renthub/internal/mailer"
	"renthub/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// Service contains all business logic for authentication.
type Service struct {
	users      UserRepository
	tokens     RefreshTokenRepository
	codes      VerificationRepository
	jwt        jwtService
	mail       mailer.Mailer
	codePepper string
	codeTTL    time.Duration
	refreshTTL time.Duration
	tokenPep   string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserRepository,
	tokens RefreshTokenRepository,
	codes VerificationRepository,
	jwt jwtService,
	mail mailer.Mailer,
	codePepper string,
	codeTTL time.Duration,
	refreshTokenPepper string,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		codes:      codes,
		jwt:        jwt,
		mail:       mail,
		codePepper: codePepper,
		codeTTL:    codeTTL,
		tokenPep:   refreshTokenPepper,
		refreshTTL: refreshTTL,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if !domain.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.UserRole(req.Role),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique index still wins a race past ExistsByEmail.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	if err := s.RequestEmailVerification(ctx, user.Email); err != nil {
		log.Printf("auth: verification mail failed: user=%d err=%v", user.ID, err)
	}

	return s.issueSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		attempts := user.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if attempts >= maxFailedLoginAttempts {
			t := now.Add(lockoutDuration)
			lockedUntil = &t
		}
		if updateErr := s.users.RecordLoginFailure(ctx, user.ID, attempts, lockedUntil); updateErr != nil {
			return nil, updateErr
		}
		if lockedUntil != nil {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.ResetLoginFailures(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	return s.issueSession(ctx, user)
}

// RequestEmailVerification issues a fresh six digit code and mails it.
func (s *Service) RequestEmailVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := s.codes.Create(ctx, &repository.EmailVerificationCode{
		UserID:    user.ID,
		CodeHash:  hashWithPepper(code, s.codePepper),
		ExpiresAt: now.Add(s.codeTTL),
	}); err != nil {
		return err
	}

	if s.mail == nil {
		return nil
	}
	subject := "Verify your email"
	plain := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.codeTTL.Minutes()))
	html := fmt.Sprintf("<p>Your verification code is <b>%s</b>. It expires in %d minutes.</p>", code, int(s.codeTTL.Minutes()))
	return s.mail.Send(ctx, user.Email, user.Name, subject, plain, html)
}

func (s *Service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidVerificationCode
		}
		return err
	}

	now := time.Now()
	code, err := s.codes.GetActive(ctx, user.ID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidVerificationCode
		}
		return err
	}

	if code.CodeHash != hashWithPepper(strings.TrimSpace(req.Code), s.codePepper) {
		return ErrInvalidVerificationCode
	}

	if err := s.codes.MarkUsed(ctx, code.ID, now); err != nil {
		return err
	}
	return s.users.MarkEmailVerified(ctx, user.ID)
}

// Refresh rotates the opaque refresh token. Presenting an already rotated
// or revoked token is treated as reuse and revokes the whole family.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (*RefreshResult, error) {
	now := time.Now()
	current, err := s.tokens.GetByHash(ctx, hashWithPepper(refreshRaw, s.tokenPep))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if !current.ExpiresAt.After(now) {
		return nil, ErrInvalidRefreshToken
	}

	if current.UsedAt != nil || current.RevokedAt != nil {
		if err := s.tokens.MarkReuse(ctx, current.ID, current.FamilyID, now); err != nil {
			return nil, err
		}
		return nil, ErrRefreshTokenReused
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	newRaw, newHash, err := generateOpaqueToken(s.tokenPep)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.MarkRotated(ctx, current.ID, now); err != nil {
		return nil, err
	}

	rotatedFrom := current.ID
	if err := s.tokens.Create(ctx, &repository.RefreshToken{
		UserID:      current.UserID,
		TokenHash:   newHash,
		JTI:         uuid.NewString(),
		FamilyID:    current.FamilyID,
		RotatedFrom: &rotatedFrom,
		ExpiresAt:   now.Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &RefreshResult{AccessToken: accessToken, RefreshToken: newRaw}, nil
}

func (s *Service) Logout(ctx context.Context, refreshRaw string) error {
	token, err := s.tokens.GetByHash(ctx, hashWithPepper(refreshRaw, s.tokenPep))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.tokens.Revoke(ctx, token.ID, time.Now())
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) issueSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshRaw, refreshHash, err := generateOpaqueToken(s.tokenPep)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, &repository.RefreshToken{
		UserID:    user.ID,
		TokenHash: refreshHash,
		JTI:       uuid.NewString(),
		FamilyID:  uuid.NewString(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshRaw}, nil
}

func generateOpaqueToken(pepper string) (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashWithPepper(raw, pepper), nil
}

func hashWithPepper(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
