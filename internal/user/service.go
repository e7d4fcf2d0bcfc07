package user

import (
	"context"
	"errors"
	"strings"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/auth"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/email"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/logger"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/metrics"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/wallet"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetByID(ctx context.Context, id int) (*User, error)
	Refresh(refreshToken string) (string, error)
}

// WalletStore is the slice of the wallet repository registration needs:
// the signup bonus, the referral bonus, and the new user's own code.
type WalletStore interface {
	Apply(ctx context.Context, userID int, amount int64, source, description string, meta *wallet.EntryMeta) (*wallet.Wallet, error)
	EnsureReferralCode(ctx context.Context, userID int) (string, error)
	AwardReferralBonus(ctx context.Context, referrerID int, referredEmail string) error
}

type service struct {
	repo         Repository
	wallets      WalletStore
	emailService *email.Service
	jwtSecret    string
}

func NewService(repo Repository, wallets WalletStore, emailService *email.Service, jwtSecret string) Service {
	return &service{repo: repo, wallets: wallets, emailService: emailService, jwtSecret: jwtSecret}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	// An unknown referral code never blocks registration.
	var referredBy *int
	var referrer *User
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		ref, err := s.repo.FindByReferralCode(ctx, code)
		switch {
		case err == nil:
			referrer = ref
			referredBy = &ref.ID
		case errors.Is(err, ErrUserNotFound):
			logger.Info("Registration with unknown referral code", "code", code)
		default:
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), email, hash, "user", referredBy)
	if err != nil {
		return nil, err
	}

	if code, err := s.wallets.EnsureReferralCode(ctx, u.ID); err != nil {
		logger.Errorf("User %d: failed to assign referral code: %v", u.ID, err)
	} else {
		u.ReferralCode = &code
	}

	if _, err := s.wallets.Apply(ctx, u.ID, wallet.SignupBonus, wallet.SourceBonus, "Signup bonus", nil); err != nil {
		logger.Errorf("User %d: failed to credit signup bonus: %v", u.ID, err)
	}

	if s.emailService != nil && u.ReferralCode != nil {
		if err := s.emailService.SendWelcome(ctx, u.Email, u.Name, *u.ReferralCode); err != nil {
			logger.Errorf("User %d: failed to queue welcome email: %v", u.ID, err)
		}
	}

	if referrer != nil {
		if err := s.wallets.AwardReferralBonus(ctx, referrer.ID, u.Email); err != nil {
			logger.Errorf("User %d: failed to credit referral bonus to %d: %v", u.ID, referrer.ID, err)
		} else {
			metrics.RecordReferralSignup()
		}
	}

	return s.issueTokens(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *service) GetByID(ctx context.Context, id int) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Refresh(refreshToken string) (string, error) {
	access, _, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", err
	}
	return access, nil
}

func (s *service) issueTokens(u *User) (*LoginResponse, error) {
	access, refresh, err := auth.GenerateTokens(u.ID, u.Email, u.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *u,
	}, nil
}
