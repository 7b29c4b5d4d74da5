package service

import (
	"strings"

	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/config"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService admin authentication business logic
type AuthService interface {
	Login(email, password string) (*domain.LoginResponse, error)
	Profile(claims *jwt.Claims) *domain.AdminProfile
}

type authService struct {
	accounts   map[string]config.AdminAccount
	jwtManager *jwt.Manager
}

// dummyHash keeps the unknown-account path as slow as a real comparison
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("rise-backend-dummy"), bcrypt.DefaultCost)

// NewAuthService creates a new AuthService over the configured admin accounts
func NewAuthService(accounts []config.AdminAccount, jwtManager *jwt.Manager) AuthService {
	byEmail := make(map[string]config.AdminAccount, len(accounts))
	for _, a := range accounts {
		byEmail[normalizeEmail(a.Email)] = a
	}
	return &authService{accounts: byEmail, jwtManager: jwtManager}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the password and issues an admin access token
func (s *authService) Login(email, password string) (*domain.LoginResponse, error) {
	// 1. Find account
	account, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password)) // 타이밍 균등화
		return nil, common.ErrInvalidCredentials
	}

	// 2. Verify password (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	// 3. Generate JWT
	email = normalizeEmail(account.Email)
	token, err := s.jwtManager.GenerateToken(email, email, account.Name, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.ExpiresIn().Seconds()),
	}, nil
}

// Profile renders verified token claims
func (s *authService) Profile(claims *jwt.Claims) *domain.AdminProfile {
	if claims == nil {
		return nil
	}
	return &domain.AdminProfile{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}
}
