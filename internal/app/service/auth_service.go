package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/ikkim/member-directory/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// TokenRevoker is satisfied by the redis token store.
type TokenRevoker interface {
	Blacklist(ctx context.Context, token string, expiry time.Duration) error
}

type AuthService interface {
	AdminLogin(email, password string) (*model.Admin, *util.TokenPair, error)
	MemberLogin(email, password string) (*model.Member, *util.TokenPair, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
}

type authService struct {
	adminRepo     repository.AdminRepository
	memberRepo    repository.MemberRepository
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService wires login and logout. revoker may be nil, in which case
// logout only succeeds client-side.
func NewAuthService(
	adminRepo repository.AdminRepository,
	memberRepo repository.MemberRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		adminRepo:     adminRepo,
		memberRepo:    memberRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) AdminLogin(email, password string) (*model.Admin, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Admin login attempt", map[string]interface{}{
		"email": email,
	})

	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Admin login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(admin.PasswordHash, password) {
		logger.Warn("Admin login failed: wrong password", map[string]interface{}{
			"admin_id": admin.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(util.TokenSubject{
		ID:          admin.ID,
		Email:       admin.Email,
		Role:        util.RoleAdmin,
		Permissions: []string(admin.Permissions),
	}, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate admin tokens", err, map[string]interface{}{
			"admin_id": admin.ID,
		})
		return nil, nil, err
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"admin_id": admin.ID,
	})
	return admin, tokens, nil
}

func (s *authService) MemberLogin(email, password string) (*model.Member, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Member login attempt", map[string]interface{}{
		"email": email,
	})

	member, err := s.memberRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Member login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if member.PasswordHash == "" || !util.VerifyPassword(member.PasswordHash, password) {
		logger.Warn("Member login failed: wrong password", map[string]interface{}{
			"member_id": member.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(util.TokenSubject{
		ID:    member.ID,
		Email: member.Email,
		Role:  util.RoleMember,
	}, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate member tokens", err, map[string]interface{}{
			"member_id": member.ID,
		})
		return nil, nil, err
	}

	logger.Info("Member logged in", map[string]interface{}{
		"member_id": member.ID,
		"status":    member.Status,
	})
	return member, tokens, nil
}

// Logout revokes token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if s.revoker == nil {
		logger.Debug("Token store not configured, logout is client-side only")
		return nil
	}
	return s.revoker.Blacklist(ctx, token, time.Until(expiresAt))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
