// Package auth issues access tokens for directory employees. Tokens carry the
// claims the HTTP auth middleware reads.
package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultTokenTTL = 15 * time.Minute

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	IssueToken(ctx context.Context, companyID, employeeID string, ttl time.Duration) (TokenResponse, error)
}

type service struct {
	secret       []byte
	employeeRepo employee.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(secret string, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{secret: []byte(secret), employeeRepo: employeeRepo, logger: l, now: time.Now}
}

func (s *service) IssueToken(ctx context.Context, companyID, employeeID string, ttl time.Duration) (TokenResponse, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return TokenResponse{}, err
	}
	if !emp.IsActive {
		return TokenResponse{}, autherrors.ErrEmployeeInactive
	}

	expiresAt := s.now().Add(ttl)
	token, err := GenerateToken(s.secret, Claims{
		UserID:     emp.ID.String(),
		EmployeeID: emp.ID.String(),
		CompanyID:  emp.CompanyID.String(),
		Role:       emp.Role,
	}, expiresAt)
	if err != nil {
		s.logger.Error("sign token failed", zap.String("employee_id", employeeID), zap.Error(err))
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("token issued",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("role", emp.Role),
		zap.Time("expires_at", expiresAt),
	)
	return TokenResponse{
		AccessToken: token,
		EmployeeID:  emp.ID.String(),
		CompanyID:   emp.CompanyID.String(),
		Role:        emp.Role,
		ExpiresAt:   expiresAt.UTC(),
	}, nil
}

type Claims struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       string
}

// GenerateToken signs an HS256 token with the claim names the auth middleware expects.
func GenerateToken(secret []byte, c Claims, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     c.UserID,
		"employee_id": c.EmployeeID,
		"company_id":  c.CompanyID,
		"role":        c.Role,
		"exp":         expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
