package services

import (
	"context"
	"errors"

	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/auth"
	"github.com/jfuentes/schoolguard/internal/pkg/logger"
)

// OperatorStore is the operator lookup surface for authentication
type OperatorStore interface {
	GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
	GetOperatorByID(ctx context.Context, id int64) (*models.Operator, error)
}

// AuthService handles operator authentication
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Operator, string, int, error)
}

type authService struct {
	operators  OperatorStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(operators OperatorStore, jwtService *auth.JWTService) AuthService {
	return &authService{
		operators:  operators,
		jwtService: jwtService,
	}
}

// Login verifies operator credentials and returns a session token with its
// lifetime in seconds
func (s *authService) Login(ctx context.Context, username, password string) (*models.Operator, string, int, error) {
	operator, err := s.operators.GetOperatorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrOperatorNotFound) {
			// Same outcome as a bad password so usernames cannot be probed.
			return nil, "", 0, apperrors.ErrInvalidCredentials
		}
		return nil, "", 0, err
	}

	if !auth.CheckPassword(operator.Password, password) {
		logger.Warn().Str("username", username).Msg("Failed login attempt")
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	if !operator.IsActive {
		return nil, "", 0, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwtService.GenerateToken(operator)
	if err != nil {
		return nil, "", 0, err
	}

	logger.Info().Str("username", username).Msg("Operator logged in")
	return operator, token, expiresIn, nil
}
