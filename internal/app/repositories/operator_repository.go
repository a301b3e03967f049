package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/dberrors"
	"github.com/jfuentes/schoolguard/internal/pkg/logger"
)

// ErrUsernameExists is returned when creating an operator with a taken username
var ErrUsernameExists = errors.New("username already in use")

// OperatorRepository handles operator database operations
type OperatorRepository struct {
	db DB
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// CreateOperator creates a new operator
func (r *OperatorRepository) CreateOperator(ctx context.Context, operator *models.Operator) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO operators (username, full_name, password, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		operator.Username, operator.FullName, operator.Password, operator.Role, operator.IsActive).Scan(&operator.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "operators_username_key") {
			return ErrUsernameExists
		}
		logger.Error().Err(err).Str("username", operator.Username).Msg("Error creating operator")
		return fmt.Errorf("error creating operator: %w", err)
	}

	return nil
}

// GetOperatorByUsername retrieves an operator by username
func (r *OperatorRepository) GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	operator := &models.Operator{}
	err := r.db.QueryRow(ctx, `
		SELECT id, username, full_name, password, role, is_active, created_at
		FROM operators
		WHERE username = $1`,
		username).Scan(
		&operator.ID, &operator.Username, &operator.FullName, &operator.Password,
		&operator.Role, &operator.IsActive, &operator.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOperatorNotFound
		}
		logger.Error().Err(err).Str("username", username).Msg("Error retrieving operator")
		return nil, fmt.Errorf("error retrieving operator: %w", err)
	}

	return operator, nil
}

// GetOperatorByID retrieves an operator by ID
func (r *OperatorRepository) GetOperatorByID(ctx context.Context, id int64) (*models.Operator, error) {
	operator := &models.Operator{}
	err := r.db.QueryRow(ctx, `
		SELECT id, username, full_name, password, role, is_active, created_at
		FROM operators
		WHERE id = $1`,
		id).Scan(
		&operator.ID, &operator.Username, &operator.FullName, &operator.Password,
		&operator.Role, &operator.IsActive, &operator.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOperatorNotFound
		}
		logger.Error().Err(err).Int64("operatorID", id).Msg("Error retrieving operator")
		return nil, fmt.Errorf("error retrieving operator: %w", err)
	}

	return operator, nil
}

// UsernameExists checks if a username is already taken
func (r *OperatorRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM operators WHERE username = $1)`,
		username).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}

	return exists, nil
}
