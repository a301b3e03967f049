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

// ErrDoorNameExists is returned when creating a door with a taken name
var ErrDoorNameExists = errors.New("door name already in use")

// DoorRepository handles door database operations
type DoorRepository struct {
	db DB
}

// NewDoorRepository creates a new DoorRepository
func NewDoorRepository(db DB) *DoorRepository {
	return &DoorRepository{db: db}
}

// CreateDoor creates a new door
func (r *DoorRepository) CreateDoor(ctx context.Context, door *models.Door) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO doors (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id`,
		door.Name, door.Description, door.IsActive).Scan(&door.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "doors_name_key") {
			return ErrDoorNameExists
		}
		logger.Error().Err(err).Str("name", door.Name).Msg("Error creating door")
		return fmt.Errorf("error creating door: %w", err)
	}

	return nil
}

// GetDoorByID retrieves a door by ID
func (r *DoorRepository) GetDoorByID(ctx context.Context, id int64) (*models.Door, error) {
	door := &models.Door{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, is_active
		FROM doors
		WHERE id = $1`,
		id).Scan(&door.ID, &door.Name, &door.Description, &door.IsActive)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDoorNotFound
		}
		logger.Error().Err(err).Int64("doorID", id).Msg("Error retrieving door")
		return nil, fmt.Errorf("error retrieving door: %w", err)
	}

	return door, nil
}

// ListActiveDoors retrieves all active doors
func (r *DoorRepository) ListActiveDoors(ctx context.Context) ([]*models.Door, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, is_active
		FROM doors
		WHERE is_active = true
		ORDER BY name`)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing active doors")
		return nil, fmt.Errorf("error listing doors: %w", err)
	}
	defer rows.Close()

	var doors []*models.Door
	for rows.Next() {
		door := &models.Door{}
		if err := rows.Scan(&door.ID, &door.Name, &door.Description, &door.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning door row: %w", err)
		}
		doors = append(doors, door)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating door rows: %w", err)
	}

	return doors, nil
}
