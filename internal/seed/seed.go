package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/jfuentes/schoolguard/internal/app/models"
	appRepos "github.com/jfuentes/schoolguard/internal/app/repositories"
	"github.com/jfuentes/schoolguard/internal/pkg/auth"
)

// defaultAdminPassword is only ever written for a fresh database. Operations
// is expected to rotate it on first login.
const defaultAdminPassword = "Admin123!"

// CreateDefaultData creates the default door and admin operator when they do
// not exist yet. A failure here is reported but must not stop startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	operatorRepo := appRepos.NewOperatorRepository(dbPool)
	doorRepo := appRepos.NewDoorRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (door, admin operator)...")
	var finalErr error

	description := "Entrada principal del colegio"
	door := &appModels.Door{
		Name:        "Puerta Principal",
		Description: &description,
		IsActive:    true,
	}
	if err := doorRepo.CreateDoor(ctx, door); err != nil && !errors.Is(err, appRepos.ErrDoorNameExists) {
		lgr.Error().Err(err).Msg("Error creating default door")
		finalErr = errors.Join(finalErr, err)
	}

	exists, err := operatorRepo.UsernameExists(ctx, "admin")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin operator exists")
		return errors.Join(finalErr, err)
	}
	if exists {
		return finalErr
	}

	lgr.Info().Msg("Creating default admin operator...")
	hashedPassword, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.Operator{
		Username: "admin",
		FullName: "Administrador",
		Password: hashedPassword,
		Role:     appModels.RoleAdmin,
		IsActive: true,
	}
	if err := operatorRepo.CreateOperator(ctx, admin); err != nil && !errors.Is(err, appRepos.ErrUsernameExists) {
		lgr.Error().Err(err).Msg("Error creating default admin operator")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
