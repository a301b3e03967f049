package services

import (
	"context"
	"time"

	"github.com/jfuentes/schoolguard/internal/app/models"
)

// Services defined in this package:
// - ScanService: the gating pipeline for exit and meal scans
// - PersonService: name search and credential issuance
// - ReportService: meal and exit report queries
// - AuthService: operator login

// PersonDirectory is the read-only lookup surface of the person directory.
// Lookups return apperrors.ErrPersonNotFound when no record matches; any
// other error is an infrastructure failure.
type PersonDirectory interface {
	GetStudentByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	GetStudentByAnyCode(ctx context.Context, code string) (*models.Student, error)
	GetEmployeeByDocID(ctx context.Context, docID string) (*models.Employee, error)
	GetEmployeeByAnyCode(ctx context.Context, code string) (*models.Employee, error)
	SearchStudentsByName(ctx context.Context, namePattern string, limit uint64) ([]*models.Student, error)
	SearchEmployeesByName(ctx context.Context, namePattern string, limit uint64) ([]*models.Employee, error)
}

// EventStore is the append-only attendance event log.
type EventStore interface {
	InsertExit(ctx context.Context, event *models.ExitEvent) error
	LatestExitForStudent(ctx context.Context, studentID int64) (*models.ExitEvent, error)
	InsertMeal(ctx context.Context, event *models.MealEvent) error
	MealForDay(ctx context.Context, kind models.PersonKind, recordID int64, servedOn time.Time) (*models.MealEvent, error)
}

// DoorDirectory resolves the action context of exit scans.
type DoorDirectory interface {
	GetDoorByID(ctx context.Context, id int64) (*models.Door, error)
	ListActiveDoors(ctx context.Context) ([]*models.Door, error)
}
