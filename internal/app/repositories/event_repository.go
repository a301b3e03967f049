package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/dberrors"
	"github.com/jfuentes/schoolguard/internal/pkg/logger"
)

// EventRepository handles the append-only attendance event log
type EventRepository struct {
	db DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

// InsertExit records an approved exit. The exit log carries no uniqueness
// constraint: the cooldown window is advisory, so a concurrent double-tap may
// record twice and that is accepted.
func (r *EventRepository) InsertExit(ctx context.Context, event *models.ExitEvent) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO exit_events (student_id, operator_id, door_id, occurred_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		event.StudentID, event.OperatorID, event.DoorID, event.OccurredAt).Scan(&event.ID)

	if err != nil {
		logger.Error().Err(err).Int64("studentID", event.StudentID).Msg("Error inserting exit event")
		return fmt.Errorf("error recording exit: %w", err)
	}

	return nil
}

// LatestExitForStudent retrieves the most recent exit event for a student.
// Returns (nil, nil) when the student has never exited.
func (r *EventRepository) LatestExitForStudent(ctx context.Context, studentID int64) (*models.ExitEvent, error) {
	var event models.ExitEvent
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, operator_id, door_id, occurred_at
		FROM exit_events
		WHERE student_id = $1
		ORDER BY occurred_at DESC
		LIMIT 1`,
		studentID).Scan(&event.ID, &event.StudentID, &event.OperatorID, &event.DoorID, &event.OccurredAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying latest exit")
		return nil, fmt.Errorf("error retrieving latest exit: %w", err)
	}

	return &event, nil
}

// InsertMeal records an approved meal delivery. The per-day partial unique
// indexes close the read-then-insert race: the losing concurrent writer gets
// ErrMealAlreadyServed instead of a duplicate row.
func (r *EventRepository) InsertMeal(ctx context.Context, event *models.MealEvent) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO meal_events (student_id, employee_id, operator_id, occurred_at, served_on, served_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		event.StudentID, event.EmployeeID, event.OperatorID, event.OccurredAt, event.ServedOn, event.ServedType).Scan(&event.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "meal_events_student_served_on_key") ||
			dberrors.IsDuplicateConstraintError(err, "meal_events_employee_served_on_key") {
			logger.Warn().Msg("Concurrent meal insert lost the per-day uniqueness race")
			return apperrors.ErrMealAlreadyServed
		}
		logger.Error().Err(err).Msg("Error inserting meal event")
		return fmt.Errorf("error recording meal: %w", err)
	}

	return nil
}

// MealForDay retrieves the meal event delivered to a person on a given day.
// Returns (nil, nil) when no meal was served that day.
func (r *EventRepository) MealForDay(ctx context.Context, kind models.PersonKind, recordID int64, servedOn time.Time) (*models.MealEvent, error) {
	column := "student_id"
	if kind == models.KindEmployee {
		column = "employee_id"
	}

	var event models.MealEvent
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, employee_id, operator_id, occurred_at, served_on, served_type
		FROM meal_events
		WHERE `+column+` = $1 AND served_on = $2
		LIMIT 1`,
		recordID, servedOn).Scan(
		&event.ID, &event.StudentID, &event.EmployeeID, &event.OperatorID,
		&event.OccurredAt, &event.ServedOn, &event.ServedType)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("recordID", recordID).Msg("Error querying meal for day")
		return nil, fmt.Errorf("error retrieving meal for day: %w", err)
	}

	return &event, nil
}

// MealEventFilter narrows the meal report query
type MealEventFilter struct {
	From       time.Time
	To         time.Time
	Tier       models.MealTier
	PersonKind models.PersonKind
}

// ListMealEvents retrieves delivered meals in a time range with their person
// and operator relations populated, newest first
func (r *EventRepository) ListMealEvents(ctx context.Context, filter MealEventFilter) ([]*models.MealEvent, error) {
	sql := `
		SELECT m.id, m.student_id, m.employee_id, m.operator_id, m.occurred_at, m.served_on, m.served_type,
		       s.student_id, s.full_name, s.course,
		       e.doc_id, e.full_name, e.position,
		       o.username
		FROM meal_events m
		LEFT JOIN students s ON s.id = m.student_id
		LEFT JOIN employees e ON e.id = m.employee_id
		JOIN operators o ON o.id = m.operator_id
		WHERE m.occurred_at >= $1 AND m.occurred_at <= $2`
	args := []any{filter.From, filter.To}

	if filter.Tier != "" {
		args = append(args, filter.Tier)
		sql += fmt.Sprintf(" AND m.served_type = $%d", len(args))
	}
	switch filter.PersonKind {
	case models.KindStudent:
		sql += " AND m.student_id IS NOT NULL"
	case models.KindEmployee:
		sql += " AND m.employee_id IS NOT NULL"
	}
	sql += " ORDER BY m.occurred_at DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing meal report query")
		return nil, fmt.Errorf("error listing meal events: %w", err)
	}
	defer rows.Close()

	var events []*models.MealEvent
	for rows.Next() {
		var event models.MealEvent
		var studentID, studentName, studentCourse *string
		var docID, employeeName, employeePosition *string
		var operatorName string

		err := rows.Scan(
			&event.ID, &event.StudentID, &event.EmployeeID, &event.OperatorID,
			&event.OccurredAt, &event.ServedOn, &event.ServedType,
			&studentID, &studentName, &studentCourse,
			&docID, &employeeName, &employeePosition,
			&operatorName)
		if err != nil {
			return nil, fmt.Errorf("error scanning meal event row: %w", err)
		}

		if event.StudentID != nil && studentID != nil {
			event.Student = &models.Student{ID: *event.StudentID, StudentID: *studentID, FullName: *studentName, Course: *studentCourse}
		}
		if event.EmployeeID != nil && docID != nil {
			event.Employee = &models.Employee{ID: *event.EmployeeID, DocID: *docID, FullName: *employeeName, Position: employeePosition}
		}
		event.Operator = &models.Operator{ID: event.OperatorID, Username: operatorName}

		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal event rows: %w", err)
	}

	return events, nil
}

// ExitEventFilter narrows the exit report query
type ExitEventFilter struct {
	From   time.Time
	To     time.Time
	DoorID int64
}

// ListExitEvents retrieves recorded exits in a time range with their student,
// door and operator relations populated, newest first
func (r *EventRepository) ListExitEvents(ctx context.Context, filter ExitEventFilter) ([]*models.ExitEvent, error) {
	sql := `
		SELECT x.id, x.student_id, x.operator_id, x.door_id, x.occurred_at,
		       s.student_id, s.full_name, s.course,
		       d.name,
		       o.username
		FROM exit_events x
		JOIN students s ON s.id = x.student_id
		JOIN doors d ON d.id = x.door_id
		JOIN operators o ON o.id = x.operator_id
		WHERE x.occurred_at >= $1 AND x.occurred_at <= $2`
	args := []any{filter.From, filter.To}

	if filter.DoorID > 0 {
		args = append(args, filter.DoorID)
		sql += fmt.Sprintf(" AND x.door_id = $%d", len(args))
	}
	sql += " ORDER BY x.occurred_at DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing exit report query")
		return nil, fmt.Errorf("error listing exit events: %w", err)
	}
	defer rows.Close()

	var events []*models.ExitEvent
	for rows.Next() {
		var event models.ExitEvent
		var studentID, studentName, studentCourse string
		var doorName, operatorName string

		err := rows.Scan(
			&event.ID, &event.StudentID, &event.OperatorID, &event.DoorID, &event.OccurredAt,
			&studentID, &studentName, &studentCourse,
			&doorName, &operatorName)
		if err != nil {
			return nil, fmt.Errorf("error scanning exit event row: %w", err)
		}

		event.Student = &models.Student{ID: event.StudentID, StudentID: studentID, FullName: studentName, Course: studentCourse}
		event.Door = &models.Door{ID: event.DoorID, Name: doorName}
		event.Operator = &models.Operator{ID: event.OperatorID, Username: operatorName}

		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exit event rows: %w", err)
	}

	return events, nil
}
