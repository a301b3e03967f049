package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
)

func newEventMock(t *testing.T) (pgxmock.PgxPoolIface, *EventRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewEventRepository(mock)
}

func TestInsertExitReturnsGeneratedID(t *testing.T) {
	mock, repo := newEventMock(t)

	event := &models.ExitEvent{
		StudentID:  7,
		OperatorID: 2,
		DoorID:     1,
		OccurredAt: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
	}

	mock.ExpectQuery("INSERT INTO exit_events").
		WithArgs(event.StudentID, event.OperatorID, event.DoorID, event.OccurredAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err := repo.InsertExit(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, int64(42), event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestExitForStudentNoHistory(t *testing.T) {
	mock, repo := newEventMock(t)

	mock.ExpectQuery("FROM exit_events").
		WithArgs(int64(7)).
		WillReturnError(pgx.ErrNoRows)

	event, err := repo.LatestExitForStudent(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, event)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestExitForStudent(t *testing.T) {
	mock, repo := newEventMock(t)

	occurredAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM exit_events").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "student_id", "operator_id", "door_id", "occurred_at"}).
			AddRow(int64(42), int64(7), int64(2), int64(1), occurredAt))

	event, err := repo.LatestExitForStudent(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, event)
	require.Equal(t, int64(42), event.ID)
	require.Equal(t, occurredAt, event.OccurredAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMealDuplicateDayMapsToAlreadyServed(t *testing.T) {
	constraints := []string{
		"meal_events_student_served_on_key",
		"meal_events_employee_served_on_key",
	}
	for _, constraint := range constraints {
		t.Run(constraint, func(t *testing.T) {
			mock, repo := newEventMock(t)

			studentID := int64(7)
			event := &models.MealEvent{
				StudentID:  &studentID,
				OperatorID: 2,
				OccurredAt: time.Date(2025, 3, 10, 12, 15, 0, 0, time.UTC),
				ServedOn:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				ServedType: models.MealTierNormal,
			}

			mock.ExpectQuery("INSERT INTO meal_events").
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraint})

			err := repo.InsertMeal(context.Background(), event)
			require.ErrorIs(t, err, apperrors.ErrMealAlreadyServed)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsertMealOtherErrorPassesThrough(t *testing.T) {
	mock, repo := newEventMock(t)

	employeeID := int64(3)
	event := &models.MealEvent{
		EmployeeID: &employeeID,
		OperatorID: 2,
		OccurredAt: time.Date(2025, 3, 10, 12, 15, 0, 0, time.UTC),
		ServedOn:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ServedType: models.MealTierSpecial,
	}

	mock.ExpectQuery("INSERT INTO meal_events").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "meal_events_operator_id_fkey"})

	err := repo.InsertMeal(context.Background(), event)
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrMealAlreadyServed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealForDayNone(t *testing.T) {
	mock, repo := newEventMock(t)

	servedOn := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE student_id = \$1`).
		WithArgs(int64(7), servedOn).
		WillReturnError(pgx.ErrNoRows)

	event, err := repo.MealForDay(context.Background(), models.KindStudent, 7, servedOn)
	require.NoError(t, err)
	require.Nil(t, event)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealForDayEmployeeColumn(t *testing.T) {
	mock, repo := newEventMock(t)

	servedOn := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	employeeID := int64(3)
	mock.ExpectQuery(`WHERE employee_id = \$1`).
		WithArgs(employeeID, servedOn).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "student_id", "employee_id", "operator_id", "occurred_at", "served_on", "served_type"}).
			AddRow(int64(9), (*int64)(nil), &employeeID, int64(2),
				time.Date(2025, 3, 10, 12, 15, 0, 0, time.UTC), servedOn, models.MealTierSpecial))

	event, err := repo.MealForDay(context.Background(), models.KindEmployee, employeeID, servedOn)
	require.NoError(t, err)
	require.NotNil(t, event)
	require.Nil(t, event.StudentID)
	require.NotNil(t, event.EmployeeID)
	require.Equal(t, employeeID, *event.EmployeeID)
	require.Equal(t, models.MealTierSpecial, event.ServedType)
	require.NoError(t, mock.ExpectationsWereMet())
}
