package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
)

func newPersonMock(t *testing.T) (pgxmock.PgxPoolIface, *PersonRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPersonRepository(mock)
}

func studentRows() *pgxmock.Rows {
	return pgxmock.NewRows(studentColumns)
}

func TestGetStudentByStudentIDNotFound(t *testing.T) {
	mock, repo := newPersonMock(t)

	mock.ExpectQuery("SELECT (.+) FROM students").
		WithArgs("9999999").
		WillReturnError(pgx.ErrNoRows)

	student, err := repo.GetStudentByStudentID(context.Background(), "9999999")
	require.ErrorIs(t, err, apperrors.ErrPersonNotFound)
	require.Nil(t, student)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStudentByAnyCodeMatchesTagOrIdentifier(t *testing.T) {
	mock, repo := newPersonMock(t)

	rfid := "RF-STU-1"
	mock.ExpectQuery("SELECT (.+) FROM students").
		WithArgs(rfid, rfid).
		WillReturnRows(studentRows().AddRow(
			int64(7), "2023001", "Laura Gómez", "10A", true, true,
			models.MealTierNormal, &rfid, (*string)(nil)))

	student, err := repo.GetStudentByAnyCode(context.Background(), rfid)
	require.NoError(t, err)
	require.Equal(t, "2023001", student.StudentID)
	require.Equal(t, rfid, student.HardwareTag())
	require.Empty(t, student.PhotoPath())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeByDocID(t *testing.T) {
	mock, repo := newPersonMock(t)

	position := "Docente"
	mock.ExpectQuery("SELECT (.+) FROM employees").
		WithArgs("CC-1034567").
		WillReturnRows(pgxmock.NewRows(employeeColumns).AddRow(
			int64(3), "CC-1034567", "Carlos Ruiz", &position, true,
			models.MealTierSpecial, (*string)(nil), (*string)(nil)))

	employee, err := repo.GetEmployeeByDocID(context.Background(), "CC-1034567")
	require.NoError(t, err)
	require.Equal(t, "Carlos Ruiz", employee.FullName)
	require.Equal(t, "Docente", employee.Detail())
	require.False(t, employee.ExitAuthorized())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchStudentsByNameUsesPattern(t *testing.T) {
	mock, repo := newPersonMock(t)

	mock.ExpectQuery("SELECT (.+) FROM students").
		WithArgs("%Gómez%").
		WillReturnRows(studentRows().
			AddRow(int64(7), "2023001", "Laura Gómez", "10A", true, true,
				models.MealTierNormal, (*string)(nil), (*string)(nil)).
			AddRow(int64(8), "2023002", "Pedro Gómez", "8B", false, false,
				models.MealTierNone, (*string)(nil), (*string)(nil)))

	students, err := repo.SearchStudentsByName(context.Background(), "Gómez", 5)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "Laura Gómez", students[0].FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}
