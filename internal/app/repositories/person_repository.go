package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/logger"
)

var studentColumns = []string{"id", "student_id", "full_name", "course", "is_authorized", "has_lunch", "lunch_type", "rfid_code", "photo_path"}
var employeeColumns = []string{"id", "doc_id", "full_name", "position", "has_lunch", "lunch_type", "rfid_code", "photo_path"}

// PersonRepository handles directory lookups across both person variants
type PersonRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db DB) *PersonRepository {
	return &PersonRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PersonRepository) scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.StudentID, &s.FullName, &s.Course, &s.IsAuthorized, &s.HasLunch, &s.LunchType, &s.RFIDCode, &s.Photo)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PersonRepository) scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.DocID, &e.FullName, &e.Position, &e.HasLunch, &e.LunchType, &e.RFIDCode, &e.Photo)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetStudentByStudentID retrieves a student by primary identifier
func (r *PersonRepository) GetStudentByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by student ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := r.scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetStudentByAnyCode retrieves a student whose hardware tag or primary
// identifier equals the raw scanned value
func (r *PersonRepository) GetStudentByAnyCode(ctx context.Context, code string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Or{squirrel.Eq{"rfid_code": code}, squirrel.Eq{"student_id": code}}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by any code SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := r.scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetEmployeeByDocID retrieves an employee by primary identifier
func (r *PersonRepository) GetEmployeeByDocID(ctx context.Context, docID string) (*models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).
		From("employees").
		Where(squirrel.Eq{"doc_id": docID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get employee by doc ID SQL")
		return nil, fmt.Errorf("failed to build get employee query: %w", err)
	}

	employee, err := r.scanEmployee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		logger.Error().Err(err).Str("docID", docID).Msg("Error scanning employee row")
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}

	return employee, nil
}

// GetEmployeeByAnyCode retrieves an employee whose hardware tag or primary
// identifier equals the raw scanned value
func (r *PersonRepository) GetEmployeeByAnyCode(ctx context.Context, code string) (*models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).
		From("employees").
		Where(squirrel.Or{squirrel.Eq{"rfid_code": code}, squirrel.Eq{"doc_id": code}}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get employee by any code SQL")
		return nil, fmt.Errorf("failed to build get employee query: %w", err)
	}

	employee, err := r.scanEmployee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		logger.Error().Err(err).Msg("Error scanning employee row")
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}

	return employee, nil
}

// SearchStudentsByName retrieves students whose name matches the pattern
func (r *PersonRepository) SearchStudentsByName(ctx context.Context, namePattern string, limit uint64) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.ILike{"full_name": "%" + namePattern + "%"}).
		OrderBy("full_name").
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building search students SQL")
		return nil, fmt.Errorf("failed to build search students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing search students query")
		return nil, fmt.Errorf("error searching students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := r.scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// SearchEmployeesByName retrieves employees whose name matches the pattern
func (r *PersonRepository) SearchEmployeesByName(ctx context.Context, namePattern string, limit uint64) ([]*models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).
		From("employees").
		Where(squirrel.ILike{"full_name": "%" + namePattern + "%"}).
		OrderBy("full_name").
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building search employees SQL")
		return nil, fmt.Errorf("failed to build search employees query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing search employees query")
		return nil, fmt.Errorf("error searching employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee, err := r.scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning employee row: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}

	return employees, nil
}
