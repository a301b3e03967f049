package services

import (
	"context"
	"strings"

	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/qrtoken"
)

// searchLimit caps each variant's rows in a name search so the picker on the
// serving line stays short.
const searchLimit = 5

// PersonService exposes directory search and credential issuance
type PersonService interface {
	SearchByName(ctx context.Context, query string) ([]models.Person, error)
	IssueCredential(ctx context.Context, kind models.PersonKind, identifier string) (models.Person, string, error)
}

type personService struct {
	directory PersonDirectory
	codec     *qrtoken.Codec
}

// NewPersonService creates a new PersonService
func NewPersonService(directory PersonDirectory, codec *qrtoken.Codec) PersonService {
	return &personService{
		directory: directory,
		codec:     codec,
	}
}

// SearchByName finds persons by display name for manual selection, students
// listed before employees
func (s *personService) SearchByName(ctx context.Context, query string) ([]models.Person, error) {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return nil, apperrors.NewBadRequestError("search query must be at least 3 characters")
	}

	students, err := s.directory.SearchStudentsByName(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	employees, err := s.directory.SearchEmployeesByName(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]models.Person, 0, len(students)+len(employees))
	for _, student := range students {
		results = append(results, student)
	}
	for _, employee := range employees {
		results = append(results, employee)
	}

	return results, nil
}

// IssueCredential returns the signed token for a person's badge. The person
// must exist; signing an arbitrary identifier would mint valid credentials
// for unregistered people.
func (s *personService) IssueCredential(ctx context.Context, kind models.PersonKind, identifier string) (models.Person, string, error) {
	var person models.Person
	var err error

	switch kind {
	case models.KindStudent:
		person, err = s.directory.GetStudentByStudentID(ctx, identifier)
	case models.KindEmployee:
		person, err = s.directory.GetEmployeeByDocID(ctx, identifier)
	default:
		return nil, "", apperrors.NewBadRequestError("unknown person kind")
	}
	if err != nil {
		return nil, "", err
	}

	return person, s.codec.Sign(person.Identifier()), nil
}
