package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/helpers"
	"github.com/jfuentes/schoolguard/internal/pkg/logger"
	"github.com/jfuentes/schoolguard/internal/pkg/qrtoken"
)

// MatchedVia reports which identifier class resolved a scanned payload
type MatchedVia string

const (
	MatchedViaSignedToken      MatchedVia = "SIGNED_TOKEN"
	MatchedViaHardwareTag      MatchedVia = "HARDWARE_TAG"
	MatchedViaManualIdentifier MatchedVia = "MANUAL_IDENTIFIER"
)

// DecisionStatus is the terminal state of a scan request
type DecisionStatus string

const (
	DecisionApproved DecisionStatus = "APPROVED"
	DecisionDenied   DecisionStatus = "DENIED"
	DecisionBlocked  DecisionStatus = "BLOCKED"
	DecisionNotFound DecisionStatus = "NOT_FOUND"
)

// ExitDecision is the outcome of an exit scan. Denials and blocks are values,
// not errors; only infrastructure failures travel as errors.
type ExitDecision struct {
	Status     DecisionStatus
	Person     models.Person
	MatchedVia MatchedVia
	RecordedAt time.Time
	// ElapsedMinutes carries the minutes since the prior exit when blocked
	ElapsedMinutes int
}

// MealDecision is the outcome of a meal scan
type MealDecision struct {
	Status     DecisionStatus
	Person     models.Person
	MatchedVia MatchedVia
	RecordedAt time.Time
	ServedType models.MealTier
	// PreviousAt carries the prior delivery time when blocked
	PreviousAt time.Time
}

// ScanService decides whether a scan event is authorized right now
type ScanService interface {
	ProcessExit(ctx context.Context, rawCode string, doorID, operatorID int64) (*ExitDecision, error)
	ProcessMeal(ctx context.Context, rawCode string, operatorID int64) (*MealDecision, error)
	ActiveDoors(ctx context.Context) ([]*models.Door, error)
}

type scanService struct {
	directory PersonDirectory
	events    EventStore
	doors     DoorDirectory
	codec     *qrtoken.Codec
	location  *time.Location
	cooldown  time.Duration
	now       func() time.Time
}

// NewScanService creates the gating pipeline
func NewScanService(directory PersonDirectory, events EventStore, doors DoorDirectory, codec *qrtoken.Codec, location *time.Location, cooldown time.Duration) ScanService {
	return &scanService{
		directory: directory,
		events:    events,
		doors:     doors,
		codec:     codec,
		location:  location,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// resolve maps a raw scanned payload to a directory record. A verified signed
// token is authoritative: its identifier is looked up as a primary identifier
// only, so a forged-looking token is never reinterpreted as another person's
// raw tag. Only when no valid signature is present does the payload fall back
// to hardware-tag / manual-identifier matching, students before employees.
// Returns (nil, "", nil) when nothing matches.
func (s *scanService) resolve(ctx context.Context, rawCode string) (models.Person, MatchedVia, error) {
	rawCode = strings.TrimSpace(rawCode)
	if rawCode == "" {
		return nil, "", nil
	}

	if identifier, ok := s.codec.Verify(rawCode); ok {
		student, err := s.directory.GetStudentByStudentID(ctx, identifier)
		if err == nil {
			return student, MatchedViaSignedToken, nil
		}
		if !errors.Is(err, apperrors.ErrPersonNotFound) {
			return nil, "", err
		}

		employee, err := s.directory.GetEmployeeByDocID(ctx, identifier)
		if err == nil {
			return employee, MatchedViaSignedToken, nil
		}
		if !errors.Is(err, apperrors.ErrPersonNotFound) {
			return nil, "", err
		}

		// A valid signature embedding an unknown identifier is a stale
		// credential, not a raw code; it does not fall through.
		return nil, "", nil
	}

	student, err := s.directory.GetStudentByAnyCode(ctx, rawCode)
	if err == nil {
		return student, matchedViaRaw(student, rawCode), nil
	}
	if !errors.Is(err, apperrors.ErrPersonNotFound) {
		return nil, "", err
	}

	employee, err := s.directory.GetEmployeeByAnyCode(ctx, rawCode)
	if err == nil {
		return employee, matchedViaRaw(employee, rawCode), nil
	}
	if !errors.Is(err, apperrors.ErrPersonNotFound) {
		return nil, "", err
	}

	return nil, "", nil
}

func matchedViaRaw(person models.Person, rawCode string) MatchedVia {
	if person.HardwareTag() == rawCode {
		return MatchedViaHardwareTag
	}
	return MatchedViaManualIdentifier
}

// ProcessExit runs the exit pipeline: resolve, entitlement gate, cooldown
// gate, record. The cooldown is advisory: the read-then-insert below is not
// serialized, so two scans racing inside the window may both record. That is
// a tolerated nuisance, unlike the meal path which is constraint-guarded.
func (s *scanService) ProcessExit(ctx context.Context, rawCode string, doorID, operatorID int64) (*ExitDecision, error) {
	person, via, err := s.resolve(ctx, rawCode)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return &ExitDecision{Status: DecisionNotFound}, nil
	}

	if !person.ExitAuthorized() {
		logger.Info().Str("identifier", person.Identifier()).Msg("Exit denied, person not authorized")
		return &ExitDecision{Status: DecisionDenied, Person: person, MatchedVia: via}, nil
	}

	door, err := s.doors.GetDoorByID(ctx, doorID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)

	last, err := s.events.LatestExitForStudent(ctx, person.RecordID())
	if err != nil {
		return nil, err
	}
	if last != nil {
		elapsed := now.Sub(helpers.EnsureZone(last.OccurredAt, s.location))
		if elapsed < s.cooldown {
			return &ExitDecision{
				Status:         DecisionBlocked,
				Person:         person,
				MatchedVia:     via,
				ElapsedMinutes: int(elapsed.Minutes()),
			}, nil
		}
	}

	event := &models.ExitEvent{
		StudentID:  person.RecordID(),
		OperatorID: operatorID,
		DoorID:     door.ID,
		OccurredAt: helpers.StripZone(now),
	}
	if err := s.events.InsertExit(ctx, event); err != nil {
		return nil, err
	}

	logger.Info().Str("identifier", person.Identifier()).Int64("doorID", door.ID).Msg("Exit recorded")
	return &ExitDecision{
		Status:     DecisionApproved,
		Person:     person,
		MatchedVia: via,
		RecordedAt: now,
	}, nil
}

// ProcessMeal runs the meal pipeline: resolve, entitlement gate, once-per-day
// gate, record. The per-day unique index on the event table backs the gate:
// when two scans race past the read, the second insert fails closed and is
// reported as blocked.
func (s *scanService) ProcessMeal(ctx context.Context, rawCode string, operatorID int64) (*MealDecision, error) {
	person, via, err := s.resolve(ctx, rawCode)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return &MealDecision{Status: DecisionNotFound}, nil
	}

	if !person.MealEntitled() {
		logger.Info().Str("identifier", person.Identifier()).Msg("Meal denied, no meal assigned")
		return &MealDecision{Status: DecisionDenied, Person: person, MatchedVia: via}, nil
	}

	now := s.now().In(s.location)
	servedOn := helpers.StripZone(helpers.DayOf(now, s.location))

	existing, err := s.events.MealForDay(ctx, person.Kind(), person.RecordID(), servedOn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.blockedMeal(person, via, existing), nil
	}

	event := &models.MealEvent{
		OperatorID: operatorID,
		OccurredAt: helpers.StripZone(now),
		ServedOn:   servedOn,
		ServedType: person.MealServed(),
	}
	recordID := person.RecordID()
	if person.Kind() == models.KindStudent {
		event.StudentID = &recordID
	} else {
		event.EmployeeID = &recordID
	}

	if err := s.events.InsertMeal(ctx, event); err != nil {
		if errors.Is(err, apperrors.ErrMealAlreadyServed) {
			// Lost the race; surface the winning event's time when possible.
			existing, lookupErr := s.events.MealForDay(ctx, person.Kind(), person.RecordID(), servedOn)
			if lookupErr == nil && existing != nil {
				return s.blockedMeal(person, via, existing), nil
			}
			return &MealDecision{Status: DecisionBlocked, Person: person, MatchedVia: via, PreviousAt: now}, nil
		}
		return nil, err
	}

	logger.Info().Str("identifier", person.Identifier()).Str("tier", string(person.MealServed())).Msg("Meal recorded")
	return &MealDecision{
		Status:     DecisionApproved,
		Person:     person,
		MatchedVia: via,
		RecordedAt: now,
		ServedType: person.MealServed(),
	}, nil
}

func (s *scanService) blockedMeal(person models.Person, via MatchedVia, existing *models.MealEvent) *MealDecision {
	return &MealDecision{
		Status:     DecisionBlocked,
		Person:     person,
		MatchedVia: via,
		ServedType: existing.ServedType,
		PreviousAt: helpers.EnsureZone(existing.OccurredAt, s.location),
	}
}

// ActiveDoors lists the doors offered on the scanning surface
func (s *scanService) ActiveDoors(ctx context.Context) ([]*models.Door, error) {
	return s.doors.ListActiveDoors(ctx)
}
