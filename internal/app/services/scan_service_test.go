package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/helpers"
	"github.com/jfuentes/schoolguard/internal/pkg/qrtoken"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	students  []*models.Student
	employees []*models.Employee
	lookups   int
}

func (d *fakeDirectory) GetStudentByStudentID(_ context.Context, studentID string) (*models.Student, error) {
	d.lookups++
	for _, s := range d.students {
		if s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, apperrors.ErrPersonNotFound
}

func (d *fakeDirectory) GetStudentByAnyCode(_ context.Context, code string) (*models.Student, error) {
	d.lookups++
	for _, s := range d.students {
		if s.StudentID == code || (s.RFIDCode != nil && *s.RFIDCode == code) {
			return s, nil
		}
	}
	return nil, apperrors.ErrPersonNotFound
}

func (d *fakeDirectory) GetEmployeeByDocID(_ context.Context, docID string) (*models.Employee, error) {
	d.lookups++
	for _, e := range d.employees {
		if e.DocID == docID {
			return e, nil
		}
	}
	return nil, apperrors.ErrPersonNotFound
}

func (d *fakeDirectory) GetEmployeeByAnyCode(_ context.Context, code string) (*models.Employee, error) {
	d.lookups++
	for _, e := range d.employees {
		if e.DocID == code || (e.RFIDCode != nil && *e.RFIDCode == code) {
			return e, nil
		}
	}
	return nil, apperrors.ErrPersonNotFound
}

func (d *fakeDirectory) SearchStudentsByName(_ context.Context, pattern string, limit uint64) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range d.students {
		if uint64(len(out)) < limit && strings.Contains(strings.ToLower(s.FullName), strings.ToLower(pattern)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (d *fakeDirectory) SearchEmployeesByName(_ context.Context, pattern string, limit uint64) ([]*models.Employee, error) {
	var out []*models.Employee
	for _, e := range d.employees {
		if uint64(len(out)) < limit && strings.Contains(strings.ToLower(e.FullName), strings.ToLower(pattern)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeEventStore struct {
	exits []*models.ExitEvent
	meals []*models.MealEvent
	// mealInsertErr forces the next InsertMeal to fail, simulating the
	// losing side of a concurrent insert.
	mealInsertErr error
	// hideMealsOnce makes the next MealForDay miss, simulating a dedup read
	// that ran before the concurrent winner committed.
	hideMealsOnce bool
}

func (s *fakeEventStore) InsertExit(_ context.Context, event *models.ExitEvent) error {
	event.ID = int64(len(s.exits) + 1)
	s.exits = append(s.exits, event)
	return nil
}

func (s *fakeEventStore) LatestExitForStudent(_ context.Context, studentID int64) (*models.ExitEvent, error) {
	var latest *models.ExitEvent
	for _, e := range s.exits {
		if e.StudentID == studentID && (latest == nil || e.OccurredAt.After(latest.OccurredAt)) {
			latest = e
		}
	}
	return latest, nil
}

func (s *fakeEventStore) InsertMeal(_ context.Context, event *models.MealEvent) error {
	if s.mealInsertErr != nil {
		err := s.mealInsertErr
		s.mealInsertErr = nil
		return err
	}
	event.ID = int64(len(s.meals) + 1)
	s.meals = append(s.meals, event)
	return nil
}

func (s *fakeEventStore) MealForDay(_ context.Context, kind models.PersonKind, recordID int64, servedOn time.Time) (*models.MealEvent, error) {
	if s.hideMealsOnce {
		s.hideMealsOnce = false
		return nil, nil
	}
	for _, e := range s.meals {
		eventKind, eventID := e.Subject()
		if eventKind == kind && eventID == recordID && e.ServedOn.Equal(servedOn) {
			return e, nil
		}
	}
	return nil, nil
}

type fakeDoors struct {
	doors []*models.Door
}

func (d *fakeDoors) GetDoorByID(_ context.Context, id int64) (*models.Door, error) {
	for _, door := range d.doors {
		if door.ID == id {
			return door, nil
		}
	}
	return nil, apperrors.ErrDoorNotFound
}

func (d *fakeDoors) ListActiveDoors(_ context.Context) ([]*models.Door, error) {
	return d.doors, nil
}

func strPtr(s string) *string { return &s }

type scanFixture struct {
	service   *scanService
	directory *fakeDirectory
	events    *fakeEventStore
	codec     *qrtoken.Codec
	location  *time.Location
	clock     time.Time
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	location, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	f := &scanFixture{
		directory: &fakeDirectory{
			students: []*models.Student{
				{ID: 1, StudentID: "2023001", FullName: "Laura Gómez", Course: "10A", IsAuthorized: true, HasLunch: true, LunchType: models.MealTierNormal, RFIDCode: strPtr("RF-STU-1")},
				{ID: 2, StudentID: "2023002", FullName: "Pedro Ruiz", Course: "11B", IsAuthorized: false, HasLunch: false, LunchType: models.MealTierNone},
			},
			employees: []*models.Employee{
				{ID: 1, DocID: "CC-555", FullName: "Marta Díaz", Position: strPtr("Secretaria"), HasLunch: true, LunchType: models.MealTierSpecial, RFIDCode: strPtr("RF-EMP-1")},
			},
		},
		events:   &fakeEventStore{},
		codec:    qrtoken.NewCodec("unit-test-secret"),
		location: location,
		clock:    time.Date(2025, 3, 10, 12, 0, 0, 0, location),
	}

	f.service = &scanService{
		directory: f.directory,
		events:    f.events,
		doors:     &fakeDoors{doors: []*models.Door{{ID: 1, Name: "Puerta Principal", IsActive: true}}},
		codec:     f.codec,
		location:  location,
		cooldown:  15 * time.Minute,
		now:       func() time.Time { return f.clock },
	}

	return f
}

func TestResolveEmptyPayloadSkipsStorage(t *testing.T) {
	f := newScanFixture(t)

	for _, payload := range []string{"", "   ", "\t\n"} {
		person, _, err := f.service.resolve(context.Background(), payload)
		require.NoError(t, err)
		require.Nil(t, person)
	}
	require.Zero(t, f.directory.lookups)
}

func TestResolveSignedTokenWinsOverTagCollision(t *testing.T) {
	f := newScanFixture(t)

	// Another person's hardware tag collides with the full token string.
	token := f.codec.Sign("2023001")
	f.directory.students = append(f.directory.students, &models.Student{
		ID: 99, StudentID: "2023099", FullName: "Colisión", RFIDCode: strPtr(token),
	})

	person, via, err := f.service.resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, MatchedViaSignedToken, via)
	require.Equal(t, "2023001", person.Identifier())
}

func TestResolveSignedTokenForEmployee(t *testing.T) {
	f := newScanFixture(t)

	person, via, err := f.service.resolve(context.Background(), f.codec.Sign("CC-555"))
	require.NoError(t, err)
	require.Equal(t, MatchedViaSignedToken, via)
	require.Equal(t, models.KindEmployee, person.Kind())
}

func TestResolveValidTokenUnknownIdentifier(t *testing.T) {
	f := newScanFixture(t)

	// A stale credential does not fall through to raw matching.
	person, _, err := f.service.resolve(context.Background(), f.codec.Sign("9999999"))
	require.NoError(t, err)
	require.Nil(t, person)
}

func TestResolveRawMatches(t *testing.T) {
	f := newScanFixture(t)

	person, via, err := f.service.resolve(context.Background(), "RF-STU-1")
	require.NoError(t, err)
	require.Equal(t, MatchedViaHardwareTag, via)
	require.Equal(t, "2023001", person.Identifier())

	person, via, err = f.service.resolve(context.Background(), "2023001")
	require.NoError(t, err)
	require.Equal(t, MatchedViaManualIdentifier, via)
	require.Equal(t, "2023001", person.Identifier())

	person, via, err = f.service.resolve(context.Background(), "RF-EMP-1")
	require.NoError(t, err)
	require.Equal(t, MatchedViaHardwareTag, via)
	require.Equal(t, models.KindEmployee, person.Kind())
}

func TestProcessExitUnknownIdentifier(t *testing.T) {
	f := newScanFixture(t)

	decision, err := f.service.ProcessExit(context.Background(), "9999999", 1, 1)
	require.NoError(t, err)
	require.Equal(t, DecisionNotFound, decision.Status)
	require.Empty(t, f.events.exits)
}

func TestProcessExitApprovedAndRecorded(t *testing.T) {
	f := newScanFixture(t)

	decision, err := f.service.ProcessExit(context.Background(), f.codec.Sign("2023001"), 1, 7)
	require.NoError(t, err)
	require.Equal(t, DecisionApproved, decision.Status)
	require.Equal(t, "Laura Gómez", decision.Person.DisplayName())

	require.Len(t, f.events.exits, 1)
	event := f.events.exits[0]
	require.Equal(t, int64(1), event.StudentID)
	require.Equal(t, int64(7), event.OperatorID)
	require.Equal(t, int64(1), event.DoorID)
	// Stored naive, wall clock in the authoritative zone.
	require.Equal(t, time.UTC, event.OccurredAt.Location())
	require.Equal(t, 12, event.OccurredAt.Hour())
}

func TestProcessExitUnauthorizedStudentDenied(t *testing.T) {
	f := newScanFixture(t)

	decision, err := f.service.ProcessExit(context.Background(), "2023002", 1, 1)
	require.NoError(t, err)
	require.Equal(t, DecisionDenied, decision.Status)
	require.Empty(t, f.events.exits)
}

func TestProcessExitCooldownBoundary(t *testing.T) {
	f := newScanFixture(t)

	decision, err := f.service.ProcessExit(context.Background(), "2023001", 1, 1)
	require.NoError(t, err)
	require.Equal(t, DecisionApproved, decision.Status)

	// One second before the window closes: blocked, elapsed minutes reported.
	f.clock = f.clock.Add(15*time.Minute - time.Second)
	decision, err = f.service.ProcessExit(context.Background(), "2023001", 1, 1)
	require.NoError(t, err)
	require.Equal(t, DecisionBlocked, decision.Status)
	require.Equal(t, 14, decision.ElapsedMinutes)
	require.Len(t, f.events.exits, 1)

	// Exactly at the window: allowed again.
	f.clock = f.clock.Add(time.Second)
	decision, err = f.service.ProcessExit(context.Background(), "2023001", 1, 1)
	require.NoError(t, err)
	require.Equal(t, DecisionApproved, decision.Status)
	require.Len(t, f.events.exits, 2)
}

func TestProcessMealApprovedThenBlocked(t *testing.T) {
	f := newScanFixture(t)
	token := f.codec.Sign("2023001")

	decision, err := f.service.ProcessMeal(context.Background(), token, 3)
	require.NoError(t, err)
	require.Equal(t, DecisionApproved, decision.Status)
	require.Equal(t, models.MealTierNormal, decision.ServedType)
	require.Len(t, f.events.meals, 1)

	// Second scan five minutes later the same day: blocked with the prior
	// delivery time, nothing new recorded.
	f.clock = f.clock.Add(5 * time.Minute)
	decision, err = f.service.ProcessMeal(context.Background(), token, 3)
	require.NoError(t, err)
	require.Equal(t, DecisionBlocked, decision.Status)
	require.Equal(t, 12, decision.PreviousAt.Hour())
	require.Equal(t, f.location, decision.PreviousAt.Location())
	require.Len(t, f.events.meals, 1)
}

func TestProcessMealAllowedNextDay(t *testing.T) {
	f := newScanFixture(t)

	decision, err := f.service.ProcessMeal(context.Background(), "2023001", 1)
	require.NoError(t, err)
	require.Equal(t, DecisionApproved, decision.Status)

	f.clock = f.clock.Add(24 * time.Hour)
	decision, err = f.service.ProcessMeal(context.Background(), "2023001", 1)
	require.NoError(t, err)
	require.Equal(t, DecisionApproved, decision.Status)
	require.Len(t, f.events.meals, 2)
}

func TestProcessMealNoEntitlementDenied(t *testing.T) {
	f := newScanFixture(t)

	decision, err := f.service.ProcessMeal(context.Background(), "2023002", 1)
	require.NoError(t, err)
	require.Equal(t, DecisionDenied, decision.Status)
	require.Empty(t, f.events.meals)

	// The directory record is untouched.
	require.False(t, f.directory.students[1].HasLunch)
}

func TestProcessMealEmployeeTier(t *testing.T) {
	f := newScanFixture(t)

	decision, err := f.service.ProcessMeal(context.Background(), "CC-555", 1)
	require.NoError(t, err)
	require.Equal(t, DecisionApproved, decision.Status)
	require.Equal(t, models.MealTierSpecial, decision.ServedType)

	event := f.events.meals[0]
	require.Nil(t, event.StudentID)
	require.NotNil(t, event.EmployeeID)
	require.Equal(t, int64(1), *event.EmployeeID)
}

func TestProcessMealConcurrentInsertFailsClosed(t *testing.T) {
	f := newScanFixture(t)

	// A concurrent scan won the race: its event is committed, but this
	// request's dedup read ran before the commit, so only the per-day unique
	// index stops the double insert.
	studentID := int64(1)
	winner := &models.MealEvent{
		StudentID:  &studentID,
		OperatorID: 2,
		OccurredAt: helpers.StripZone(f.clock.Add(-time.Second)),
		ServedOn:   helpers.StripZone(helpers.DayOf(f.clock, f.location)),
		ServedType: models.MealTierNormal,
	}
	f.events.meals = append(f.events.meals, winner)
	f.events.hideMealsOnce = true
	f.events.mealInsertErr = apperrors.ErrMealAlreadyServed

	decision, err := f.service.ProcessMeal(context.Background(), "2023001", 1)
	require.NoError(t, err)
	require.Equal(t, DecisionBlocked, decision.Status)
	// The block carries the winner's delivery time from the re-read.
	require.Equal(t, 11, decision.PreviousAt.Hour())
	require.Len(t, f.events.meals, 1)
}
