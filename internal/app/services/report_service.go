package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/app/models/dto"
	"github.com/jfuentes/schoolguard/internal/app/repositories"
	"github.com/jfuentes/schoolguard/internal/pkg/apperrors"
	"github.com/jfuentes/schoolguard/internal/pkg/helpers"
)

const reportDateLayout = "2006-01-02"

// ReportService renders the meal and exit logs for review. Read-only: it
// never participates in gating decisions.
type ReportService interface {
	MealReport(ctx context.Context, filter dto.MealReportFilter) (*dto.MealReportResponse, error)
	ExitReport(ctx context.Context, filter dto.ExitReportFilter) (*dto.ExitReportResponse, error)
}

// ReportEventStore is the query surface the reports need
type ReportEventStore interface {
	ListMealEvents(ctx context.Context, filter repositories.MealEventFilter) ([]*models.MealEvent, error)
	ListExitEvents(ctx context.Context, filter repositories.ExitEventFilter) ([]*models.ExitEvent, error)
}

type reportService struct {
	events   ReportEventStore
	location *time.Location
}

// NewReportService creates a new ReportService
func NewReportService(events ReportEventStore, location *time.Location) ReportService {
	return &reportService{
		events:   events,
		location: location,
	}
}

// dateRange resolves the filter dates, defaulting both ends to today in the
// authoritative zone, and widens them to naive day bounds for the storage
// query.
func (s *reportService) dateRange(dateStart, dateEnd string) (time.Time, time.Time, error) {
	today := time.Now().In(s.location).Format(reportDateLayout)
	if dateStart == "" {
		dateStart = today
	}
	if dateEnd == "" {
		dateEnd = today
	}

	start, err := time.ParseInLocation(reportDateLayout, dateStart, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError(fmt.Sprintf("invalid start date %q", dateStart))
	}
	end, err := time.ParseInLocation(reportDateLayout, dateEnd, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError(fmt.Sprintf("invalid end date %q", dateEnd))
	}

	from := helpers.StripZone(start)
	to := helpers.StripZone(end.Add(24*time.Hour - time.Second))
	return from, to, nil
}

// MealReport lists delivered meals in a date range with tier tallies
func (s *reportService) MealReport(ctx context.Context, filter dto.MealReportFilter) (*dto.MealReportResponse, error) {
	from, to, err := s.dateRange(filter.DateStart, filter.DateEnd)
	if err != nil {
		return nil, err
	}

	storeFilter := repositories.MealEventFilter{From: from, To: to}
	if filter.Tier != "" && filter.Tier != "Todos" {
		storeFilter.Tier = models.MealTier(filter.Tier)
	}
	switch filter.PersonType {
	case "student":
		storeFilter.PersonKind = models.KindStudent
	case "employee":
		storeFilter.PersonKind = models.KindEmployee
	}

	events, err := s.events.ListMealEvents(ctx, storeFilter)
	if err != nil {
		return nil, err
	}

	response := &dto.MealReportResponse{Entries: make([]dto.MealReportEntry, 0, len(events))}
	for _, event := range events {
		occurred := helpers.EnsureZone(event.OccurredAt, s.location)

		entry := dto.MealReportEntry{
			Date:       occurred.Format(reportDateLayout),
			Time:       occurred.Format("15:04:05"),
			ServedType: string(event.ServedType),
		}
		if event.Operator != nil {
			entry.Operator = event.Operator.Username
		}
		if event.Student != nil {
			entry.Name = event.Student.FullName
			entry.PersonType = string(models.KindStudent)
			entry.Detail = event.Student.Course
		} else if event.Employee != nil {
			entry.Name = event.Employee.FullName
			entry.PersonType = string(models.KindEmployee)
			entry.Detail = event.Employee.Detail()
		}

		switch event.ServedType {
		case models.MealTierNormal:
			response.Stats.Normal++
		case models.MealTierSpecial:
			response.Stats.Special++
		}
		response.Stats.Total++

		response.Entries = append(response.Entries, entry)
	}

	return response, nil
}

// ExitReport lists recorded exits in a date range
func (s *reportService) ExitReport(ctx context.Context, filter dto.ExitReportFilter) (*dto.ExitReportResponse, error) {
	from, to, err := s.dateRange(filter.DateStart, filter.DateEnd)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListExitEvents(ctx, repositories.ExitEventFilter{From: from, To: to, DoorID: filter.DoorID})
	if err != nil {
		return nil, err
	}

	response := &dto.ExitReportResponse{Entries: make([]dto.ExitReportEntry, 0, len(events)), Total: len(events)}
	for _, event := range events {
		occurred := helpers.EnsureZone(event.OccurredAt, s.location)

		entry := dto.ExitReportEntry{
			Date: occurred.Format(reportDateLayout),
			Time: occurred.Format("15:04:05"),
		}
		if event.Student != nil {
			entry.StudentID = event.Student.StudentID
			entry.Name = event.Student.FullName
			entry.Course = event.Student.Course
		}
		if event.Door != nil {
			entry.Door = event.Door.Name
		}
		if event.Operator != nil {
			entry.Operator = event.Operator.Username
		}

		response.Entries = append(response.Entries, entry)
	}

	return response, nil
}
