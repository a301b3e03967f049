package models

import "time"

// ExitEvent defines an approved exit based on the 'exit_events' table.
// Events are append-only: denials and blocks are never persisted.
type ExitEvent struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	OperatorID int64     `json:"operatorId" db:"operator_id"`
	DoorID     int64     `json:"doorId" db:"door_id"`
	OccurredAt time.Time `json:"occurredAt" db:"occurred_at"`

	// Relations (populated by report queries)
	Student  *Student  `json:"student,omitempty"`
	Door     *Door     `json:"door,omitempty"`
	Operator *Operator `json:"operator,omitempty"`
}

// MealEvent defines an approved meal delivery based on the 'meal_events'
// table. Exactly one of StudentID / EmployeeID is set; ServedOn is the
// calendar day in the authoritative zone and carries the once-per-day
// uniqueness.
type MealEvent struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  *int64    `json:"studentId,omitempty" db:"student_id"`
	EmployeeID *int64    `json:"employeeId,omitempty" db:"employee_id"`
	OperatorID int64     `json:"operatorId" db:"operator_id"`
	OccurredAt time.Time `json:"occurredAt" db:"occurred_at"`
	ServedOn   time.Time `json:"servedOn" db:"served_on"`
	ServedType MealTier  `json:"servedType" db:"served_type"`

	// Relations (populated by report queries)
	Student  *Student  `json:"student,omitempty"`
	Employee *Employee `json:"employee,omitempty"`
	Operator *Operator `json:"operator,omitempty"`
}

// Subject returns the person variant and record ID the meal event refers to.
func (e *MealEvent) Subject() (PersonKind, int64) {
	if e.StudentID != nil {
		return KindStudent, *e.StudentID
	}
	if e.EmployeeID != nil {
		return KindEmployee, *e.EmployeeID
	}
	return "", 0
}
