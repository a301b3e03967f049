package models

// PersonKind discriminates the two directory variants
type PersonKind string

const (
	KindStudent  PersonKind = "STUDENT"
	KindEmployee PersonKind = "EMPLOYEE"
)

// MealTier is the meal service assigned to a person
type MealTier string

const (
	MealTierNormal  MealTier = "Normal"
	MealTierSpecial MealTier = "Especial"
	MealTierNone    MealTier = ""
)

// Person is the common view of a directory record. The resolver, the gates
// and the recorder only ever see this interface, never the concrete variant.
type Person interface {
	// Kind identifies the directory variant the record came from
	Kind() PersonKind
	// RecordID is the internal numeric key of the record
	RecordID() int64
	// Identifier is the primary human-readable identifier (immutable once issued)
	Identifier() string
	// DisplayName is the person's full name
	DisplayName() string
	// Detail is the course (students) or position (employees) shown on tickets
	Detail() string
	// HardwareTag is the RFID code, empty when no tag is assigned
	HardwareTag() string
	// ExitAuthorized reports whether the person may leave through a door
	ExitAuthorized() bool
	// MealEntitled reports whether the person has a meal assigned
	MealEntitled() bool
	// MealServed is the tier delivered when a meal scan is approved
	MealServed() MealTier
	// PhotoPath is the stored photo reference, empty when none
	PhotoPath() string
}

// Student defines the student model based on the 'students' table
type Student struct {
	ID           int64    `json:"id" db:"id"`
	StudentID    string   `json:"studentId" db:"student_id"`
	FullName     string   `json:"fullName" db:"full_name"`
	Course       string   `json:"course" db:"course"`
	IsAuthorized bool     `json:"isAuthorized" db:"is_authorized"`
	HasLunch     bool     `json:"hasLunch" db:"has_lunch"`
	LunchType    MealTier `json:"lunchType" db:"lunch_type"`
	RFIDCode     *string  `json:"rfidCode,omitempty" db:"rfid_code"`
	Photo        *string  `json:"photoPath,omitempty" db:"photo_path"`
}

func (s *Student) Kind() PersonKind     { return KindStudent }
func (s *Student) RecordID() int64      { return s.ID }
func (s *Student) Identifier() string   { return s.StudentID }
func (s *Student) DisplayName() string  { return s.FullName }
func (s *Student) Detail() string       { return s.Course }
func (s *Student) ExitAuthorized() bool { return s.IsAuthorized }
func (s *Student) MealEntitled() bool   { return s.HasLunch }
func (s *Student) MealServed() MealTier { return s.LunchType }

func (s *Student) HardwareTag() string {
	if s.RFIDCode == nil {
		return ""
	}
	return *s.RFIDCode
}

func (s *Student) PhotoPath() string {
	if s.Photo == nil {
		return ""
	}
	return *s.Photo
}

// Employee defines the employee model based on the 'employees' table
type Employee struct {
	ID        int64    `json:"id" db:"id"`
	DocID     string   `json:"docId" db:"doc_id"`
	FullName  string   `json:"fullName" db:"full_name"`
	Position  *string  `json:"position,omitempty" db:"position"`
	HasLunch  bool     `json:"hasLunch" db:"has_lunch"`
	LunchType MealTier `json:"lunchType" db:"lunch_type"`
	RFIDCode  *string  `json:"rfidCode,omitempty" db:"rfid_code"`
	Photo     *string  `json:"photoPath,omitempty" db:"photo_path"`
}

func (e *Employee) Kind() PersonKind    { return KindEmployee }
func (e *Employee) RecordID() int64     { return e.ID }
func (e *Employee) Identifier() string  { return e.DocID }
func (e *Employee) DisplayName() string { return e.FullName }

// ExitAuthorized is always false for employees: the exit pipeline only serves
// student doors.
func (e *Employee) ExitAuthorized() bool { return false }
func (e *Employee) MealEntitled() bool   { return e.HasLunch }
func (e *Employee) MealServed() MealTier { return e.LunchType }

func (e *Employee) Detail() string {
	if e.Position == nil || *e.Position == "" {
		return "Empleado"
	}
	return *e.Position
}

func (e *Employee) HardwareTag() string {
	if e.RFIDCode == nil {
		return ""
	}
	return *e.RFIDCode
}

func (e *Employee) PhotoPath() string {
	if e.Photo == nil {
		return ""
	}
	return *e.Photo
}
