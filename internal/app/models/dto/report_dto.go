package dto

// MealReportFilter holds the query parameters of GET /reports/meals
type MealReportFilter struct {
	DateStart  string `form:"from" example:"2025-03-01"`
	DateEnd    string `form:"to" example:"2025-03-10"`
	Tier       string `form:"tier" example:"Normal"`
	PersonType string `form:"personType" example:"student" enums:"student,employee"`
}

// MealReportEntry is one delivered meal in the report
type MealReportEntry struct {
	Date       string `json:"date" example:"2025-03-10"`
	Time       string `json:"time" example:"12:15:30"`
	ServedType string `json:"servedType" example:"Normal"`
	Name       string `json:"name" example:"Laura Gómez"`
	PersonType string `json:"personType" example:"STUDENT"`
	Detail     string `json:"detail" example:"10A"`
	Operator   string `json:"operator" example:"comedor1"`
}

// MealReportStats are the tier tallies shown next to the report
type MealReportStats struct {
	Normal  int `json:"normal" example:"120"`
	Special int `json:"special" example:"14"`
	Total   int `json:"total" example:"134"`
}

// MealReportResponse is the body of GET /reports/meals
type MealReportResponse struct {
	Entries []MealReportEntry `json:"entries"`
	Stats   MealReportStats   `json:"stats"`
}

// ExitReportFilter holds the query parameters of GET /reports/exits
type ExitReportFilter struct {
	DateStart string `form:"from" example:"2025-03-01"`
	DateEnd   string `form:"to" example:"2025-03-10"`
	DoorID    int64  `form:"doorId" example:"1"`
}

// ExitReportEntry is one recorded exit in the report
type ExitReportEntry struct {
	Date      string `json:"date" example:"2025-03-10"`
	Time      string `json:"time" example:"14:32:05"`
	StudentID string `json:"studentId" example:"2023001"`
	Name      string `json:"name" example:"Laura Gómez"`
	Course    string `json:"course" example:"10A"`
	Door      string `json:"door" example:"Puerta Principal"`
	Operator  string `json:"operator" example:"porteria1"`
}

// ExitReportResponse is the body of GET /reports/exits
type ExitReportResponse struct {
	Entries []ExitReportEntry `json:"entries"`
	Total   int               `json:"total" example:"58"`
}
