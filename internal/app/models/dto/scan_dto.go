package dto

// ScanStatus is the outcome discriminator returned by the scan endpoints.
// Denials and blocks are decisions, not transport errors: they travel as
// HTTP 200 with the status field set.
type ScanStatus string

const (
	ScanStatusApproved ScanStatus = "approved"
	ScanStatusDenied   ScanStatus = "denied"
	ScanStatusBlocked  ScanStatus = "blocked"
	ScanStatusNotFound ScanStatus = "not_found"
)

// ExitScanRequest is the payload of POST /scan/exit
type ExitScanRequest struct {
	Code   string `json:"code" binding:"required" example:"2023001.f8a9b2c1d4e5f6a7"`
	DoorID int64  `json:"doorId" binding:"required" example:"1"`
}

// MealScanRequest is the payload of POST /scan/meal
type MealScanRequest struct {
	Code string `json:"code" binding:"required" example:"2023001.f8a9b2c1d4e5f6a7"`
}

// PersonInfo is the person summary attached to scan outcomes
type PersonInfo struct {
	Kind       string `json:"kind" example:"STUDENT" enums:"STUDENT,EMPLOYEE"`
	Identifier string `json:"identifier" example:"2023001"`
	Name       string `json:"name" example:"Laura Gómez"`
	Detail     string `json:"detail" example:"10A"`
	PhotoPath  string `json:"photoPath,omitempty" example:"uploads/2023001.jpg"`
}

// ExitScanResponse is the outcome of an exit scan
type ExitScanResponse struct {
	Status         ScanStatus  `json:"status" example:"approved"`
	Message        string      `json:"message" example:"SALIDA REGISTRADA"`
	Person         *PersonInfo `json:"person,omitempty"`
	Timestamp      string      `json:"timestamp,omitempty" example:"14:32:05"`
	MinutesElapsed int         `json:"minutesElapsed,omitempty" example:"7"`
}

// MealScanResponse is the outcome of a meal scan
type MealScanResponse struct {
	Status     ScanStatus  `json:"status" example:"approved"`
	Message    string      `json:"message" example:"ALMUERZO AUTORIZADO"`
	Person     *PersonInfo `json:"person,omitempty"`
	ServedType string      `json:"servedType,omitempty" example:"Normal"`
	Timestamp  string      `json:"timestamp,omitempty" example:"2025-03-10 12:15:30"`
	Ticket     *TicketData `json:"ticketData,omitempty"`
}

// TicketData carries the raw fields the scanning surface prints on the
// meal ticket
type TicketData struct {
	Name   string `json:"name" example:"Laura Gómez"`
	Type   string `json:"type" example:"Normal"`
	Detail string `json:"detail" example:"10A"`
	Date   string `json:"date" example:"2025-03-10"`
	Time   string `json:"time" example:"12:15 PM"`
}

// PersonSearchResult is one row of GET /persons/search
type PersonSearchResult struct {
	Kind       string `json:"kind" example:"STUDENT"`
	Identifier string `json:"identifier" example:"2023001"`
	Name       string `json:"name" example:"Laura Gómez"`
	Detail     string `json:"detail" example:"10A"`
	PhotoPath  string `json:"photoPath,omitempty"`
}

// CredentialResponse is the signed token issued for card printing
type CredentialResponse struct {
	Identifier string `json:"identifier" example:"2023001"`
	Credential string `json:"credential" example:"2023001.f8a9b2c1d4e5f6a7"`
}
