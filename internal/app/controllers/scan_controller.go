package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/app/models/dto"
	"github.com/jfuentes/schoolguard/internal/app/services"
	"github.com/jfuentes/schoolguard/internal/middleware"
)

// ScanController handles the scanning surface endpoints
type ScanController struct {
	scanService services.ScanService
}

// NewScanController creates a new scan controller
func NewScanController(scanService services.ScanService) *ScanController {
	return &ScanController{
		scanService: scanService,
	}
}

// mapPersonInfo converts a resolved person to its response summary
func mapPersonInfo(person models.Person) *dto.PersonInfo {
	if person == nil {
		return nil
	}
	return &dto.PersonInfo{
		Kind:       string(person.Kind()),
		Identifier: person.Identifier(),
		Name:       person.DisplayName(),
		Detail:     person.Detail(),
		PhotoPath:  person.PhotoPath(),
	}
}

// ProcessExit decides an exit scan
// @Summary Process an exit scan
// @Description Resolves the scanned credential, checks authorization and the re-scan cooldown, and records the exit when approved
// @Tags scanner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ExitScanRequest true "Scanned payload and door"
// @Success 200 {object} dto.APIResponse{data=dto.ExitScanResponse} "Gating decision"
// @Router /scan/exit [post]
func (c *ScanController) ProcessExit(ctx *gin.Context) {
	var req dto.ExitScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid scan request")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	operatorID := middleware.GetOperatorID(ctx)

	decision, err := c.scanService.ProcessExit(ctx, req.Code, req.DoorID, operatorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.ExitScanResponse{Person: mapPersonInfo(decision.Person)}
	switch decision.Status {
	case services.DecisionApproved:
		response.Status = dto.ScanStatusApproved
		response.Message = "SALIDA REGISTRADA"
		response.Timestamp = decision.RecordedAt.Format("15:04:05")
	case services.DecisionDenied:
		response.Status = dto.ScanStatusDenied
		response.Message = "NO AUTORIZADO PARA SALIR"
	case services.DecisionBlocked:
		response.Status = dto.ScanStatusBlocked
		response.Message = fmt.Sprintf("YA SALIÓ HACE %d MINUTOS", decision.ElapsedMinutes)
		response.MinutesElapsed = decision.ElapsedMinutes
	default:
		response.Status = dto.ScanStatusNotFound
		response.Message = "NO ENCONTRADO O NO REGISTRADO"
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ProcessMeal decides a meal scan
// @Summary Process a meal scan
// @Description Resolves the scanned credential, checks the meal entitlement and the once-per-day rule, and records the delivery when approved
// @Tags scanner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MealScanRequest true "Scanned payload"
// @Success 200 {object} dto.APIResponse{data=dto.MealScanResponse} "Gating decision"
// @Router /scan/meal [post]
func (c *ScanController) ProcessMeal(ctx *gin.Context) {
	var req dto.MealScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid scan request")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	operatorID := middleware.GetOperatorID(ctx)

	decision, err := c.scanService.ProcessMeal(ctx, req.Code, operatorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.MealScanResponse{Person: mapPersonInfo(decision.Person)}
	switch decision.Status {
	case services.DecisionApproved:
		response.Status = dto.ScanStatusApproved
		response.Message = "ALMUERZO AUTORIZADO"
		response.ServedType = string(decision.ServedType)
		response.Timestamp = decision.RecordedAt.Format("2006-01-02 15:04:05")
		response.Ticket = &dto.TicketData{
			Name:   decision.Person.DisplayName(),
			Type:   string(decision.ServedType),
			Detail: decision.Person.Detail(),
			Date:   decision.RecordedAt.Format("2006-01-02"),
			Time:   decision.RecordedAt.Format("03:04 PM"),
		}
	case services.DecisionDenied:
		response.Status = dto.ScanStatusDenied
		response.Message = "NO TIENE ALMUERZO ASIGNADO"
	case services.DecisionBlocked:
		response.Status = dto.ScanStatusBlocked
		response.Message = fmt.Sprintf("YA RECLAMÓ ALMUERZO A LAS %s", decision.PreviousAt.Format("03:04 PM"))
		response.ServedType = string(decision.ServedType)
	default:
		response.Status = dto.ScanStatusNotFound
		response.Message = "NO ENCONTRADO O NO REGISTRADO"
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ListDoors returns the active doors for the scan surface
// @Summary List active doors
// @Tags scanner
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Door} "Active doors"
// @Router /doors [get]
func (c *ScanController) ListDoors(ctx *gin.Context) {
	doors, err := c.scanService.ActiveDoors(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(doors))
}
