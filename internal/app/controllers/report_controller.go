package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jfuentes/schoolguard/internal/app/models/dto"
	"github.com/jfuentes/schoolguard/internal/app/services"
	"github.com/jfuentes/schoolguard/internal/middleware"
)

// ReportController handles the reporting endpoints
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new report controller
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// Meals lists delivered meals
// @Summary Meal delivery report
// @Description Lists delivered meals in a date range with tier tallies
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Param tier query string false "Meal tier filter" Enums(Normal, Especial, Todos)
// @Param personType query string false "Person kind filter" Enums(student, employee)
// @Success 200 {object} dto.APIResponse{data=dto.MealReportResponse} "Report"
// @Router /reports/meals [get]
func (c *ReportController) Meals(ctx *gin.Context) {
	var filter dto.MealReportFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid report filter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	report, err := c.reportService.MealReport(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// Exits lists recorded exits
// @Summary Exit report
// @Description Lists recorded exits in a date range, optionally per door
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Param doorId query int false "Door filter"
// @Success 200 {object} dto.APIResponse{data=dto.ExitReportResponse} "Report"
// @Router /reports/exits [get]
func (c *ReportController) Exits(ctx *gin.Context) {
	var filter dto.ExitReportFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid report filter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	report, err := c.reportService.ExitReport(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}
