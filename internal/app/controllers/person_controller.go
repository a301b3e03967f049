package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/app/models/dto"
	"github.com/jfuentes/schoolguard/internal/app/services"
	"github.com/jfuentes/schoolguard/internal/middleware"
)

// PersonController handles the directory endpoints
type PersonController struct {
	personService services.PersonService
}

// NewPersonController creates a new person controller
func NewPersonController(personService services.PersonService) *PersonController {
	return &PersonController{
		personService: personService,
	}
}

// Search finds persons by name for manual selection
// @Summary Search persons by name
// @Description Finds students and employees whose name matches the query, students first
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Param q query string true "Name fragment, at least 3 characters"
// @Success 200 {object} dto.APIResponse{data=[]dto.PersonSearchResult} "Matches"
// @Router /persons/search [get]
func (c *PersonController) Search(ctx *gin.Context) {
	persons, err := c.personService.SearchByName(ctx, ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	results := make([]dto.PersonSearchResult, 0, len(persons))
	for _, person := range persons {
		results = append(results, dto.PersonSearchResult{
			Kind:       string(person.Kind()),
			Identifier: person.Identifier(),
			Name:       person.DisplayName(),
			Detail:     person.Detail(),
			PhotoPath:  person.PhotoPath(),
		})
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}

// Credential issues the signed token printed on a person's badge
// @Summary Issue a signed credential
// @Description Returns the signed token encoded in the person's QR badge
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Person kind" Enums(student, employee)
// @Param id path string true "Primary identifier"
// @Success 200 {object} dto.APIResponse{data=dto.CredentialResponse} "Signed credential"
// @Failure 404 {object} dto.APIResponse "Person not found"
// @Router /persons/{kind}/{id}/credential [get]
func (c *PersonController) Credential(ctx *gin.Context) {
	var kind models.PersonKind
	switch strings.ToLower(ctx.Param("kind")) {
	case "student":
		kind = models.KindStudent
	case "employee":
		kind = models.KindEmployee
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Person kind must be student or employee").WithField("kind")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	person, credential, err := c.personService.IssueCredential(ctx, kind, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CredentialResponse{
		Identifier: person.Identifier(),
		Credential: credential,
	}))
}
