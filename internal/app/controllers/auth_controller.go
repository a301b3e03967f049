package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jfuentes/schoolguard/internal/app/models/dto"
	"github.com/jfuentes/schoolguard/internal/app/services"
	"github.com/jfuentes/schoolguard/internal/middleware"
)

// AuthController handles operator authentication endpoints
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login authenticates an operator
// @Summary Operator login
// @Description Verifies the operator credentials and issues a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Operator credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Session token"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Username and password are required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	operator, token, expiresIn, err := c.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}
	response.Operator.ID = operator.ID
	response.Operator.Username = operator.Username
	response.Operator.FullName = operator.FullName
	response.Operator.Role = string(operator.Role)

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
