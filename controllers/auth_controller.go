package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portero-http-service/internal/error/code"
	"portero-http-service/internal/error/response"
	"portero-http-service/services"
	"portero-http-service/services/container"
	"portero-http-service/utils"
)

// InterfaceAuthController defines the auth controller interface
type InterfaceAuthController interface {
	Login()
}

// AuthController handles login requests for both panel types
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController creates a new auth controller
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the credentials payload for both user types
type LoginRequest struct {
	UserType string `json:"userType" binding:"required" example:"departamento"` // portero, departamento
	Name     string `json:"name" example:"Ventas"`
	Password string `json:"password" binding:"required" example:"ventas123"`
}

// LoginResponse carries the authenticated identity back to the panel
type LoginResponse struct {
	UserType   string      `json:"userType"`
	Department interface{} `json:"department,omitempty"`
}

// HandleAuthFunc returns a gin handler dispatching to the auth controller
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Método inválido",
				"data":    nil,
			})
		}
	}
}

// 1. Login authenticates a doorman or department panel
// @Summary Iniciar sesión
// @Description Autentica al portero (contraseña compartida) o a un departamento (nombre + contraseña propia)
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credenciales"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}

	switch req.UserType {
	case "portero":
		if req.Password != c.Container.GetConfig().PorteroPassword {
			response.Fail(c.Ctx, code.ErrPasswordIncorrect, nil)
			return
		}
		response.Success(c.Ctx, LoginResponse{UserType: "portero"})

	case "departamento":
		if req.Name == "" {
			response.ParamError(c.Ctx, "El nombre del departamento es obligatorio")
			return
		}

		departmentService := c.Container.GetService("department").(services.InterfaceDepartmentService)
		department, err := departmentService.GetDepartmentByName(req.Name)
		if err != nil {
			if errors.Is(err, services.ErrDepartmentNotFound) {
				response.Fail(c.Ctx, code.ErrDepartmentNotFound, nil)
				return
			}
			response.Fail(c.Ctx, code.ErrDatabase, nil)
			return
		}

		if !utils.CheckPasswordHash(req.Password, department.Password) {
			response.Fail(c.Ctx, code.ErrPasswordIncorrect, nil)
			return
		}

		response.Success(c.Ctx, LoginResponse{
			UserType:   "departamento",
			Department: department,
		})

	default:
		response.Fail(c.Ctx, code.ErrUserTypeInvalid, nil)
	}
}
