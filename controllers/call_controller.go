package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portero-http-service/internal/error/code"
	"portero-http-service/internal/error/response"
	"portero-http-service/services"
	"portero-http-service/services/container"
)

// InterfaceCallController defines the call controller interface
type InterfaceCallController interface {
	StartCall()
	EndCall()
	RejectCall()
}

// CallController handles the call workflow requests
type CallController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCallController creates a new call controller
func NewCallController(ctx *gin.Context, container *container.ServiceContainer) *CallController {
	return &CallController{
		Ctx:       ctx,
		Container: container,
	}
}

// StartCallRequest offers a call to one department
type StartCallRequest struct {
	FromID         string `json:"fromId" binding:"required" example:"portero"`
	FromName       string `json:"fromName" binding:"required" example:"Portero"`
	ToDepartmentID uint   `json:"toDepartmentId" binding:"required" example:"2"`
	RoomName       string `json:"roomName" binding:"required" example:"portero-ventas-1700000000"`
}

// CallTargetRequest names the department whose call is being torn down
type CallTargetRequest struct {
	DepartmentID uint `json:"departmentId" binding:"required" example:"2"`
}

// HandleCallFunc returns a gin handler dispatching to the call controller
func HandleCallFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCallController(ctx, container)

		switch method {
		case "startCall":
			controller.StartCall()
		case "endCall":
			controller.EndCall()
		case "rejectCall":
			controller.RejectCall()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Método inválido",
				"data":    nil,
			})
		}
	}
}

// 1. StartCall offers a video call to an Available department
// @Summary Iniciar llamada
// @Description El portero ofrece una videollamada a un departamento disponible
// @Tags calls
// @Accept json
// @Produce json
// @Param call body StartCallRequest true "Datos de la llamada"
// @Success 200 {object} models.Department
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /call/start [post]
func (c *CallController) StartCall() {
	var req StartCallRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)

	department, err := callService.StartCall(req.FromID, req.FromName, req.ToDepartmentID, req.RoomName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentNotFound):
			response.Fail(c.Ctx, code.ErrDepartmentNotFound, nil)
		case errors.Is(err, services.ErrDepartmentUnavailable):
			response.Fail(c.Ctx, code.ErrDepartmentUnavailable, nil)
		default:
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, department)
}

// 2. EndCall tears down a connected call
// @Summary Finalizar llamada
// @Description Limpia la llamada entrante y devuelve el departamento a Available
// @Tags calls
// @Accept json
// @Produce json
// @Param call body CallTargetRequest true "Departamento"
// @Success 200 {object} models.Department
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /call/end [post]
func (c *CallController) EndCall() {
	var req CallTargetRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)

	department, err := callService.EndCall(req.DepartmentID)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			response.Fail(c.Ctx, code.ErrDepartmentNotFound, nil)
			return
		}
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, department)
}

// 3. RejectCall declines a pending call offer
// @Summary Rechazar llamada
// @Description El departamento rechaza la llamada entrante sin cambiar su estado
// @Tags calls
// @Accept json
// @Produce json
// @Param call body CallTargetRequest true "Departamento"
// @Success 200 {object} models.Department
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /call/reject [post]
func (c *CallController) RejectCall() {
	var req CallTargetRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}

	callService := c.Container.GetService("call").(services.InterfaceCallService)

	department, err := callService.RejectCall(req.DepartmentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentNotFound):
			response.Fail(c.Ctx, code.ErrDepartmentNotFound, nil)
		case errors.Is(err, services.ErrNoIncomingCall):
			response.Fail(c.Ctx, code.ErrNoIncomingCall, nil)
		default:
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Success(c.Ctx, department)
}
