package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portero-http-service/internal/error/code"
	"portero-http-service/internal/error/response"
	"portero-http-service/models"
	"portero-http-service/services"
	"portero-http-service/services/container"
)

// InterfaceCallHistoryController defines the call history controller interface
type InterfaceCallHistoryController interface {
	GetCallHistory()
	GetCallStatistics()
}

// CallHistoryController handles call history requests
type CallHistoryController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCallHistoryController creates a new call history controller
func NewCallHistoryController(ctx *gin.Context, container *container.ServiceContainer) *CallHistoryController {
	return &CallHistoryController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCallHistoryFunc returns a gin handler dispatching to the call history controller
func HandleCallHistoryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCallHistoryController(ctx, container)

		switch method {
		case "getCallHistory":
			controller.GetCallHistory()
		case "getCallStatistics":
			controller.GetCallStatistics()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Método inválido",
				"data":    nil,
			})
		}
	}
}

// 1. GetCallHistory lists call records with pagination
// @Summary Historial de llamadas
// @Description Devuelve el historial de llamadas paginado, de la más reciente a la más antigua
// @Tags call-records
// @Accept json
// @Produce json
// @Param pageNum query int false "Número de página" default(1)
// @Param pageSize query int false "Tamaño de página" default(20)
// @Param departmentId query int false "Filtrar por departamento"
// @Success 200 {object} models.PaginationResult
// @Failure 500 {object} response.Response
// @Router /call-records [get]
func (c *CallHistoryController) GetCallHistory() {
	var query models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}
	query.Normalize()

	historyService := c.Container.GetService("callHistory").(services.InterfaceCallHistoryService)

	var records []models.CallHistory
	var total int64
	var err error

	if raw := c.Ctx.Query("departmentId"); raw != "" {
		departmentID, parseErr := strconv.Atoi(raw)
		if parseErr != nil || departmentID <= 0 {
			response.ParamError(c.Ctx, "ID de departamento inválido")
			return
		}
		records, total, err = historyService.GetCallHistoryByDepartment(uint(departmentID), query.PageNum, query.PageSize)
	} else {
		records, total, err = historyService.GetAllCallHistory(query.PageNum, query.PageSize)
	}

	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, models.NewPaginationResult(records, total, query.PageNum, query.PageSize))
}

// 2. GetCallStatistics aggregates the call history
// @Summary Estadísticas de llamadas
// @Description Devuelve totales por estado y duración media de las llamadas conectadas
// @Tags call-records
// @Accept json
// @Produce json
// @Success 200 {object} services.CallStatistics
// @Failure 500 {object} response.Response
// @Router /call-records/statistics [get]
func (c *CallHistoryController) GetCallStatistics() {
	historyService := c.Container.GetService("callHistory").(services.InterfaceCallHistoryService)

	stats, err := historyService.GetCallStatistics()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, stats)
}
