package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portero-http-service/internal/error/code"
	"portero-http-service/internal/error/response"
	"portero-http-service/models"
	"portero-http-service/services"
	"portero-http-service/services/container"
)

// InterfaceDepartmentController defines the department controller interface
type InterfaceDepartmentController interface {
	GetDepartments()
	GetDepartment()
	CreateDepartment()
	UpdateDepartment()
	CallAction()
}

// DepartmentController handles department requests
type DepartmentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDepartmentController creates a new department controller
func NewDepartmentController(ctx *gin.Context, container *container.ServiceContainer) *DepartmentController {
	return &DepartmentController{
		Ctx:       ctx,
		Container: container,
	}
}

// DepartmentRequest is the creation payload
type DepartmentRequest struct {
	Name     string `json:"name" binding:"required" example:"Ventas"`
	Password string `json:"password" binding:"required" example:"ventas123"`
}

// DepartmentUpdateRequest is the partial update payload. Empty fields are
// left untouched.
type DepartmentUpdateRequest struct {
	Name     string `json:"name" example:"Ventas"`
	Password string `json:"password" example:"nueva123"`
	Status   string `json:"status" example:"Busy"` // Available, Busy, Away
}

// CallActionRequest mutates the incoming-call columns of one department
type CallActionRequest struct {
	Action string `json:"action" binding:"required" example:"set_call"` // set_call, clear_call
	From   string `json:"from" example:"Portero"`
	Room   string `json:"room" example:"portero-ventas-1700000000"`
}

// HandleDepartmentFunc returns a gin handler dispatching to the department controller
func HandleDepartmentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDepartmentController(ctx, container)

		switch method {
		case "getDepartments":
			controller.GetDepartments()
		case "getDepartment":
			controller.GetDepartment()
		case "createDepartment":
			controller.CreateDepartment()
		case "updateDepartment":
			controller.UpdateDepartment()
		case "callAction":
			controller.CallAction()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Método inválido",
				"data":    nil,
			})
		}
	}
}

// departmentID parses the :id path parameter
func (c *DepartmentController) departmentID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		response.ParamError(c.Ctx, "ID de departamento inválido")
		return 0, false
	}
	return uint(id), true
}

// 1. GetDepartments lists every department
// @Summary Listar departamentos
// @Description Devuelve todos los departamentos con su estado y llamada entrante
// @Tags departments
// @Accept json
// @Produce json
// @Success 200 {array} models.Department
// @Failure 500 {object} response.Response
// @Router /departments [get]
func (c *DepartmentController) GetDepartments() {
	departmentService := c.Container.GetService("department").(services.InterfaceDepartmentService)

	departments, err := departmentService.GetAllDepartments()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, departments)
}

// 2. GetDepartment returns one department by ID
// @Summary Obtener departamento
// @Description Devuelve un departamento por su ID
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "ID del departamento"
// @Success 200 {object} models.Department
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /departments/{id} [get]
func (c *DepartmentController) GetDepartment() {
	id, ok := c.departmentID()
	if !ok {
		return
	}

	departmentService := c.Container.GetService("department").(services.InterfaceDepartmentService)

	department, err := departmentService.GetDepartmentByID(id)
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

// 3. CreateDepartment registers a new department
// @Summary Crear departamento
// @Description Crea un nuevo departamento con estado Available
// @Tags departments
// @Accept json
// @Produce json
// @Param department body DepartmentRequest true "Nombre y contraseña"
// @Success 201 {object} models.Department
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /departments [post]
func (c *DepartmentController) CreateDepartment() {
	var req DepartmentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}

	departmentService := c.Container.GetService("department").(services.InterfaceDepartmentService)

	department, err := departmentService.CreateDepartment(req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentExists):
			response.Fail(c.Ctx, code.ErrDepartmentAlreadyExist, nil)
		case errors.Is(err, services.ErrDepartmentLimit):
			response.Fail(c.Ctx, code.ErrDepartmentLimit, nil)
		default:
			response.Fail(c.Ctx, code.ErrDatabase, nil)
		}
		return
	}

	response.Created(c.Ctx, department)
}

// 4. UpdateDepartment applies a partial update to one department
// @Summary Actualizar departamento
// @Description Modifica nombre, contraseña y/o estado de un departamento
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "ID del departamento"
// @Param department body DepartmentUpdateRequest true "Campos a modificar"
// @Success 200 {object} models.Department
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /departments/{id} [patch]
func (c *DepartmentController) UpdateDepartment() {
	id, ok := c.departmentID()
	if !ok {
		return
	}

	var req DepartmentUpdateRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}

	departmentService := c.Container.GetService("department").(services.InterfaceDepartmentService)

	department, err := departmentService.GetDepartmentByID(id)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			response.Fail(c.Ctx, code.ErrDepartmentNotFound, nil)
			return
		}
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	if req.Name != "" || req.Password != "" {
		department, err = departmentService.UpdateDepartmentProfile(id, req.Name, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrDepartmentExists) {
				response.Fail(c.Ctx, code.ErrDepartmentAlreadyExist, nil)
				return
			}
			response.Fail(c.Ctx, code.ErrDatabase, nil)
			return
		}
	}

	if req.Status != "" {
		department, err = departmentService.UpdateDepartmentStatus(id, models.DepartmentStatus(req.Status))
		if err != nil {
			if errors.Is(err, services.ErrInvalidStatus) {
				response.Fail(c.Ctx, code.ErrDepartmentStatusInvalid, nil)
				return
			}
			response.Fail(c.Ctx, code.ErrDatabase, nil)
			return
		}
	}

	response.Success(c.Ctx, department)
}

// 5. CallAction sets or clears the incoming call of one department
// @Summary Modificar llamada entrante
// @Description Fija (set_call) o limpia (clear_call) la llamada entrante de un departamento
// @Tags departments
// @Accept json
// @Produce json
// @Param id path int true "ID del departamento"
// @Param action body CallActionRequest true "Acción a aplicar"
// @Success 200 {object} models.Department
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /departments/{id} [post]
func (c *DepartmentController) CallAction() {
	id, ok := c.departmentID()
	if !ok {
		return
	}

	var req CallActionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Parámetros inválidos: "+err.Error())
		return
	}

	departmentService := c.Container.GetService("department").(services.InterfaceDepartmentService)

	var department *models.Department
	var err error

	switch req.Action {
	case "set_call":
		if req.From == "" || req.Room == "" {
			response.ParamError(c.Ctx, "set_call requiere from y room")
			return
		}
		department, err = departmentService.SetIncomingCall(id, req.From, req.Room)
	case "clear_call":
		department, err = departmentService.ClearIncomingCall(id)
	default:
		response.ParamError(c.Ctx, "Acción desconocida: "+req.Action)
		return
	}

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
