package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portero-http-service/internal/error/response"
	"portero-http-service/services"
	"portero-http-service/services/container"
)

// InterfaceHubController defines the hub controller interface
type InterfaceHubController interface {
	Connect()
	Stats()
}

// HubController handles websocket relay requests
type HubController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHubController creates a new hub controller
func NewHubController(ctx *gin.Context, container *container.ServiceContainer) *HubController {
	return &HubController{
		Ctx:       ctx,
		Container: container,
	}
}

// HubStatsResponse reports the relay population
type HubStatsResponse struct {
	Clients int `json:"clients"`
	Portero int `json:"portero"`
}

// HandleHubFunc returns a gin handler dispatching to the hub controller
func HandleHubFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHubController(ctx, container)

		switch method {
		case "connect":
			controller.Connect()
		case "stats":
			controller.Stats()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Método inválido",
				"data":    nil,
			})
		}
	}
}

// 1. Connect upgrades the request to a websocket relay session
// @Summary Conectar al relay
// @Description Actualiza la conexión a WebSocket; el cliente envía join-room y recibe eventos de sus salas
// @Tags hub
// @Success 101 {string} string "Switching Protocols"
// @Router /ws [get]
func (c *HubController) Connect() {
	c.Container.GetHub().HandleConnection(c.Ctx)
}

// 2. Stats reports connected client counts
// @Summary Estado del relay
// @Description Devuelve cuántos clientes hay conectados y cuántos observan la sala del portero
// @Tags hub
// @Produce json
// @Success 200 {object} HubStatsResponse
// @Router /ws/stats [get]
func (c *HubController) Stats() {
	hub := c.Container.GetHub()
	response.Success(c.Ctx, HubStatsResponse{
		Clients: hub.ClientCount(),
		Portero: hub.RoomCount(services.RoomPortero),
	})
}
