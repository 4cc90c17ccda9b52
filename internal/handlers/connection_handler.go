package handlers

import (
	"github.com/gin-gonic/gin"

	"fixrx_backend/internal/middleware"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/services"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/internal/validator"
)

type ConnectionHandler struct {
	*BaseHandler
	connectionService services.ConnectionService
}

func NewConnectionHandler(v *validator.Validator, connectionService services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		BaseHandler:       NewBaseHandler(v),
		connectionService: connectionService,
	}
}

// RegisterRoutes mounts the connection-request lifecycle. Creation
// and cancellation are consumer actions, the accept/decline decision
// belongs to the vendor, reads are open to both parties.
func (h *ConnectionHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	connections := r.Group("/connections", authMW)
	{
		connections.POST("/request", middleware.RoleMiddleware(models.UserRoleConsumer), h.CreateRequest)
		connections.GET("/requests", h.ListRequests)
		connections.GET("/requests/:id", h.GetRequest)
		connections.PUT("/requests/:id/status", middleware.RoleMiddleware(models.UserRoleVendor), h.RespondToRequest)
		connections.PUT("/requests/:id/cancel", middleware.RoleMiddleware(models.UserRoleConsumer), h.CancelRequest)
	}
}

func (h *ConnectionHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateConnectionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.connectionService.CreateRequest(h.GetDB(c), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondCreated(c, resp)
}

// RespondToRequest records the vendor's accept/decline decision.
func (h *ConnectionHandler) RespondToRequest(c *gin.Context) {
	var req dto.RespondToRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.connectionService.RespondToRequest(
		h.GetDB(c),
		c.Param("id"),
		middleware.GetUserID(c),
		models.RequestStatus(req.Status),
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

func (h *ConnectionHandler) CancelRequest(c *gin.Context) {
	resp, err := h.connectionService.CancelRequest(h.GetDB(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

func (h *ConnectionHandler) GetRequest(c *gin.Context) {
	resp, err := h.connectionService.GetRequest(h.GetDB(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

// ListRequests returns the caller's requests: sent ones for a
// consumer, received ones for a vendor.
func (h *ConnectionHandler) ListRequests(c *gin.Context) {
	resp, err := h.connectionService.ListForUser(h.GetDB(c), middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}
