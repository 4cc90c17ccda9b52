package handlers

import (
	"github.com/gin-gonic/gin"

	"fixrx_backend/internal/middleware"
	"fixrx_backend/internal/services"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/internal/validator"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(v *validator.Validator, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(v),
		userService: userService,
	}
}

// RegisterRoutes mounts the public auth endpoints and the
// authenticated profile endpoints.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	users := r.Group("/users", authMW)
	{
		users.GET("/me", h.GetProfile)
		users.GET("/:id", h.GetPublicProfile)
	}
}

// Register creates an account and returns a signed token.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.userService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondCreated(c, resp)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.userService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

// GetProfile returns the caller's own account.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	resp, err := h.userService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

// GetPublicProfile returns the public summary of any active user.
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	resp, err := h.userService.GetPublicProfile(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}
