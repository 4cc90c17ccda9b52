package handlers

import (
	"github.com/gin-gonic/gin"

	"fixrx_backend/internal/services"
	"fixrx_backend/internal/validator"
)

type CatalogHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(v *validator.Validator, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(v),
		catalogService: catalogService,
	}
}

// RegisterRoutes mounts the read-only catalog endpoints. The catalog
// is public: browsing categories and services needs no account.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("/categories", h.ListCategories)
		catalog.GET("/services", h.ListServices)
		catalog.GET("/services/:id", h.GetService)
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.catalogService.ListCategories(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

// ListServices returns services, optionally filtered by category_id.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	resp, err := h.catalogService.ListServices(h.GetDB(c), c.Query("category_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	resp, err := h.catalogService.GetService(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}
