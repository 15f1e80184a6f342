package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-console/pkg/pagination"
)

// CrudHandler serves the admin views of one backend resource
type CrudHandler[T any] struct {
	service *service.AdminService[T]
	name    string
}

// NewCrudHandler creates a handler for a resource; name is used in messages
func NewCrudHandler[T any](svc *service.AdminService[T], name string) *CrudHandler[T] {
	return &CrudHandler[T]{service: svc, name: name}
}

// List returns every item, forwarding the query string to the backend
func (h *CrudHandler[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.name+" retrieved successfully", items)
}

// ListPage returns one page of items
func (h *CrudHandler[T]) ListPage(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.ListPage(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, h.name+" retrieved successfully", result)
}

// Get returns one item
func (h *CrudHandler[T]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, "ID is required")
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.name+" retrieved successfully", item)
}

// Create creates an item for the admin's business
func (h *CrudHandler[T]) Create(c *gin.Context) {
	businessID, err := BusinessID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.Create(c.Request.Context(), businessID, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, h.name+" created successfully", item)
}

// Update patches an item
func (h *CrudHandler[T]) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, "ID is required")
		return
	}
	businessID, err := BusinessID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.Update(c.Request.Context(), businessID, id, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.name+" updated successfully", item)
}

// Delete deletes an item
func (h *CrudHandler[T]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, "ID is required")
		return
	}
	businessID, err := BusinessID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), businessID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterRead mounts the read routes of the resource
func (h *CrudHandler[T]) RegisterRead(rg *gin.RouterGroup, paginated bool) {
	if paginated {
		rg.GET("", h.ListPage)
	} else {
		rg.GET("", h.List)
	}
	rg.GET("/:id", h.Get)
}

// RegisterWrite mounts the write routes of the resource
func (h *CrudHandler[T]) RegisterWrite(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
