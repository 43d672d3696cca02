package handler

import (
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// SystemHandler serves the system CRUD endpoints.
type SystemHandler struct {
	svc *service.SystemService
}

func NewSystemHandler(svc *service.SystemService) *SystemHandler {
	return &SystemHandler{svc: svc}
}

// List returns systems, optionally scoped to one project.
func (h *SystemHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	projectID := c.Query("project_id")

	result, err := h.svc.List(c.Request.Context(), page, pageSize, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, result)
}

func (h *SystemHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "System ID is required")
		return
	}

	system, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, system)
}

func (h *SystemHandler) Create(c *gin.Context) {
	var req service.CreateSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	system, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Created(c, system)
}

func (h *SystemHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "System ID is required")
		return
	}

	var req service.UpdateSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	system, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, system)
}

func (h *SystemHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "System ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, nil)
}
