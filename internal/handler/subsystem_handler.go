package handler

import (
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// SubsystemHandler serves the subsystem CRUD endpoints.
type SubsystemHandler struct {
	svc *service.SubsystemService
}

func NewSubsystemHandler(svc *service.SubsystemService) *SubsystemHandler {
	return &SubsystemHandler{svc: svc}
}

// List returns subsystems, optionally scoped to one system.
func (h *SubsystemHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	systemID := c.Query("system_id")

	result, err := h.svc.List(c.Request.Context(), page, pageSize, systemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, result)
}

func (h *SubsystemHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Subsystem ID is required")
		return
	}

	subsystem, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, subsystem)
}

func (h *SubsystemHandler) Create(c *gin.Context) {
	var req service.CreateSubsystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	subsystem, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Created(c, subsystem)
}

func (h *SubsystemHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Subsystem ID is required")
		return
	}

	var req service.UpdateSubsystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	subsystem, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, subsystem)
}

func (h *SubsystemHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Subsystem ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, nil)
}
