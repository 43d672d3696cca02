package handler

import (
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// ITRHandler serves ITR CRUD plus the signature workflow endpoints.
type ITRHandler struct {
	svc    *service.ITRService
	sigSvc *service.SignatureService
}

func NewITRHandler(svc *service.ITRService, sigSvc *service.SignatureService) *ITRHandler {
	return &ITRHandler{svc: svc, sigSvc: sigSvc}
}

// List returns ITRs, optionally scoped to one subsystem.
func (h *ITRHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	subsystemID := c.Query("subsystem_id")

	result, err := h.svc.List(c.Request.Context(), page, pageSize, subsystemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, result)
}

func (h *ITRHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "ITR ID is required")
		return
	}

	itr, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, itr)
}

func (h *ITRHandler) Create(c *gin.Context) {
	var req service.CreateITRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	itr, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Created(c, itr)
}

func (h *ITRHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "ITR ID is required")
		return
	}

	var req service.UpdateITRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	itr, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, itr)
}

func (h *ITRHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "ITR ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, nil)
}

type signRequest struct {
	Role string `json:"role" binding:"required"`
}

// Sign records one signature for the authenticated user. A second distinct
// role completes the ITR.
func (h *ITRHandler) Sign(c *gin.Context) {
	itrID := c.Param("id")
	if itrID == "" {
		BadRequest(c, "ITR ID is required")
		return
	}

	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID := GetUserID(c)
	if userID == "" {
		Unauthorized(c, "Not authenticated")
		return
	}

	sig, err := h.sigSvc.Sign(c.Request.Context(), itrID, userID, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Created(c, sig)
}

// ListSignatures returns an ITR's signatures in signing order.
func (h *ITRHandler) ListSignatures(c *gin.Context) {
	itrID := c.Param("id")
	if itrID == "" {
		BadRequest(c, "ITR ID is required")
		return
	}

	sigs, err := h.sigSvc.ListByITR(c.Request.Context(), itrID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, gin.H{"signatures": sigs})
}

// RevokeSignature removes a signature and drops the ITR back to in progress.
func (h *ITRHandler) RevokeSignature(c *gin.Context) {
	sigID := c.Param("sigId")
	if sigID == "" {
		BadRequest(c, "Signature ID is required")
		return
	}

	if err := h.sigSvc.Revoke(c.Request.Context(), sigID); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, nil)
}
