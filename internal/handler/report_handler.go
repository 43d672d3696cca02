package handler

import (
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves report recipients, the schedule singleton, scheduled
// task triggers and the on-demand delay scan.
type ReportHandler struct {
	svc      *service.ReportService
	delaySvc *service.DelayService
}

func NewReportHandler(svc *service.ReportService, delaySvc *service.DelayService) *ReportHandler {
	return &ReportHandler{svc: svc, delaySvc: delaySvc}
}

func (h *ReportHandler) ListRecipients(c *gin.Context) {
	recipients, err := h.svc.ListRecipients(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, gin.H{"recipients": recipients})
}

type addRecipientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *ReportHandler) AddRecipient(c *gin.Context) {
	var req addRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	recipient, err := h.svc.AddRecipient(c.Request.Context(), req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Created(c, recipient)
}

func (h *ReportHandler) RemoveRecipient(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Recipient ID is required")
		return
	}

	if err := h.svc.RemoveRecipient(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, nil)
}

// GetSchedule returns the schedule singleton, or null when never configured.
func (h *ReportHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.svc.GetSchedule(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, schedule)
}

func (h *ReportHandler) UpdateSchedule(c *gin.Context) {
	var settings entity.ScheduleSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	schedule, err := h.svc.UpdateSchedule(c.Request.Context(), settings)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, schedule)
}

type runTaskRequest struct {
	Task string `json:"task" binding:"required"`
}

// RunTask triggers one scheduled task immediately.
func (h *ReportHandler) RunTask(c *gin.Context) {
	var req runTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.RunTask(c.Request.Context(), req.Task)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, result)
}

// ScanDelays runs the delay scan against the current clock and returns the
// overdue entities without sending anything.
func (h *ReportHandler) ScanDelays(c *gin.Context) {
	delays, err := h.delaySvc.Scan(c.Request.Context(), time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, gin.H{
		"delays": delays,
		"count":  len(delays),
	})
}
