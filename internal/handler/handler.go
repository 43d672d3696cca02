package handler

import (
	"errors"
	"strconv"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers is the HTTP handler registry.
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Project   *ProjectHandler
	System    *SystemHandler
	Subsystem *SubsystemHandler
	ITR       *ITRHandler
	TestPack  *TestPackHandler
	Report    *ReportHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
}

// NewHandlers creates the handler registry.
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Project:   NewProjectHandler(svc.Project),
		System:    NewSystemHandler(svc.System),
		Subsystem: NewSubsystemHandler(svc.Subsystem),
		ITR:       NewITRHandler(svc.ITR, svc.Signature),
		TestPack:  NewTestPackHandler(svc.TestPack),
		Report:    NewReportHandler(svc.Report, svc.Delay),
		Dashboard: NewDashboardHandler(svc.Dashboard, svc.Activity),
		Export:    NewExportHandler(svc.Export),
	}
}

// Response is the common response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error response. The HTTP status is the leading three
// digits of the business code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// handleServiceError maps service-layer errors onto the response envelope.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateSignature):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrHasChildren):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination parses page/page_size query parameters.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
