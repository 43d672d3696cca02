package handler

import (
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// TestPackHandler serves test pack and tag endpoints.
type TestPackHandler struct {
	svc *service.TestPackService
}

func NewTestPackHandler(svc *service.TestPackService) *TestPackHandler {
	return &TestPackHandler{svc: svc}
}

// List returns test packs, optionally filtered by associated ITR name.
func (h *TestPackHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	itrName := c.Query("itr")

	result, err := h.svc.List(c.Request.Context(), page, pageSize, itrName)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, result)
}

func (h *TestPackHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Test pack ID is required")
		return
	}

	pack, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, pack)
}

func (h *TestPackHandler) Create(c *gin.Context) {
	var req service.CreateTestPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	pack, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Created(c, pack)
}

func (h *TestPackHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Test pack ID is required")
		return
	}

	var req service.UpdateTestPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	pack, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, pack)
}

func (h *TestPackHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Test pack ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, nil)
}

// ListTags returns a test pack's tags.
func (h *TestPackHandler) ListTags(c *gin.Context) {
	packID := c.Param("id")
	if packID == "" {
		BadRequest(c, "Test pack ID is required")
		return
	}

	tags, err := h.svc.ListTags(c.Request.Context(), packID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, gin.H{"tags": tags})
}

func (h *TestPackHandler) CreateTag(c *gin.Context) {
	packID := c.Param("id")
	if packID == "" {
		BadRequest(c, "Test pack ID is required")
		return
	}

	var body struct {
		TagName string `json:"tag_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tag, err := h.svc.CreateTag(c.Request.Context(), service.CreateTagRequest{
		TestPackID: packID,
		TagName:    body.TagName,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Created(c, tag)
}

// ReleaseTag marks a tag released; when the last tag goes, the pack follows.
func (h *TestPackHandler) ReleaseTag(c *gin.Context) {
	tagID := c.Param("tagId")
	if tagID == "" {
		BadRequest(c, "Tag ID is required")
		return
	}

	tag, err := h.svc.ReleaseTag(c.Request.Context(), tagID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, tag)
}

func (h *TestPackHandler) DeleteTag(c *gin.Context) {
	tagID := c.Param("tagId")
	if tagID == "" {
		BadRequest(c, "Tag ID is required")
		return
	}

	if err := h.svc.DeleteTag(c.Request.Context(), tagID); err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, nil)
}
