package handler

import (
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams entity exports as Excel downloads.
type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export renders one entity type to a workbook and streams it back.
func (h *ExportHandler) Export(c *gin.Context) {
	entityType := c.Param("type")
	if entityType == "" {
		BadRequest(c, "Entity type is required")
		return
	}

	f, filename, err := h.svc.ExportEntities(c.Request.Context(), entityType)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Failed to write workbook: "+err.Error())
		return
	}
}
