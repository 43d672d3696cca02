package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService renders entity lists to Excel workbooks. When a MinIO bucket
// is configured, every export is also archived there.
type ExportService struct {
	repos       *repository.Repositories
	minioClient *minio.Client
	bucket      string
	activity    *ActivityService
	logger      *zap.Logger
}

func NewExportService(repos *repository.Repositories, minioClient *minio.Client, bucket string, activity *ActivityService, logger *zap.Logger) *ExportService {
	return &ExportService{
		repos:       repos,
		minioClient: minioClient,
		bucket:      bucket,
		activity:    activity,
		logger:      logger,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ExportEntities builds a workbook for one entity type and returns it with a
// suggested filename.
func (s *ExportService) ExportEntities(ctx context.Context, entityType string) (*excelize.File, string, error) {
	var headers []string
	var rows [][]interface{}

	switch entityType {
	case "projects":
		projects, err := s.repos.Project.ListAll(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("list projects: %w", err)
		}
		headers = []string{"ID", "Name", "Location", "Status", "Progress", "Start Date", "End Date"}
		for _, p := range projects {
			rows = append(rows, []interface{}{p.ID, p.Name, p.Location, p.Status, strconv.Itoa(p.Progress) + "%", formatDate(p.StartDate), formatDate(p.EndDate)})
		}
	case "systems":
		systems, err := s.repos.System.ListAll(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("list systems: %w", err)
		}
		headers = []string{"ID", "Name", "Project", "Completion Rate", "Start Date", "End Date"}
		for _, sys := range systems {
			rows = append(rows, []interface{}{sys.ID, sys.Name, sys.ProjectID, strconv.Itoa(sys.CompletionRate) + "%", formatDate(sys.StartDate), formatDate(sys.EndDate)})
		}
	case "subsystems":
		subsystems, err := s.repos.Subsystem.ListAll(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("list subsystems: %w", err)
		}
		headers = []string{"ID", "Name", "System", "Completion Rate", "Start Date", "End Date"}
		for _, sub := range subsystems {
			rows = append(rows, []interface{}{sub.ID, sub.Name, sub.SystemID, strconv.Itoa(sub.CompletionRate) + "%", formatDate(sub.StartDate), formatDate(sub.EndDate)})
		}
	case "itrs":
		itrs, err := s.repos.ITR.ListAll(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("list itrs: %w", err)
		}
		headers = []string{"ID", "Name", "Subsystem", "Quantity", "Status", "Progress", "Start Date", "End Date", "Assigned To"}
		for _, itr := range itrs {
			rows = append(rows, []interface{}{itr.ID, itr.Name, itr.SubsystemID, itr.Quantity, itr.Status, strconv.Itoa(itr.Progress) + "%", formatDate(itr.StartDate), formatDate(itr.EndDate), itr.AssignedTo})
		}
	case "test_packs":
		packs, err := s.repos.TestPack.ListAll(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("list test packs: %w", err)
		}
		headers = []string{"ID", "Nombre Paquete", "ITR Asociado", "Sistema", "Subsistema", "Estado"}
		for _, pack := range packs {
			rows = append(rows, []interface{}{pack.ID, pack.NombrePaquete, pack.ITRAsociado, pack.Sistema, pack.Subsistema, pack.Estado})
		}
	case "users":
		users, err := s.repos.User.ListAll(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("list users: %w", err)
		}
		headers = []string{"ID", "Full Name", "Email", "Role"}
		for _, u := range users {
			rows = append(rows, []interface{}{u.ID, u.FullName, u.Email, u.Role})
		}
	default:
		return nil, "", fmt.Errorf("%w: unknown entity type %q", ErrValidation, entityType)
	}

	f, err := buildWorkbook(entityType, headers, rows)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-%s.xlsx", entityType, time.Now().Format("20060102-150405"))

	if s.minioClient != nil && s.bucket != "" {
		if err := s.archive(ctx, f, filename); err != nil {
			// Archive failures don't block the download.
			s.logger.Warn("failed to archive export", zap.String("filename", filename), zap.Error(err))
		}
	}

	_ = s.activity.Log(ctx, "EXPORT", entityType, "", entity.JSONB{"rows": len(rows), "filename": filename})

	return f, filename, nil
}

func buildWorkbook(sheetTitle string, headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := sheetTitle
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		f.SetColWidth(sheet, col, col, 18)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			col, _ := excelize.ColumnNumberToName(colIdx + 1)
			cell := fmt.Sprintf("%s%d", col, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// archive uploads a finished workbook to the reports bucket.
func (s *ExportService) archive(ctx context.Context, f *excelize.File, filename string) error {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}

	objectName := "reports/" + filename
	_, err := s.minioClient.PutObject(ctx, s.bucket, objectName, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return fmt.Errorf("upload workbook: %w", err)
	}

	s.logger.Info("export archived", zap.String("bucket", s.bucket), zap.String("object", objectName))
	return nil
}
