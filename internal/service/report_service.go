package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/mailer"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduled task names, matching what the external job runner posts.
const (
	TaskCheckDelays       = "check_delays"
	TaskSendDailyReport   = "send_daily_report"
	TaskSendWeeklyReport  = "send_weekly_report"
	TaskSendMonthlyReport = "send_monthly_report"
)

// TaskResult summarizes one scheduled-task invocation for observability.
type TaskResult struct {
	Task       string `json:"task"`
	Message    string `json:"message"`
	Delays     int    `json:"delays,omitempty"`
	Projects   int    `json:"projects_count,omitempty"`
	ITRs       int    `json:"itrs_count,omitempty"`
	Recipients int    `json:"recipients,omitempty"`
	Sent       bool   `json:"sent"`
}

// ReportService owns the report distribution list, the schedule singleton,
// and the scheduled tasks that fan out delay alerts and cadence reports.
// There is no last-sent bookkeeping: invoking a task twice on the same day
// sends twice. The job runner is expected to fire once per day.
type ReportService struct {
	reportRepo  *repository.ReportRepository
	projectRepo *repository.ProjectRepository
	itrRepo     *repository.ITRRepository
	delaySvc    *DelayService
	mail        *mailer.Client
	activity    *ActivityService
	logger      *zap.Logger
	nowFn       func() time.Time
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	projectRepo *repository.ProjectRepository,
	itrRepo *repository.ITRRepository,
	delaySvc *DelayService,
	mail *mailer.Client,
	activity *ActivityService,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		projectRepo: projectRepo,
		itrRepo:     itrRepo,
		delaySvc:    delaySvc,
		mail:        mail,
		activity:    activity,
		logger:      logger,
		nowFn:       time.Now,
	}
}

// Recipients

func (s *ReportService) ListRecipients(ctx context.Context) ([]entity.ReportRecipient, error) {
	return s.reportRepo.ListRecipients(ctx)
}

func (s *ReportService) AddRecipient(ctx context.Context, email string) (*entity.ReportRecipient, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	recipient := &entity.ReportRecipient{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := s.reportRepo.AddRecipient(ctx, recipient); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: recipient %q already registered", ErrValidation, email)
		}
		return nil, err
	}
	return recipient, nil
}

func (s *ReportService) RemoveRecipient(ctx context.Context, id string) error {
	return s.reportRepo.RemoveRecipient(ctx, id)
}

// Schedule singleton

// GetSchedule returns the schedule row, nil when none has been written yet.
func (s *ReportService) GetSchedule(ctx context.Context) (*entity.ReportSchedule, error) {
	schedule, err := s.reportRepo.GetSchedule(ctx)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return schedule, nil
}

// UpdateSchedule writes the settings singleton: created on first write,
// updated in place afterwards, never a second row.
func (s *ReportService) UpdateSchedule(ctx context.Context, settings entity.ScheduleSettings) (*entity.ReportSchedule, error) {
	existing, err := s.reportRepo.GetSchedule(ctx)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		existing.Settings = settings
		existing.UpdatedAt = now
		if err := s.reportRepo.UpdateSchedule(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	schedule := &entity.ReportSchedule{
		ID:        uuid.New().String(),
		Settings:  settings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reportRepo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Cadence gate

// shouldRun decides whether a cadence fires at the given moment. Time-of-day
// in the settings is advisory; only enablement and the day condition gate
// here. The invocation cadence supplies the clock.
func shouldRun(cadence string, settings entity.ScheduleSettings, now time.Time) (bool, string) {
	switch cadence {
	case entity.ReportCadenceDaily:
		if !settings.Daily.Enabled {
			return false, "Daily reports are disabled"
		}
		return true, ""
	case entity.ReportCadenceWeekly:
		if !settings.Weekly.Enabled {
			return false, "Weekly reports are disabled"
		}
		weekday := now.Weekday().String()
		if !strings.EqualFold(weekday, settings.Weekly.Day) {
			return false, fmt.Sprintf("Weekly reports are scheduled for %s, not %s", settings.Weekly.Day, weekday)
		}
		return true, ""
	case entity.ReportCadenceMonthly:
		if !settings.Monthly.Enabled {
			return false, "Monthly reports are disabled"
		}
		dayOfMonth := strconv.Itoa(now.Day())
		if dayOfMonth != settings.Monthly.Day {
			return false, fmt.Sprintf("Monthly reports are scheduled for day %s, not day %s", settings.Monthly.Day, dayOfMonth)
		}
		return true, ""
	default:
		return false, fmt.Sprintf("Unknown cadence: %s", cadence)
	}
}

// Tasks

// RunTask executes one scheduled task by name. Errors are returned alongside
// a result carrying whatever was computed before the failure; the caller logs
// and carries on, since a failed send must never take the host process down.
func (s *ReportService) RunTask(ctx context.Context, task string) (*TaskResult, error) {
	if err := s.activity.Log(ctx, "SCHEDULED_TASK_"+strings.ToUpper(task), "system", "", entity.JSONB{
		"task":         task,
		"triggered_at": s.nowFn().Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn("failed to log scheduled task", zap.String("task", task), zap.Error(err))
	}

	switch task {
	case TaskCheckDelays:
		return s.checkDelays(ctx)
	case TaskSendDailyReport:
		return s.sendCadenceReport(ctx, entity.ReportCadenceDaily)
	case TaskSendWeeklyReport:
		return s.sendCadenceReport(ctx, entity.ReportCadenceWeekly)
	case TaskSendMonthlyReport:
		return s.sendCadenceReport(ctx, entity.ReportCadenceMonthly)
	default:
		return nil, fmt.Errorf("%w: unknown task %q", ErrValidation, task)
	}
}

// checkDelays scans for overdue entities and mails the distribution list.
// Zero delays short-circuits; zero recipients reports the count without
// sending; a send failure still reports the computed count.
func (s *ReportService) checkDelays(ctx context.Context) (*TaskResult, error) {
	result := &TaskResult{Task: TaskCheckDelays}

	delays, err := s.delaySvc.Scan(ctx, s.nowFn())
	if err != nil {
		return result, fmt.Errorf("scan delays: %w", err)
	}
	result.Delays = len(delays)

	if len(delays) == 0 {
		result.Message = "No delays detected"
		return result, nil
	}

	recipients, err := s.reportRepo.ListRecipients(ctx)
	if err != nil {
		return result, fmt.Errorf("list recipients: %w", err)
	}
	result.Recipients = len(recipients)

	if len(recipients) == 0 {
		result.Message = "No recipients configured for alerts"
		return result, nil
	}

	if s.mail == nil {
		result.Message = "Mailer not configured, alerts not sent"
		return result, nil
	}

	emails := make([]string, len(recipients))
	for i, r := range recipients {
		emails[i] = r.Email
	}

	subject := fmt.Sprintf("FOSSIL Energy Tracker - %d Delays Detected", len(delays))
	body, err := renderDelayAlert(delays)
	if err != nil {
		return result, fmt.Errorf("render delay alert: %w", err)
	}

	if err := s.mail.Send(ctx, emails, subject, body); err != nil {
		return result, fmt.Errorf("send delay alerts: %w", err)
	}
	result.Sent = true
	result.Message = "Delay alerts sent successfully"

	if err := s.activity.Log(ctx, "SEND_DELAY_ALERTS", "multiple", "", entity.JSONB{
		"delay_count": len(delays),
		"recipients":  emails,
	}); err != nil {
		s.logger.Warn("failed to log delay alerts", zap.Error(err))
	}

	return result, nil
}

// sendCadenceReport gates on the persisted schedule settings, then gathers
// all projects and ITRs into a tabular summary for the distribution list.
func (s *ReportService) sendCadenceReport(ctx context.Context, cadence string) (*TaskResult, error) {
	result := &TaskResult{Task: "send_" + cadence + "_report"}

	schedule, err := s.GetSchedule(ctx)
	if err != nil {
		return result, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		result.Message = "No report schedule found"
		return result, nil
	}

	fire, reason := shouldRun(cadence, schedule.Settings, s.nowFn())
	if !fire {
		result.Message = reason
		return result, nil
	}

	recipients, err := s.reportRepo.ListRecipients(ctx)
	if err != nil {
		return result, fmt.Errorf("list recipients: %w", err)
	}
	result.Recipients = len(recipients)
	if len(recipients) == 0 {
		result.Message = "No recipients configured for reports"
		return result, nil
	}

	projects, err := s.projectRepo.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("list projects: %w", err)
	}
	itrs, err := s.itrRepo.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("list itrs: %w", err)
	}
	result.Projects = len(projects)
	result.ITRs = len(itrs)

	if s.mail == nil {
		result.Message = "Mailer not configured, report not sent"
		return result, nil
	}

	emails := make([]string, len(recipients))
	for i, r := range recipients {
		emails[i] = r.Email
	}

	title := strings.ToUpper(cadence[:1]) + cadence[1:]
	subject := fmt.Sprintf("FOSSIL Energy Tracker - %s Report", title)
	body, err := renderCadenceReport(title, projects, itrs)
	if err != nil {
		return result, fmt.Errorf("render %s report: %w", cadence, err)
	}

	if err := s.mail.Send(ctx, emails, subject, body); err != nil {
		return result, fmt.Errorf("send %s report: %w", cadence, err)
	}
	result.Sent = true
	result.Message = fmt.Sprintf("%s report sent successfully", title)

	if err := s.activity.Log(ctx, "SEND_"+strings.ToUpper(cadence)+"_REPORT", "system", "", entity.JSONB{
		"projects_count": len(projects),
		"itrs_count":     len(itrs),
		"recipients":     emails,
	}); err != nil {
		s.logger.Warn("failed to log report", zap.String("cadence", cadence), zap.Error(err))
	}

	return result, nil
}

// HTML rendering

var delayAlertTmpl = template.Must(template.New("delayAlert").Funcs(template.FuncMap{
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(`<h1>FOSSIL Energy Tracker - Delay Alerts</h1>
<p>The following delays have been detected in your projects:</p>
<ul>
{{range .}}  <li>{{title .EntityType}} "{{.EntityName}}" is delayed (due {{date .DueDate}})</li>
{{end}}</ul>
<p>Please log in to the FOSSIL Energy Tracker application to take action.</p>
<p>This is an automated message, please do not reply.</p>`))

func renderDelayAlert(delays []Delay) (string, error) {
	var buf bytes.Buffer
	if err := delayAlertTmpl.Execute(&buf, delays); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type cadenceReportData struct {
	Title    string
	Projects []entity.Project
	ITRs     []entity.ITR
}

var cadenceReportTmpl = template.Must(template.New("cadenceReport").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return "N/A"
		}
		return t.Format("2006-01-02")
	},
}).Parse(`<h1>FOSSIL Energy Tracker - {{.Title}} Report</h1>
<h2>Projects</h2>
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>Name</th><th>Status</th><th>Progress</th><th>Start Date</th><th>End Date</th></tr>
{{range .Projects}}  <tr><td>{{.Name}}</td><td>{{.Status}}</td><td>{{.Progress}}%</td><td>{{date .StartDate}}</td><td>{{date .EndDate}}</td></tr>
{{end}}</table>
<h2>ITRs</h2>
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>Name</th><th>Status</th><th>Progress</th><th>Start Date</th><th>End Date</th></tr>
{{range .ITRs}}  <tr><td>{{.Name}}</td><td>{{.Status}}</td><td>{{.Progress}}%</td><td>{{date .StartDate}}</td><td>{{date .EndDate}}</td></tr>
{{end}}</table>
<p>Please log in to the FOSSIL Energy Tracker application for more detailed information.</p>
<p>This is an automated {{.Title}} report, please do not reply.</p>`))

func renderCadenceReport(title string, projects []entity.Project, itrs []entity.ITR) (string, error) {
	var buf bytes.Buffer
	err := cadenceReportTmpl.Execute(&buf, cadenceReportData{
		Title:    title,
		Projects: projects,
		ITRs:     itrs,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
