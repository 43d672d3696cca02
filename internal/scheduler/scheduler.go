package scheduler

import (
	"context"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/config"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the recurring report tasks on cron schedules. Cadence
// gating (which weekday, which day of month) is decided by the report
// service against the stored schedule; the cron entries just fire the
// candidate tasks.
type Scheduler struct {
	cron      *cron.Cron
	reportSvc *service.ReportService
	cfg       *config.SchedulerConfig
	logger    *zap.Logger
}

func New(reportSvc *service.ReportService, cfg *config.SchedulerConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		reportSvc: reportSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the task entries and starts the cron loop.
func (s *Scheduler) Start() error {
	entries := []struct {
		spec string
		task string
	}{
		{s.cfg.DelayCron, service.TaskCheckDelays},
		{s.cfg.DailyCron, service.TaskSendDailyReport},
		{s.cfg.WeeklyCron, service.TaskSendWeeklyReport},
		{s.cfg.MonthlyCron, service.TaskSendMonthlyReport},
	}

	for _, e := range entries {
		if e.spec == "" {
			continue
		}
		task := e.task
		if _, err := s.cron.AddFunc(e.spec, func() { s.run(task) }); err != nil {
			return err
		}
		s.logger.Info("scheduled task registered",
			zap.String("task", task),
			zap.String("spec", e.spec))
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run(task string) {
	result, err := s.reportSvc.RunTask(context.Background(), task)
	if err != nil {
		s.logger.Error("scheduled task failed",
			zap.String("task", task),
			zap.Error(err))
		return
	}

	s.logger.Info("scheduled task finished",
		zap.String("task", task),
		zap.String("message", result.Message),
		zap.Bool("sent", result.Sent))
}
