package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
)

// StatusBreakdown counts entities per lifecycle status.
type StatusBreakdown struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inprogress"`
	Complete   int64 `json:"complete"`
	Delayed    int64 `json:"delayed"`
}

// DashboardSummary is the aggregate snapshot behind the landing dashboard.
type DashboardSummary struct {
	TotalProjects   int64           `json:"total_projects"`
	TotalSystems    int64           `json:"total_systems"`
	TotalSubsystems int64           `json:"total_subsystems"`
	TotalITRs       int64           `json:"total_itrs"`
	TotalTestPacks  int64           `json:"total_test_packs"`
	TotalTags       int64           `json:"total_tags"`
	Projects        StatusBreakdown `json:"projects"`
	ITRs            StatusBreakdown `json:"itrs"`
	AvgProgress     float64         `json:"avg_progress"`
	PendingDelays   int             `json:"pending_delays"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// DashboardService aggregates cross-entity counts. Summaries are cached in
// Redis for a short window since every page load hits this endpoint.
type DashboardService struct {
	db       *gorm.DB
	rdb      *redis.Client
	delaySvc *DelayService
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client, delaySvc *DelayService) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, delaySvc: delaySvc}
}

// Summary returns the dashboard snapshot, serving from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var summary DashboardSummary
			if err := json.Unmarshal(cached, &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(summary); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL)
		}
	}

	return summary, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{GeneratedAt: time.Now().UTC()}
	db := s.db.WithContext(ctx)

	counts := []struct {
		table string
		dest  *int64
	}{
		{"projects", &summary.TotalProjects},
		{"systems", &summary.TotalSystems},
		{"subsystems", &summary.TotalSubsystems},
		{"itrs", &summary.TotalITRs},
		{"test_packs", &summary.TotalTestPacks},
		{"tags", &summary.TotalTags},
	}
	for _, c := range counts {
		if err := db.Table(c.table).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	projectStatuses, err := countByStatus(db, "projects")
	if err != nil {
		return nil, err
	}
	summary.Projects = projectStatuses

	itrStatuses, err := countByStatus(db, "itrs")
	if err != nil {
		return nil, err
	}
	summary.ITRs = itrStatuses

	var avg *float64
	if err := db.Table("projects").Select("AVG(progress)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		summary.AvgProgress = *avg
	}

	delays, err := s.delaySvc.Scan(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	summary.PendingDelays = len(delays)

	return summary, nil
}

func countByStatus(db *gorm.DB, table string) (StatusBreakdown, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Table(table).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return StatusBreakdown{}, err
	}

	var breakdown StatusBreakdown
	for _, row := range rows {
		switch row.Status {
		case "pending":
			breakdown.Pending = row.Count
		case "inprogress":
			breakdown.InProgress = row.Count
		case "complete":
			breakdown.Complete = row.Count
		case "delayed":
			breakdown.Delayed = row.Count
		}
	}
	return breakdown, nil
}
