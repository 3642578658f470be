package jobs

import (
	"context"
	"log/slog"
	"time"

	"insights/internal/domain/analytics"
	"insights/internal/platform/config"
)

const JobWeeklyReport = "weekly_report"

type job struct {
	Type       string
	EmployeeID string
	Run        func(context.Context) error
}

// EmployeeLister is the slice of the data store the sweep needs.
type EmployeeLister interface {
	ActiveEmployees(ctx context.Context) ([]analytics.Employee, error)
}

// Service runs the weekly report sweep: on snapshot-eligible days it pushes
// every active employee through the orchestrator, which persists snapshots
// via its own policy. Work is queued so a slow narrative provider never
// blocks the scheduler tick.
type Service struct {
	Store        EmployeeLister
	Orchestrator *analytics.Orchestrator
	Cfg          config.Config
	Policy       analytics.SnapshotPolicy
	queue        chan job
	lastSweepDay string
}

func New(store EmployeeLister, orchestrator *analytics.Orchestrator, cfg config.Config, policy analytics.SnapshotPolicy) *Service {
	return &Service{
		Store:        store,
		Orchestrator: orchestrator,
		Cfg:          cfg,
		Policy:       policy,
		queue:        make(chan job, 256),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.WeeklyReportInterval > 0 && s.Policy != nil {
		go s.scheduleSweeps(ctx, s.Cfg.WeeklyReportInterval)
	}
}

func (s *Service) Enqueue(j job) {
	select {
	case s.queue <- j:
	default:
		slog.Warn("job queue full", "jobType", j.Type, "employeeId", j.EmployeeID)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if err := j.Run(ctx); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "employeeId", j.EmployeeID, "err", err)
			}
		}
	}
}

func (s *Service) scheduleSweeps(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, time.Now().UTC())
		}
	}
}

// sweep enqueues one report per active employee at most once per eligible
// day.
func (s *Service) sweep(ctx context.Context, now time.Time) {
	if !s.Policy(now) {
		return
	}
	day := now.Format("2006-01-02")
	if s.lastSweepDay == day {
		return
	}
	s.lastSweepDay = day

	employees, err := s.Store.ActiveEmployees(ctx)
	if err != nil {
		slog.Warn("weekly report sweep employee lookup failed", "err", err)
		return
	}
	slog.Info("weekly report sweep", "day", day, "employees", len(employees))

	for _, emp := range employees {
		employeeID := emp.ID
		s.Enqueue(job{
			Type:       JobWeeklyReport,
			EmployeeID: employeeID,
			Run: func(ctx context.Context) error {
				_, err := s.Orchestrator.GenerateReport(ctx, analytics.ReportRequest{
					Scope:      analytics.ScopeEmployee,
					EmployeeID: employeeID,
					Period:     analytics.PeriodLastWeek,
					Template:   s.Cfg.WeeklyReportTemplate,
					AsOf:       now,
				})
				return err
			},
		})
	}
}
