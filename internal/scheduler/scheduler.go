package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// ReportGenerator produces the end-of-day ledger report.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, now time.Time) (models.DailyReport, string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reports  ReportGenerator
	schedule string
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reports ReportGenerator, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// Standard 5 field parser: min, hour, dom, month, dow.
	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:     c,
		reports:  reports,
		schedule: cfg.CronSchedule,
		location: location,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the daily report job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, text, err := s.reports.GenerateDailyReport(ctx, s.now().In(s.location))
	if err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
		return
	}

	s.logger.Info("daily report generated",
		zap.String("date", report.Date),
		zap.Int("items", report.ItemCount),
		zap.Strings("negative_items", report.NegativeItems),
		zap.String("digest", text))
}
