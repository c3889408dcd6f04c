package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// DigestRenderer builds the morning message.
type DigestRenderer interface {
	DailyDigest(ctx context.Context) (string, error)
}

// Sender delivers a message to WhatsApp.
type Sender interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// HistoryExporter copies finished batches to the history sheet.
type HistoryExporter interface {
	Export(ctx context.Context) (int, error)
}

// Scheduler runs the daily digest and the history export on cron schedules.
// Either job is skipped when its collaborators are nil.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.Config
	digest   DigestRenderer
	sender   Sender
	exporter HistoryExporter
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance running in loc.
func NewScheduler(cfg config.Config, loc *time.Location, digest DigestRenderer, sender Sender, exporter HistoryExporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		digest:   digest,
		sender:   sender,
		exporter: exporter,
		logger:   logger,
	}
}

// Start registers the configured jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.digest != nil && s.sender != nil && s.cfg.WhatsApp.NotifyTo != "" {
		if _, err := s.cron.AddFunc(s.cfg.Schedule.ReminderCron, s.sendDailyDigest); err != nil {
			return fmt.Errorf("schedule daily digest: %w", err)
		}
		s.logger.Info("daily digest scheduled", zap.String("cron", s.cfg.Schedule.ReminderCron))
	}

	if s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.Schedule.HistoryExportCron, s.exportHistory); err != nil {
			return fmt.Errorf("schedule history export: %w", err)
		}
		s.logger.Info("history export scheduled", zap.String("cron", s.cfg.Schedule.HistoryExportCron))
	}

	s.cron.Start()
	return nil
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.SendDailyDigest(ctx); err != nil {
		s.logger.Error("failed to send daily digest", zap.Error(err))
		return
	}
	s.logger.Info("daily digest sent")
}

// SendDailyDigest renders and sends the digest once.
func (s *Scheduler) SendDailyDigest(ctx context.Context) error {
	text, err := s.digest.DailyDigest(ctx)
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	req := models.OutboundMessageRequest{
		To:      s.cfg.WhatsApp.NotifyTo,
		Message: text,
	}
	if err := s.sender.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func (s *Scheduler) exportHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	added, err := s.exporter.Export(ctx)
	if err != nil {
		s.logger.Error("failed to export history", zap.Error(err))
		return
	}
	s.logger.Info("history export finished", zap.Int("added", added))
}
