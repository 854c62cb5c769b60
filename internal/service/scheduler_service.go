package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 30 * time.Second

// SchedulerService wraps cron-based maintenance jobs.
type SchedulerService struct {
	cron *cron.Cron
	log  *logrus.Entry
}

func NewSchedulerService(loc *time.Location, log *logrus.Entry) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.WithField("component", "scheduler"),
	}
}

// Maintenance lists the periodic jobs of the service. Zero values disable a
// job.
type Maintenance struct {
	AuditInterval time.Duration
	Audit         func(ctx context.Context) (Report, error)
	PurgeAt       string
	Purge         func(ctx context.Context) (int64, error)
}

// Register schedules the configured maintenance jobs.
func (s *SchedulerService) Register(m Maintenance) error {
	if m.AuditInterval > 0 && m.Audit != nil {
		if _, err := s.ScheduleInterval(m.AuditInterval, s.job("audit", func(ctx context.Context) error {
			_, err := m.Audit(ctx)
			return err
		})); err != nil {
			return fmt.Errorf("schedule audit: %w", err)
		}
	}
	if m.PurgeAt != "" && m.Purge != nil {
		if _, err := s.ScheduleDaily(m.PurgeAt, s.job("purge", func(ctx context.Context) error {
			n, err := m.Purge(ctx)
			if err == nil {
				s.log.WithField("purged", n).Info("expired verification hashes purged")
			}
			return err
		})); err != nil {
			return fmt.Errorf("schedule purge: %w", err)
		}
	}
	return nil
}

func (s *SchedulerService) job(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.WithError(err).WithField("job", name).Error("scheduled job failed")
		}
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

func (s *SchedulerService) Entries() int {
	return len(s.cron.Entries())
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
