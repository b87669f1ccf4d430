// Package scheduler runs the periodic reminder cycle: on every tick it
// reloads settings, collects the services falling due within the reminder
// window and hands them to the notification dispatcher.
package scheduler

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/config"
	"github.com/biomeddev/equipment-maintenance/internal/models"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
	"github.com/biomeddev/equipment-maintenance/internal/status"
)

// Dispatcher delivers one reminder batch.
type Dispatcher interface {
	Dispatch(ctx context.Context, entries []models.UpcomingEntry) error
}

// Scheduler drives the reminder cycle on a fixed interval.
type Scheduler struct {
	registry   *registry.Registry
	loadConfig func() config.Config
	dispatcher func(cfg config.Config) Dispatcher
	now        func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New returns a Scheduler. loadConfig runs at the start of every tick, so
// settings changed on disk take effect without a restart. dispatcher builds
// the delivery channels from that fresh snapshot.
func New(reg *registry.Registry, loadConfig func() config.Config, dispatcher func(cfg config.Config) Dispatcher) *Scheduler {
	return &Scheduler{
		registry:   reg,
		loadConfig: loadConfig,
		dispatcher: dispatcher,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
}

// Run blocks, firing a reminder cycle every configured interval until the
// context is cancelled or Stop is called. The first cycle runs immediately
// on startup; a failed cycle is logged and the loop keeps going.
func (s *Scheduler) Run(ctx context.Context) {
	interval := tickInterval(s.loadConfig())
	log.Infof("reminder scheduler started, interval %s", interval)

	if err := s.RunTick(ctx); err != nil {
		log.WithError(err).Error("reminder cycle failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("reminder scheduler stopped: context cancelled")
			return
		case <-s.stopCh:
			log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunTick(ctx); err != nil {
				log.WithError(err).Error("reminder cycle failed")
			}
			if next := tickInterval(s.loadConfig()); next != interval {
				interval = next
				ticker.Reset(interval)
				log.Infof("reminder interval changed to %s", interval)
			}
		}
	}
}

// Stop terminates Run. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// RunTick executes one reminder cycle: reload settings, collect the window,
// dispatch if anything is due. A record is re-sent on every tick whose
// window still covers it; no sent state is persisted.
func (s *Scheduler) RunTick(ctx context.Context) error {
	cfg := s.loadConfig()

	ppm := s.registry.ListPPM(ctx)
	upcoming := status.Upcoming(ppm, cfg.ReminderDays, s.now())
	if len(upcoming) == 0 {
		log.Debugf("no services due within %d days, skipping reminders", cfg.ReminderDays)
		return nil
	}

	log.Infof("%d services due within %d days, dispatching reminders", len(upcoming), cfg.ReminderDays)
	return s.dispatcher(cfg).Dispatch(ctx, upcoming)
}

func tickInterval(cfg config.Config) time.Duration {
	hours := cfg.SchedulerInterval
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
