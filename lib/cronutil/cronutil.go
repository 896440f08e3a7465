// Package cronutil wraps robfig/cron behind a tiny interface so that
// services can register fixed schedules without caring about the
// underlying scheduler, and so tests can fire jobs by hand.
package cronutil

import (
	"log/slog"

	"evowatch-backend/lib/timezone"

	"github.com/robfig/cron/v3"
)

// Scheduler is what anything depending on jobs firing on a cron
// schedule should accept.
type Scheduler interface {
	Cron(spec string, callback func()) error
}

// StandardScheduler implements Scheduler using github.com/robfig/cron/v3.
type StandardScheduler struct {
	cron *cron.Cron
}

func NewStandardScheduler() StandardScheduler {
	c := cron.New(
		cron.WithLogger(cronSlog{}),
		cron.WithLocation(timezone.Location),
	)
	c.Start()
	return StandardScheduler{cron: c}
}

func (s StandardScheduler) Cron(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	return err
}

func (s StandardScheduler) Stop() {
	s.cron.Stop()
}

type cronSlog struct{}

func (cronSlog) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronSlog) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"err", err}, keysAndValues...)
	slog.Error("cron: "+msg, args...)
}
