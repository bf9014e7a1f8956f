package service

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Autosave — periodic flush of dirty documents
// ─────────────────────────────────────────────────────────────

// DefaultAutosaveSpec is the flush cadence when the caller passes none.
const DefaultAutosaveSpec = "@every 30s"

// Autosave periodically persists every open project with unsaved
// edits. A run that overlaps a still-running flush is skipped.
type Autosave struct {
	builder *BuilderService
	sched   *cron.Cron
	guard   runningJobsGuard
}

// NewAutosave creates an Autosave for the given builder sessions.
func NewAutosave(builder *BuilderService) *Autosave {
	return &Autosave{builder: builder}
}

// Start schedules the flush loop. spec is a cron expression or an
// @every duration; empty means DefaultAutosaveSpec.
func (a *Autosave) Start(spec string) error {
	if spec == "" {
		spec = DefaultAutosaveSpec
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, a.runOnce); err != nil {
		return err
	}
	c.Start()
	a.sched = c
	return nil
}

// Stop halts the schedule and waits for an in-flight flush.
func (a *Autosave) Stop(ctx context.Context) {
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
	a.guard.WaitAll(ctx)
}

func (a *Autosave) runOnce() {
	if !a.guard.TryLock("autosave") {
		return // previous flush still writing
	}
	defer a.guard.Unlock("autosave")

	if a.builder.DirtyCount() == 0 {
		return
	}
	if err := a.builder.FlushAll(); err != nil {
		log.Printf("autosave: %v", err)
	}
}
