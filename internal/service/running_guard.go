package service

import (
	"context"
	"sync"
)

// ExportedRunningGuard is an exported alias so _test packages can test the guard.
type ExportedRunningGuard = runningJobsGuard

// ─────────────────────────────────────────────────────────────
// runningJobsGuard — prevents concurrent execution of the same task
// ─────────────────────────────────────────────────────────────

// runningJobsGuard is a concurrency guard that ensures only one
// instance of a given task ID runs at a time. The autosave loop uses it
// to skip ticks while a flush is still writing, and shutdown uses
// WaitAll to drain in-flight work.
type runningJobsGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock attempts to mark taskID as running. Returns true if successful.
// Returns false if the task is already running.
func (g *runningJobsGuard) TryLock(taskID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[taskID]; ok {
		return false // already running
	}
	g.running[taskID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock marks the task as no longer running. Must be called after TryLock returns true.
func (g *runningJobsGuard) Unlock(taskID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, taskID)
	g.wg.Done()
}

// WaitAll blocks until all currently running tasks complete or ctx is cancelled.
func (g *runningJobsGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
