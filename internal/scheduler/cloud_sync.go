// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polyglottos/dataport/internal/importer"
	"github.com/polyglottos/dataport/internal/storage"
)

// CloudSyncScheduler periodically pushes the active user's local records
// to the cloud backend.
type CloudSyncScheduler struct {
	importService *importer.Service
	target        storage.Service
	schedule      string
	enabled       bool

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
}

// NewCloudSyncScheduler creates a new scheduler instance
func NewCloudSyncScheduler(importService *importer.Service, target storage.Service, schedule string, enabled bool) *CloudSyncScheduler {
	return &CloudSyncScheduler{
		importService: importService,
		target:        target,
		schedule:      schedule,
		enabled:       enabled,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if sync is enabled
func (s *CloudSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Cloud sync scheduler: disabled")
		return nil
	}

	if s.target == nil {
		log.Printf("Cloud sync scheduler: no target configured, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Cloud sync scheduler: started with schedule '%s'", s.schedule)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *CloudSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancelFunc = nil
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete.
	// The wait happens outside the lock: a running sync needs it to
	// clear its isSyncing flag before it can finish.
	ctx := s.cron.Stop()
	<-ctx.Done()

	log.Printf("Cloud sync scheduler: stopped")
}

// RunNow triggers an immediate sync
func (s *CloudSyncScheduler) RunNow() error {
	go s.runSync()
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *CloudSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a sync is currently in progress
func (s *CloudSyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next sync will occur
func (s *CloudSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync performs the actual sync operation
func (s *CloudSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Cloud sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	log.Printf("Cloud sync: starting migration to cloud backend")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	outcome := s.importService.MigrateTo(ctx, s.target, importer.Options{})
	if !outcome.Success {
		log.Printf("Cloud sync: failed with %d error(s)", len(outcome.Errors))
		return
	}

	log.Printf("Cloud sync: completed in %v (users: %d, progress: %d, settings: %d)",
		time.Since(startTime).Round(time.Millisecond),
		outcome.Imported.Users, outcome.Imported.Progress, outcome.Imported.Settings)
}
