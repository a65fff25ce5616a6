package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedules run by CronService, in cron syntax
const (
	ScheduleDrain        = "* * * * *"
	ScheduleResetUploads = "0 * * * *"
	ScheduleSessions     = "*/15 * * * *"
	ScheduleExpireDrafts = "0 1 * * *"
	ScheduleExpireLapsed = "0 2 * * *"
	cronJobTimeout       = 5 * time.Minute
)

// Resetter clears in-process counters
type Resetter interface {
	Reset()
}

// CronService runs the periodic registry jobs
type CronService struct {
	cron       *cron.Cron
	dispatcher *Dispatcher
	auth       *AuthService
	workflow   *WorkflowService
	registry   *RegistryService
	uploads    Resetter
}

// NewCronService creates a new cron service. uploads may be nil when the
// upload limiter keeps no local state.
func NewCronService(dispatcher *Dispatcher, auth *AuthService, workflow *WorkflowService, registry *RegistryService, uploads Resetter) *CronService {
	return &CronService{
		cron:       cron.New(),
		dispatcher: dispatcher,
		auth:       auth,
		workflow:   workflow,
		registry:   registry,
		uploads:    uploads,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func(ctx context.Context)
	}{
		{ScheduleDrain, "outbox drain", s.drainOutbox},
		{ScheduleResetUploads, "upload counter reset", s.resetUploads},
		{ScheduleSessions, "session cleanup", s.cleanupSessions},
		{ScheduleExpireDrafts, "draft expiry", s.expireDrafts},
		{ScheduleExpireLapsed, "registry expiry", s.expireLapsed},
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
			defer cancel()
			job.run(ctx)
		}); err != nil {
			return err
		}
		log.Printf("⏰ Scheduled %s (%s)", job.name, job.spec)
	}

	s.cron.Start()
	log.Println("🚀 CronService started")
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) drainOutbox(ctx context.Context) {
	sent, failed := s.dispatcher.Drain(ctx)
	if sent+failed > 0 {
		log.Printf("📧 Outbox drained: %d sent, %d failed", sent, failed)
	}
}

func (s *CronService) resetUploads(ctx context.Context) {
	if s.uploads == nil {
		return
	}
	s.uploads.Reset()
	log.Println("🔄 Upload counters reset")
}

func (s *CronService) cleanupSessions(ctx context.Context) {
	n, err := s.auth.CleanupSessions(ctx)
	if err != nil {
		log.Printf("❌ Session cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🧹 Removed %d expired sessions", n)
	}
}

func (s *CronService) expireDrafts(ctx context.Context) {
	n, err := s.workflow.ExpireStale(ctx)
	if err != nil {
		log.Printf("❌ Draft expiry failed after %d: %v", n, err)
		return
	}
	log.Printf("⌛ Expired %d stale applications", n)
}

func (s *CronService) expireLapsed(ctx context.Context) {
	members, orgs, err := s.registry.ExpireLapsed(ctx)
	if err != nil {
		log.Printf("❌ Registry expiry failed: %v", err)
		return
	}
	log.Printf("⌛ Expired %d members and %d organizations", members, orgs)
}
