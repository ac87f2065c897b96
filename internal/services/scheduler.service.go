package services

import (
	"context"
	"errors"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Manual Schedule = iota // registered for TriggerJobByName only
	Hourly
	Daily // at the scheduler's daily time, UTC
)

var ErrJobNotFound = errors.New("job not found")

// Job represents a task the scheduler runs
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	dailyAt   string
	jobs      []Job
	scheduled int
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService(dailyAt string) *SchedulerService {
	scheduler := gocron.NewScheduler(time.UTC)
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: scheduler,
		dailyAt:   dailyAt,
		jobs:      make([]Job, 0),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SchedulerService) executeJob(ctx context.Context, job Job, log logger.Logger) {
	log.Info("Executing job", "job", job.Name())
	if err := job.Execute(ctx); err != nil {
		log.Er("Job execution failed", err, "job", job.Name())
		return
	}
	log.Info("Job execution completed successfully", "job", job.Name())
}

// AddJob registers a job with the scheduler
func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At(s.dailyAt).Do(func() {
			s.executeJob(s.ctx, job, log)
		})
		s.scheduled++
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(func() {
			s.executeJob(s.ctx, job, log)
		})
		s.scheduled++
	case Manual:
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("Job registered successfully", "job", job.Name(), "schedule", job.Schedule())

	return nil
}

// Start begins the scheduler
func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		log.Info("Scheduler already started")
		return nil
	}

	if s.scheduled == 0 {
		log.Info("No scheduled jobs registered, scheduler will not start")
		return nil
	}

	log.Info("Starting scheduler", "jobCount", s.scheduled)
	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", job.NextRun())
	}

	return nil
}

// Stop gracefully shuts down the scheduler
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Stop")

	if s.cancel != nil {
		s.cancel()
	}

	if !s.started {
		return nil
	}

	s.scheduler.Stop()
	s.started = false

	log.Info("Scheduler stopped successfully")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// TriggerJobByName starts a registered job in the background. The job
// outlives ctx's cancellation but not the scheduler's.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("TriggerJobByName")

	var targetJob Job
	for _, job := range s.jobs {
		if job.Name() == jobName {
			targetJob = job
			break
		}
	}

	if targetJob == nil {
		return log.Err("job not found", ErrJobNotFound, "job", jobName)
	}

	jobCtx := context.WithoutCancel(ctx)
	go func() {
		select {
		case <-s.ctx.Done():
			return
		default:
		}
		log.Info("Manually triggering job", "job", jobName)
		s.executeJob(jobCtx, targetJob, log)
	}()

	return nil
}
