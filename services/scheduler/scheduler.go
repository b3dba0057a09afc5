package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Log format constants to avoid string duplication
const (
	fmtAndMoreErrors = "  ... and %d more errors"
)

// parseScheduledTime parses a HH:MM time string into hour and minute components.
// Returns an error if the format is invalid.
func parseScheduledTime(timeStr string) (hour, minute int, err error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %s (expected HH:MM)", timeStr)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in time: %s", timeStr)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in time: %s", timeStr)
	}

	return hour, minute, nil
}

// calculateNextRun calculates the next run time for a daily task at the given hour and minute.
// If the time has already passed today, it schedules for tomorrow.
func calculateNextRun(hour, minute int) time.Time {
	now := time.Now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.After(nextRun) {
		nextRun = nextRun.Add(24 * time.Hour)
	}
	return nextRun
}

// runDailyTask is a generic runner for tasks that execute once per day at a scheduled time.
// It handles parsing the schedule, waiting for the first run, and running on a 24-hour cycle.
func (s *Scheduler) runDailyTask(task *ScheduledTask, execute func()) {
	defer s.wg.Done()

	hour, minute, err := parseScheduledTime(task.Schedule)
	if err != nil {
		log.Printf("Invalid scheduled time for %s: %v", task.Name, err)
		return
	}

	nextRun := calculateNextRun(hour, minute)
	initialWait := time.Until(nextRun)
	log.Printf("Scheduled %s task will run in %v (at %v)", task.Name, initialWait.Round(time.Minute), nextRun.Format("2006-01-02 15:04:05"))

	select {
	case <-time.After(initialWait):
		execute()
	case <-s.done:
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			execute()
		case <-s.done:
			return
		}
	}
}

// AuthCleanup exposes the cleanup routines required from the auth service.
type AuthCleanup interface {
	CleanupExpiredTokens(ctx context.Context) (int, error)
	CleanupExpiredPasswordResetTokens(ctx context.Context) (int, error)
	CleanupExpiredRateLimits(ctx context.Context) (int, error)
}

// InvitationCleaner exposes the cleanup routine required from the invitation service.
type InvitationCleaner interface {
	CleanupExpiredInvitations(ctx context.Context) (int, error)
}

// CleanupJob represents a single cleanup task that can be executed.
type CleanupJob struct {
	Description string
	Run         func(context.Context) (int, error)
}

// AttendanceTicker runs the attendance engine's materialize/activate/close
// scheduler pass over today's timetable slots.
type AttendanceTicker interface {
	Tick(ctx context.Context) error
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	authCleanup       AuthCleanup
	invitationCleanup InvitationCleaner
	attendanceTicker  AttendanceTicker
	cleanupJobs       []CleanupJob
	tasks             map[string]*ScheduledTask
	mu                sync.RWMutex
	// done signals goroutines to stop when closed (replaces stored context)
	done chan struct{}
	wg   sync.WaitGroup

	// Attendance tick configuration (parsed once during initialization)
	attendanceTickSeconds int
}

// ScheduledTask represents a scheduled task
type ScheduledTask struct {
	Name     string
	Schedule string // cron-like schedule or duration
	LastRun  time.Time
	NextRun  time.Time
	Running  bool
	mu       sync.Mutex
}

// tryStart attempts to acquire the task lock for execution.
// Returns true if the lock was acquired, false if task is already running.
// Caller MUST call task.finish() when done if tryStart returns true.
func (t *ScheduledTask) tryStart() bool {
	t.mu.Lock()
	if t.Running {
		t.mu.Unlock()
		return false
	}
	t.Running = true
	t.LastRun = time.Now()
	t.mu.Unlock()
	return true
}

// finish releases the task lock and sets the next run time.
func (t *ScheduledTask) finish(nextInterval time.Duration) {
	t.mu.Lock()
	t.Running = false
	t.NextRun = time.Now().Add(nextInterval)
	t.mu.Unlock()
}

// NewScheduler creates a new scheduler
func NewScheduler(authService AuthCleanup, invitationService InvitationCleaner) *Scheduler {
	return &Scheduler{
		authCleanup:       authService,
		invitationCleanup: invitationService,
		cleanupJobs:       buildCleanupJobs(authService, invitationService),
		tasks:             make(map[string]*ScheduledTask),
		done:              make(chan struct{}),
	}
}

// WithAttendanceTicker attaches the attendance engine's scheduler tick,
// enabling the "attendance-tick" task the next time Start is called.
func (s *Scheduler) WithAttendanceTicker(ticker AttendanceTicker) *Scheduler {
	s.attendanceTicker = ticker
	return s
}

// Start begins the scheduler
func (s *Scheduler) Start() {
	log.Println("Starting scheduler service...")

	// Schedule token cleanup every hour
	s.scheduleTokenCleanupTask()

	// Schedule the attendance engine's materialize/activate/close tick
	s.scheduleAttendanceTickTask()
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler service...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler service stopped")
}

// scheduleTokenCleanupTask schedules hourly token cleanup
func (s *Scheduler) scheduleTokenCleanupTask() {
	task := &ScheduledTask{
		Name:     "token-cleanup",
		Schedule: "1h", // Run every hour
	}

	s.mu.Lock()
	s.tasks[task.Name] = task
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runTokenCleanupTask(task)
}

// runTokenCleanupTask runs the token cleanup task on schedule
func (s *Scheduler) runTokenCleanupTask(task *ScheduledTask) {
	defer s.wg.Done()

	log.Println("Token cleanup task scheduled to run every hour")

	// Run immediately on startup
	s.executeTokenCleanup(task)

	// Then run every hour
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.executeTokenCleanup(task)
		case <-s.done:
			return
		}
	}
}

// executeTokenCleanup executes the token cleanup task
func (s *Scheduler) executeTokenCleanup(task *ScheduledTask) {
	if !task.tryStart() {
		return
	}
	defer task.finish(time.Hour)

	log.Println("Running scheduled token cleanup...")
	startTime := time.Now()

	if err := s.RunCleanupJobs(); err != nil {
		log.Printf("ERROR: Token cleanup failed: %v", err)
		return
	}

	duration := time.Since(startTime)
	log.Printf("Token cleanup completed in %v", duration.Round(time.Millisecond))
}

// RunCleanupJobs executes all token-related cleanup tasks in sequence.
func (s *Scheduler) RunCleanupJobs() error {
	if len(s.cleanupJobs) == 0 {
		log.Println("No cleanup jobs registered; skipping token cleanup")
		return nil
	}

	ctx := context.Background()
	var firstErr error

	for _, job := range s.cleanupJobs {
		if job.Run == nil {
			continue
		}

		count, err := job.Run(ctx)
		if err != nil {
			log.Printf("ERROR: %s failed: %v", job.Description, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		log.Printf("%s removed %d records", job.Description, count)
	}

	return firstErr
}

// buildCleanupJobs constructs the set of cleanup jobs so other runners can reuse the same registry.
func buildCleanupJobs(authService AuthCleanup, invitationService InvitationCleaner) []CleanupJob {
	var jobs []CleanupJob

	if authService != nil {
		jobs = append(jobs,
			CleanupJob{
				Description: "Auth token cleanup",
				Run: func(ctx context.Context) (int, error) {
					return authService.CleanupExpiredTokens(ctx)
				},
			},
			CleanupJob{
				Description: "Password reset token cleanup",
				Run: func(ctx context.Context) (int, error) {
					return authService.CleanupExpiredPasswordResetTokens(ctx)
				},
			},
			CleanupJob{
				Description: "Password reset rate limit cleanup",
				Run: func(ctx context.Context) (int, error) {
					return authService.CleanupExpiredRateLimits(ctx)
				},
			},
		)
	}

	if invitationService != nil {
		jobs = append(jobs, CleanupJob{
			Description: "Invitation cleanup",
			Run: func(ctx context.Context) (int, error) {
				return invitationService.CleanupExpiredInvitations(ctx)
			},
		})
	}

	return jobs
}

// scheduleAttendanceTickTask schedules the attendance engine's scheduler
// tick, which materializes today's sessions, activates due ones, and
// closes/finalizes expired ones. A no-op if no AttendanceTicker was
// attached via WithAttendanceTicker.
func (s *Scheduler) scheduleAttendanceTickTask() {
	if s.attendanceTicker == nil {
		return
	}

	s.attendanceTickSeconds = 60
	if envTick := os.Getenv("ATTENDANCE_TICK_SECONDS"); envTick != "" {
		if parsed, err := strconv.Atoi(envTick); err == nil && parsed > 0 {
			s.attendanceTickSeconds = parsed
		}
	}

	task := &ScheduledTask{
		Name:     "attendance-tick",
		Schedule: strconv.Itoa(s.attendanceTickSeconds) + "s",
	}

	s.mu.Lock()
	s.tasks[task.Name] = task
	s.mu.Unlock()

	tickSeconds := s.attendanceTickSeconds

	s.wg.Add(1)
	go s.runAttendanceTickTask(task, tickSeconds)
}

// runAttendanceTickTask runs the attendance tick at the configured
// interval. Overlapping ticks are forbidden: task.tryStart() guards
// execution the same way every other scheduled task in this package does,
// so a slow tick is skipped rather than stacked.
func (s *Scheduler) runAttendanceTickTask(task *ScheduledTask, tickSeconds int) {
	defer s.wg.Done()

	interval := time.Duration(tickSeconds) * time.Second
	log.Printf("Attendance tick task scheduled to run every %d seconds", tickSeconds)

	s.executeAttendanceTick(task, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.executeAttendanceTick(task, interval)
		case <-s.done:
			return
		}
	}
}

// executeAttendanceTick executes one attendance tick. A tick that takes
// longer than half the interval is logged so a slow embedding provider
// or database shows up before it causes a missed window.
func (s *Scheduler) executeAttendanceTick(task *ScheduledTask, interval time.Duration) {
	if !task.tryStart() {
		log.Println("Attendance tick already running, skipping...")
		return
	}
	defer task.finish(interval)

	ctx, cancel := context.WithTimeout(context.Background(), interval)
	defer cancel()

	startTime := time.Now()
	if err := s.attendanceTicker.Tick(ctx); err != nil {
		log.Printf("ERROR: Attendance tick failed: %v", err)
		return
	}

	duration := time.Since(startTime)
	if duration > interval/2 {
		log.Printf("WARNING: Attendance tick took %v, more than half the %v interval", duration.Round(time.Millisecond), interval)
	}
}
