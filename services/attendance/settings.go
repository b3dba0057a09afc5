package attendance

import (
	"context"
	"sync/atomic"

	"github.com/moto-nrw/project-phoenix/services/config"
)

// Setting keys backing this package's tunables.
const (
	SettingConfidenceThreshold       = "attendance.confidence_threshold"
	SettingLateThresholdMinutes      = "attendance.late_threshold_default_minutes"
	SettingFinalizerBufferMinutes    = "attendance.finalizer_buffer_minutes"
	SettingSchedulerTickSeconds      = "attendance.scheduler_tick_seconds"
	SettingActivationWindowMinutes   = "attendance.activation_window_minutes"
	SettingEnrollmentKMin            = "attendance.enrollment_k_min"
	SettingEnrollmentKMax            = "attendance.enrollment_k_max"
	SettingAbsenceNotifyAddress      = "attendance.absence_notify_address"
)

// Snapshot is the set of tunables the Attendance Service and Finalizer read
// on every tick or request. It is cached and refreshed wholesale so the
// values used within one recognize/tick call are mutually consistent, per
// spec.md §5's "cached per tick with a version counter" requirement.
type Snapshot struct {
	ConfidenceThreshold     float64
	LateThresholdMinutes    int
	FinalizerBufferMinutes  int
	SchedulerTickSeconds    int
	ActivationWindowMinutes int
	EnrollmentKMin          int
	EnrollmentKMax          int
	AbsenceNotifyAddress    string
}

func defaultSnapshot() Snapshot {
	return Snapshot{
		ConfidenceThreshold:     0.60,
		LateThresholdMinutes:    10,
		FinalizerBufferMinutes:  15,
		SchedulerTickSeconds:    30,
		ActivationWindowMinutes: 5,
		EnrollmentKMin:          5,
		EnrollmentKMax:          15,
		AbsenceNotifyAddress:    "",
	}
}

// Settings caches a Snapshot read from the config Service, invalidated
// explicitly via Refresh rather than on every access, so a single
// recognize/finalize pass observes one consistent set of thresholds even
// if an operator changes a setting mid-flight.
type Settings struct {
	svc     config.Service
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewSettings constructs a Settings cache seeded with defaults; call
// Refresh once before serving traffic.
func NewSettings(svc config.Service) *Settings {
	s := &Settings{svc: svc}
	snap := defaultSnapshot()
	s.current.Store(&snap)
	return s
}

// Refresh reloads all tunables from the config Service in one pass and
// publishes them atomically, bumping the version counter.
func (s *Settings) Refresh(ctx context.Context) error {
	defaults := defaultSnapshot()

	confidence, err := s.svc.GetFloatValue(ctx, SettingConfidenceThreshold, defaults.ConfidenceThreshold)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}
	lateMinutes, err := s.svc.GetIntValue(ctx, SettingLateThresholdMinutes, defaults.LateThresholdMinutes)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}
	bufferMinutes, err := s.svc.GetIntValue(ctx, SettingFinalizerBufferMinutes, defaults.FinalizerBufferMinutes)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}
	tickSeconds, err := s.svc.GetIntValue(ctx, SettingSchedulerTickSeconds, defaults.SchedulerTickSeconds)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}
	activationWindow, err := s.svc.GetIntValue(ctx, SettingActivationWindowMinutes, defaults.ActivationWindowMinutes)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}
	kMin, err := s.svc.GetIntValue(ctx, SettingEnrollmentKMin, defaults.EnrollmentKMin)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}
	kMax, err := s.svc.GetIntValue(ctx, SettingEnrollmentKMax, defaults.EnrollmentKMax)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}
	notifyAddress, err := s.svc.GetStringValue(ctx, SettingAbsenceNotifyAddress, defaults.AbsenceNotifyAddress)
	if err != nil {
		return &Error{Op: "settings.refresh", Err: err}
	}

	snap := Snapshot{
		ConfidenceThreshold:     confidence,
		LateThresholdMinutes:    lateMinutes,
		FinalizerBufferMinutes:  bufferMinutes,
		SchedulerTickSeconds:    tickSeconds,
		ActivationWindowMinutes: activationWindow,
		EnrollmentKMin:          kMin,
		EnrollmentKMax:          kMax,
		AbsenceNotifyAddress:    notifyAddress,
	}
	s.current.Store(&snap)
	s.version.Add(1)
	return nil
}

// Snapshot returns the currently cached tunables.
func (s *Settings) Snapshot() Snapshot {
	return *s.current.Load()
}

// Version returns the cache generation, incremented on every Refresh.
func (s *Settings) Version() uint64 {
	return s.version.Load()
}
