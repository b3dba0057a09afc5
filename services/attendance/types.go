package attendance

// Outcome is the result of a Recognize or Mark call. Unlike the sentinel
// errors in errors.go, an Outcome is not a failure: it is the domain
// disposition spec.md §4.7/§6 requires every recognition attempt to report.
type Outcome string

const (
	// OutcomeMarked means a new attendance row was created: PRESENT or LATE.
	OutcomeMarked Outcome = "MARKED"
	// OutcomeReEntry means the student already had an attendance row for
	// this session and was recognized again (e.g. returning from a break).
	OutcomeReEntry Outcome = "RE_ENTRY"
	// OutcomeIntruder means the recognized student is not enrolled in the
	// session's course. Defense in depth: the candidate set is normally
	// restricted to enrolled students already.
	OutcomeIntruder Outcome = "INTRUDER"
	// OutcomeUnknownFace means a face was detected but did not match any
	// enrolled candidate above the confidence threshold.
	OutcomeUnknownFace Outcome = "UNKNOWN_FACE"
	// OutcomeNoActiveSession means no ACTIVE session exists for the scope.
	OutcomeNoActiveSession Outcome = "NO_ACTIVE_SESSION"
	// OutcomeNoFace means the frame contained no detectable face.
	OutcomeNoFace Outcome = "NO_FACE"
	// OutcomeMultipleFaces means the frame contained more than one face.
	OutcomeMultipleFaces Outcome = "MULTIPLE_FACES"
	// OutcomeAmbiguousSession means more than one ACTIVE session matched
	// the scope and none was specified to disambiguate.
	OutcomeAmbiguousSession Outcome = "AMBIGUOUS_SESSION"
	// OutcomeNoEnrolled means the session's course has no enrolled
	// students with embeddings, so no candidate set could be built.
	OutcomeNoEnrolled Outcome = "NO_ENROLLED"
	// OutcomeSessionClosed means the target session is COMPLETED or
	// CANCELLED and can no longer accept attendance.
	OutcomeSessionClosed Outcome = "SESSION_CLOSED"
)

// RecognizeResult reports the outcome of a single Recognize or Mark call,
// including enough detail for the caller (API handler or simulator) to
// render a response or log the event.
type RecognizeResult struct {
	Outcome     Outcome
	SessionID   int64
	StudentID   int64
	Confidence  float64
	Status      string // PRESENT, LATE, or ABSENT; empty unless OutcomeMarked/OutcomeReEntry
}

// RecognizeScope narrows which ACTIVE sessions a Recognize call considers.
// A zero-value scope matches all currently ACTIVE sessions; spec.md §4.7
// requires OutcomeAmbiguousSession when more than one remains after
// narrowing.
type RecognizeScope struct {
	RoomID    int64 // 0 means unscoped
	CourseID  int64 // 0 means unscoped
	SessionID int64 // 0 means unscoped; set to target one session directly
}
