package attendance

import (
	"context"
	"fmt"
	"strings"

	"github.com/moto-nrw/project-phoenix/email"
	attendanceModels "github.com/moto-nrw/project-phoenix/models/attendance"
)

// AbsenceNotifier sends the daily absence-summary email once the Finalizer
// closes a session, the same fire-and-forget Dispatcher pattern
// services/auth uses for invitation and password-reset email. A nil
// dispatcher or empty recipient address disables it silently.
type AbsenceNotifier struct {
	dispatcher *email.Dispatcher
	from       email.Email
}

// NewAbsenceNotifier constructs an AbsenceNotifier. dispatcher may be nil.
func NewAbsenceNotifier(dispatcher *email.Dispatcher, from email.Email) *AbsenceNotifier {
	return &AbsenceNotifier{dispatcher: dispatcher, from: from}
}

// Notify queues the absence summary for session to address. It is a no-op
// if the notifier, dispatcher, or address is unset, or nobody was absent.
func (n *AbsenceNotifier) Notify(ctx context.Context, session *attendanceModels.Session, address string, absentStudentIDs []int64) {
	if n == nil || n.dispatcher == nil || address == "" || len(absentStudentIDs) == 0 {
		return
	}

	ids := make([]string, len(absentStudentIDs))
	for i, id := range absentStudentIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}

	message := email.Message{
		From:     n.from,
		To:       email.NewEmail("", address),
		Subject:  fmt.Sprintf("Abwesenheitszusammenfassung - Kurs %d", session.CourseID),
		Template: "absence-summary.html",
		Content: map[string]any{
			"SessionID":      session.ID,
			"CourseID":       session.CourseID,
			"Date":           session.StartsAt,
			"AbsentCount":    len(absentStudentIDs),
			"AbsentStudents": strings.Join(ids, ", "),
		},
	}

	n.dispatcher.Dispatch(ctx, email.DeliveryRequest{
		Message: message,
		Metadata: email.DeliveryMetadata{
			Type:        "absence_summary",
			ReferenceID: session.ID,
			Recipient:   address,
		},
		MaxAttempts: 3,
	})
}
