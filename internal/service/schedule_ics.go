package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// feedWindowDays bounds the iCalendar export to the near future.
const feedWindowDays = 90

const icsTimeLayout = "20060102T150405Z"

// CalendarFeed renders the user's non-cancelled schedules for the next 90
// days as an RFC 5545 calendar, suitable for subscription by external
// calendar clients.
func (s *scheduleService) CalendarFeed(ctx context.Context, userID string) (string, error) {
	from := s.now().UTC()
	to := from.AddDate(0, 0, feedWindowDays)
	schedules, err := s.store.Schedules().List(ctx, userID, repository.ScheduleFilter{
		From: &from,
		To:   &to,
	})
	if err != nil {
		return "", err
	}
	return buildICS(schedules, s.now().UTC()), nil
}

// buildICS writes the VCALENDAR document. CRLF line endings per RFC 5545.
func buildICS(schedules []domain.WorkoutSchedule, stamp time.Time) string {
	var b strings.Builder
	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "PRODID:-//fittrack//workout schedule//EN")
	writeICSLine(&b, "CALSCALE:GREGORIAN")

	for i := range schedules {
		sched := &schedules[i]
		if sched.Status == domain.ScheduleStatusCancelled {
			continue
		}
		title := "Workout"
		if sched.Workout != nil && sched.Workout.Name != "" {
			title = sched.Workout.Name
		}
		writeICSLine(&b, "BEGIN:VEVENT")
		writeICSLine(&b, "UID:"+sched.ID+"@fittrack")
		writeICSLine(&b, "DTSTAMP:"+stamp.Format(icsTimeLayout))
		writeICSLine(&b, "DTSTART:"+sched.ScheduledDate.UTC().Format(icsTimeLayout))
		writeICSLine(&b, fmt.Sprintf("DURATION:PT%dM", sched.DurationMinutes))
		writeICSLine(&b, "SUMMARY:"+escapeICSText(title))
		if sched.Notes != "" {
			writeICSLine(&b, "DESCRIPTION:"+escapeICSText(sched.Notes))
		}
		writeICSLine(&b, "STATUS:"+icsStatus(sched.Status))
		writeICSLine(&b, "END:VEVENT")
	}

	writeICSLine(&b, "END:VCALENDAR")
	return b.String()
}

func writeICSLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeICSText escapes the characters RFC 5545 reserves in TEXT values.
func escapeICSText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return r.Replace(s)
}

func icsStatus(status domain.ScheduleStatus) string {
	switch status {
	case domain.ScheduleStatusScheduled, domain.ScheduleStatusInProgress:
		return "CONFIRMED"
	case domain.ScheduleStatusCompleted:
		return "CONFIRMED"
	case domain.ScheduleStatusMissed:
		return "TENTATIVE"
	}
	return "CANCELLED"
}
