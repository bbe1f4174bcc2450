// Package reminder turns events into an iCalendar file with a display
// alarm ahead of each event, so a student can import "Set Reminder" into
// any calendar application.
package reminder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/pearcec/clubportal/internal/portal"
)

// ProductID identifies the generator in the PRODID property.
const ProductID = "-//clubportal//reminders//EN"

// Skipped names an event that could not become a reminder.
type Skipped struct {
	Event  portal.Event
	Reason string
}

// Build renders events as a VCALENDAR. Each persisted event with a valid
// date becomes an all-day VEVENT with a DISPLAY alarm lead before it.
func Build(events []portal.Event, lead time.Duration, now time.Time) (string, []Skipped) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	var skipped []Skipped
	for _, ev := range events {
		if !ev.Persisted() {
			skipped = append(skipped, Skipped{Event: ev, Reason: "event has no id"})
			continue
		}
		day, err := ev.Day()
		if err != nil {
			skipped = append(skipped, Skipped{Event: ev, Reason: fmt.Sprintf("invalid date %q", ev.Date)})
			continue
		}

		ve := cal.AddEvent(UID(ev.ID))
		ve.SetDtStampTime(now.UTC())
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		for _, tag := range ev.Tags {
			ve.AddProperty(ical.ComponentPropertyCategories, tag)
		}

		alarm := ve.AddAlarm()
		alarm.SetAction(ical.ActionDisplay)
		alarm.SetTrigger(Trigger(lead))
		alarm.AddProperty(ical.ComponentPropertyDescription, "Reminder: "+ev.Title)
	}
	return cal.Serialize(), skipped
}

// UID is the stable iCalendar UID for an event.
func UID(id portal.EventID) string {
	return id.String() + "@clubportal"
}

// Trigger formats lead as a negative RFC 5545 duration.
func Trigger(lead time.Duration) string {
	if lead <= 0 {
		return "PT0M"
	}
	switch {
	case lead%(24*time.Hour) == 0:
		return fmt.Sprintf("-P%dD", lead/(24*time.Hour))
	case lead%time.Hour == 0:
		return fmt.Sprintf("-PT%dH", lead/time.Hour)
	default:
		minutes := (lead + time.Minute - 1) / time.Minute
		return fmt.Sprintf("-PT%dM", minutes)
	}
}

// WriteFile writes content to path atomically via a temp file and rename,
// creating parent directories as needed.
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".clubportal-reminder-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
