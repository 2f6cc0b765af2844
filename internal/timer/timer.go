// Package timer reports how much time has passed since a fixed anchor
// instant, with calendar-aware years.
package timer

import (
	"time"
)

// Elapsed is a calendar breakdown of the time since the anchor.
type Elapsed struct {
	Years   int `json:"years"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Report is the wire payload of the time endpoint.
type Report struct {
	Since        string  `json:"since"`
	Now          string  `json:"now"`
	Elapsed      Elapsed `json:"elapsed"`
	TotalSeconds int64   `json:"totalSeconds"`
}

// Service computes elapsed time from a fixed start instant. The clock is
// injectable for tests.
type Service struct {
	start time.Time
	now   func() time.Time
}

func NewService(start time.Time) *Service {
	return &Service{start: start.UTC(), now: time.Now}
}

// NewServiceWithClock is NewService with an explicit clock.
func NewServiceWithClock(start time.Time, now func() time.Time) *Service {
	return &Service{start: start.UTC(), now: now}
}

// Report builds the elapsed payload for the current instant.
func (s *Service) Report() Report {
	now := s.now().UTC()
	elapsed := s.calculateElapsed(now)

	return Report{
		Since:        isoMillis(s.start),
		Now:          isoMillis(now),
		Elapsed:      elapsed,
		TotalSeconds: int64(now.Sub(s.start).Seconds()),
	}
}

// calculateElapsed counts whole calendar years first, then breaks the
// remainder into days, hours, minutes and seconds.
func (s *Service) calculateElapsed(now time.Time) Elapsed {
	years := 0
	for !addYears(s.start, years+1).After(now) {
		years++
	}

	anchor := addYears(s.start, years)
	remainder := now.Sub(anchor)

	days := int(remainder / (24 * time.Hour))
	rest := int(remainder % (24 * time.Hour) / time.Second)

	return Elapsed{
		Years:   years,
		Days:    days,
		Hours:   rest / 3600,
		Minutes: (rest % 3600) / 60,
		Seconds: rest % 60,
	}
}

// addYears shifts the instant by whole years, clamping Feb 29 to Feb 28 in
// non-leap years instead of rolling into March.
func addYears(t time.Time, years int) time.Time {
	target := t.AddDate(years, 0, 0)
	if t.Month() == time.February && t.Day() == 29 && target.Month() == time.March {
		return target.AddDate(0, 0, -1)
	}
	return target
}

func isoMillis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
