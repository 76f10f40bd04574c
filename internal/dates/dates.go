// Package dates pins every "today" computation to one configured timezone.
// Day, week, and month boundaries all come from here so the queue's calendar
// day never drifts with the host clock's zone.
package dates

import "time"

// Range is a half-open interval [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

type Service struct {
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location) *Service {
	return &Service{loc: loc, now: time.Now}
}

// NewWithClock fixes the clock; used by tests.
func NewWithClock(loc *time.Location, now func() time.Time) *Service {
	return &Service{loc: loc, now: now}
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) Now() time.Time { return s.now().In(s.loc) }

// Today is the current calendar date as YYYY-MM-DD in the configured zone.
func (s *Service) Today() string { return s.Now().Format(time.DateOnly) }

// DayRange brackets the calendar day containing t.
func (s *Service) DayRange(t time.Time) Range {
	t = t.In(s.loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return Range{From: from, To: from.AddDate(0, 0, 1)}
}

func (s *Service) TodayRange() Range { return s.DayRange(s.Now()) }

// WeekRange brackets the ISO week (Monday through Sunday) containing now.
func (s *Service) WeekRange() Range {
	now := s.Now()
	offset := (int(now.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -offset)
	return Range{From: monday, To: monday.AddDate(0, 0, 7)}
}

// MonthRange brackets the calendar month containing now.
func (s *Service) MonthRange() Range {
	now := s.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	return Range{From: first, To: first.AddDate(0, 1, 0)}
}

// MonthsBack is the first midnight of the month n months before the current
// one. MonthsBack(0) equals the start of this month.
func (s *Service) MonthsBack(n int) time.Time {
	now := s.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	return first.AddDate(0, -n, 0)
}

// DaysBack is midnight n days before today.
func (s *Service) DaysBack(n int) time.Time {
	return s.TodayRange().From.AddDate(0, 0, -n)
}
