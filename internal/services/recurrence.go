package services

import (
	"fmt"
	"time"

	"ellarises/internal/domain"
)

// maxGeneratedOccurrences bounds a single generation run. The date loop is
// already range-validated; this guard makes an unbounded loop impossible even
// if a caller passes a multi-decade range.
const maxGeneratedOccurrences = 1000

// GenerateOccurrencesParams are the inputs for one generation run. Dates are
// date-only values (midnight); times-of-day travel separately as "15:04"
// strings and are copied onto every generated occurrence.
type GenerateOccurrencesParams struct {
	EventID              int64
	Pattern              domain.RecurrencePattern
	FirstStart           time.Time
	FirstEnd             time.Time
	StartTime            string
	EndTime              string
	Location             string
	Capacity             int
	RepeatUntil          time.Time
	RegistrationLeadDays int
}

// GenerateOccurrences expands an event template into concrete occurrences.
// The first occurrence is always emitted; for repeating patterns, successive
// occurrences are emitted while their start date is on or before RepeatUntil.
// Each occurrence's registration deadline is its start date minus the lead
// days, closing at 23:59.
//
// All validation happens before anything is built, so a bad request never
// reaches the database.
func GenerateOccurrences(p GenerateOccurrencesParams) ([]*domain.Occurrence, error) {
	if !p.Pattern.Valid() {
		return nil, fmt.Errorf("%w: unknown recurrence pattern %q", domain.ErrInvalidInput, p.Pattern)
	}
	if p.RegistrationLeadDays < 0 {
		return nil, fmt.Errorf("%w: registration lead days must not be negative", domain.ErrInvalidInput)
	}
	if p.FirstStart.IsZero() || p.FirstEnd.IsZero() {
		return nil, fmt.Errorf("%w: first occurrence start and end dates are required", domain.ErrInvalidInput)
	}
	if p.FirstEnd.Before(p.FirstStart) {
		return nil, fmt.Errorf("%w: occurrence end date before start date", domain.ErrInvalidInput)
	}
	if p.Pattern != domain.RecurrenceNone {
		if p.RepeatUntil.IsZero() {
			return nil, fmt.Errorf("%w: repeat-until date is required for pattern %q", domain.ErrInvalidInput, p.Pattern)
		}
		if p.RepeatUntil.Before(p.FirstStart) {
			return nil, fmt.Errorf("%w: repeat-until date before first occurrence", domain.ErrInvalidInput)
		}
	}

	var occs []*domain.Occurrence
	for n := 0; ; n++ {
		if n >= maxGeneratedOccurrences {
			return nil, fmt.Errorf("%w: recurrence range produces more than %d occurrences", domain.ErrInvalidInput, maxGeneratedOccurrences)
		}
		start := stepDate(p.FirstStart, p.Pattern, n)
		if n > 0 && start.After(p.RepeatUntil) {
			break
		}
		end := stepDate(p.FirstEnd, p.Pattern, n)
		occs = append(occs, &domain.Occurrence{
			EventID:      p.EventID,
			StartDate:    start,
			StartTime:    p.StartTime,
			EndDate:      end,
			EndTime:      p.EndTime,
			Location:     p.Location,
			Capacity:     p.Capacity,
			DeadlineDate: start.AddDate(0, 0, -p.RegistrationLeadDays),
			DeadlineTime: domain.DeadlineTime,
		})
		if p.Pattern == domain.RecurrenceNone {
			break
		}
	}
	return occs, nil
}

// stepDate returns the date of the nth occurrence, counting from the anchor.
// Daily and weekly patterns are plain day offsets. Monthly keeps the anchor's
// day of month, clamped to the target month's length, so a Jan 31 series
// visits Feb 29 (leap) and Apr 30 instead of drifting into the next month.
func stepDate(anchor time.Time, pattern domain.RecurrencePattern, n int) time.Time {
	switch pattern {
	case domain.RecurrenceDaily:
		return anchor.AddDate(0, 0, n)
	case domain.RecurrenceWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case domain.RecurrenceMonthly:
		return addMonthsClamped(anchor, n)
	default:
		return anchor
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	day := t.Day()
	if last := firstOfTarget.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}
