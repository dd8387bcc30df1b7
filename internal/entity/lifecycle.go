package entity

import "time"

// normalizationOffset pins stored instants to 03:00 of the day so that a
// UTC-3 reader still sees the intended calendar date.
const normalizationOffset = 3 * time.Hour

type ActivationKind string

const (
	ActivationFirst        ActivationKind = "FIRST_ACTIVATION"
	ActivationEarlyRenewal ActivationKind = "EARLY_RENEWAL"
	ActivationLateRenewal  ActivationKind = "LATE_RENEWAL"
)

func (k ActivationKind) IsRenewal() bool {
	return k == ActivationEarlyRenewal || k == ActivationLateRenewal
}

// Calendar owns the date normalization used for every activation and
// expiration instant. Swap the Location (or Normalize) to change the
// timezone handling everywhere.
type Calendar struct {
	Location *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// StartOfDay returns local midnight of t.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	loc := c.location()
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Normalize returns startOfDay(t) + 3h, in UTC.
func (c Calendar) Normalize(t time.Time) time.Time {
	return c.StartOfDay(t).Add(normalizationOffset).UTC()
}

type ActivationResult struct {
	Kind           ActivationKind
	ActiveAt       *time.Time
	ReactivatedAt  *time.Time
	ExpirationDate time.Time
	DaysRemaining  int
}

// ComputeActivation decides the new subscription dates for a record with the
// given state at instant now.
func (c Calendar) ComputeActivation(activeAt, expirationDate *time.Time, now time.Time) ActivationResult {
	today := c.Normalize(now)

	if activeAt == nil {
		return ActivationResult{
			Kind:           ActivationFirst,
			ActiveAt:       &today,
			ExpirationDate: c.Normalize(now.AddDate(1, 0, 0)),
		}
	}

	if expirationDate != nil && expirationDate.After(now) {
		days := DaysBetween(now, *expirationDate) + 1
		return ActivationResult{
			Kind:           ActivationEarlyRenewal,
			ReactivatedAt:  &today,
			ExpirationDate: c.Normalize(now.AddDate(1, 0, days)),
			DaysRemaining:  days,
		}
	}

	return ActivationResult{
		Kind:           ActivationLateRenewal,
		ReactivatedAt:  &today,
		ExpirationDate: c.Normalize(now.AddDate(1, 0, 0)),
	}
}

// DaysBetween is the whole number of 24h periods from a to b, truncated
// toward zero. It is not a calendar-day count: the result shifts by one
// depending on the time of day of both instants.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
