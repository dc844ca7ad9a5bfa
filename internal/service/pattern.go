package service

import (
	"sort"
	"time"

	"volunteer-rota-backend/internal/database/models"
	apperrors "volunteer-rota-backend/internal/errors"
)

// DatePattern describes which occurrence dates a bulk assignment call should
// touch. Exactly one of Band (for day-of-month) or Weekday+Week (for
// day-of-week) is consulted, selected by Type.
type DatePattern struct {
	Type    models.PatternType `json:"type" validate:"required"`
	Band    models.MonthBand   `json:"band,omitempty"`
	Weekday time.Weekday       `json:"weekday,omitempty"`
	Week    models.WeekOfMonth `json:"week,omitempty"`
}

// dateOnly truncates a time to its date in its own location
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// lastDayOfMonth returns the number of days in the month containing t
func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// BandOf classifies a date into its month band against that month's own
// length: days 1-10 are the beginning, the final 10 days the end, everything
// between the middle.
func BandOf(t time.Time) models.MonthBand {
	day := t.Day()
	if day <= 10 {
		return models.BandBeginning
	}
	if day > lastDayOfMonth(t)-10 {
		return models.BandEnd
	}
	return models.BandMiddle
}

// WeekdayOrdinal returns the 1-based ordinal of the date among same-weekday
// dates in its month: the offset from the month's first matching weekday,
// divided by 7, plus one.
func WeekdayOrdinal(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	firstMatch := (int(t.Weekday()) - int(first.Weekday()) + 7) % 7
	return (t.Day()-1-firstMatch)/7 + 1
}

// IsLastWeekdayOfMonth reports whether the date is the final occurrence of
// its weekday in its month, working backward from the month's end.
func IsLastWeekdayOfMonth(t time.Time) bool {
	return t.Day()+7 > lastDayOfMonth(t)
}

// matches reports whether a single date satisfies the pattern
func (p DatePattern) matches(t time.Time) (bool, error) {
	switch p.Type {
	case models.PatternDayOfMonth:
		switch p.Band {
		case models.BandBeginning, models.BandMiddle, models.BandEnd:
			return BandOf(t) == p.Band, nil
		default:
			return false, apperrors.NewValidationError("band", "unknown month band")
		}
	case models.PatternDayOfWeek:
		if t.Weekday() != p.Weekday {
			return false, nil
		}
		switch p.Week {
		case models.WeekAny:
			return true, nil
		case models.WeekLast:
			return IsLastWeekdayOfMonth(t), nil
		case models.WeekFirst, models.WeekSecond, models.WeekThird, models.WeekFourth:
			return WeekdayOrdinal(t) == weekOrdinal(p.Week), nil
		default:
			return false, apperrors.NewValidationError("week", "unknown week of month")
		}
	default:
		return false, apperrors.ErrInvalidPattern
	}
}

func weekOrdinal(w models.WeekOfMonth) int {
	switch w {
	case models.WeekFirst:
		return 1
	case models.WeekSecond:
		return 2
	case models.WeekThird:
		return 3
	case models.WeekFourth:
		return 4
	}
	return 0
}

// MatchOccurrences selects, from an event's occurrence set, the dates a bulk
// assignment should touch: pattern matches between today (date-only) and
// endDate inclusive, grouped by calendar month, at most frequency per month.
// Within each month the earliest matches are taken, except the day-of-month
// end band which takes the latest (counting end-of-month dates backward).
// The result is in ascending date order. Zero matches is an error, never a
// silent no-op.
func MatchOccurrences(occurrences []models.Occurrence, pattern DatePattern, frequency int, now, endDate time.Time) ([]models.Occurrence, error) {
	if frequency < 1 {
		return nil, apperrors.ErrInvalidFrequency
	}

	today := dateOnly(now)
	end := dateOnly(endDate)

	type monthKey struct {
		year  int
		month time.Month
	}
	byMonth := make(map[monthKey][]models.Occurrence)

	for _, occ := range occurrences {
		day := dateOnly(occ.StartsAt)
		if day.Before(today) || day.After(end) {
			continue
		}
		ok, err := pattern.matches(occ.StartsAt)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		k := monthKey{occ.StartsAt.Year(), occ.StartsAt.Month()}
		byMonth[k] = append(byMonth[k], occ)
	}

	takeLast := pattern.Type == models.PatternDayOfMonth && pattern.Band == models.BandEnd

	var selected []models.Occurrence
	for _, group := range byMonth {
		sort.Slice(group, func(i, j int) bool {
			return group[i].StartsAt.Before(group[j].StartsAt)
		})
		if len(group) > frequency {
			if takeLast {
				group = group[len(group)-frequency:]
			} else {
				group = group[:frequency]
			}
		}
		selected = append(selected, group...)
	}

	if len(selected) == 0 {
		return nil, apperrors.ErrNoMatchingOccurrences
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].StartsAt.Before(selected[j].StartsAt)
	})
	return selected, nil
}
