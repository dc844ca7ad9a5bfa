package models

// Visibility controls whether an event or rota is shown on public pages
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// PatternType selects the date-matching strategy for bulk assignment
type PatternType string

const (
	PatternDayOfMonth PatternType = "day-of-month"
	PatternDayOfWeek  PatternType = "day-of-week"
)

// MonthBand splits a month into three day-of-month bands. The band edges are
// computed against each month's own length: days 1-10 are the beginning,
// the final 10 days are the end, everything between is the middle.
type MonthBand string

const (
	BandBeginning MonthBand = "beginning"
	BandMiddle    MonthBand = "middle"
	BandEnd       MonthBand = "end"
)

// WeekOfMonth identifies which occurrence of a weekday within a month a
// day-of-week pattern should match
type WeekOfMonth string

const (
	WeekFirst  WeekOfMonth = "first"
	WeekSecond WeekOfMonth = "second"
	WeekThird  WeekOfMonth = "third"
	WeekFourth WeekOfMonth = "fourth"
	WeekLast   WeekOfMonth = "last"
	WeekAny    WeekOfMonth = "any"
)
