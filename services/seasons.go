package services

import "time"

// Astronomical season boundaries used by the wardrobe transition features.
var seasonStarts = []struct {
	Season string
	Month  time.Month
	Day    int
}{
	{"Spring", time.March, 20},
	{"Summer", time.June, 21},
	{"Fall", time.September, 23},
	{"Winter", time.December, 21},
}

var nextSeasons = map[string]string{
	"Spring": "Summer",
	"Summer": "Fall",
	"Fall":   "Winter",
	"Winter": "Spring",
}

// CurrentSeason returns the season the given date falls into.
func CurrentSeason(t time.Time) string {
	month, day := t.Month(), t.Day()
	switch {
	case (month == time.March && day >= 20) || (month > time.March && month < time.June) || (month == time.June && day <= 20):
		return "Spring"
	case (month == time.June && day >= 21) || (month > time.June && month < time.September) || (month == time.September && day <= 22):
		return "Summer"
	case (month == time.September && day >= 23) || (month > time.September && month < time.December) || (month == time.December && day <= 20):
		return "Fall"
	default:
		return "Winter"
	}
}

func NextSeason(season string) string {
	return nextSeasons[season]
}

// SeasonStartDate returns the first start of season strictly after t.
func SeasonStartDate(season string, t time.Time) time.Time {
	for _, s := range seasonStarts {
		if s.Season != season {
			continue
		}
		start := time.Date(t.Year(), s.Month, s.Day, 0, 0, 0, 0, t.Location())
		if !start.After(t) {
			start = time.Date(t.Year()+1, s.Month, s.Day, 0, 0, 0, 0, t.Location())
		}
		return start
	}
	return time.Time{}
}

// UpcomingSeason resolves the season following the current one, its start
// date and the number of whole days until it begins.
func UpcomingSeason(t time.Time) (season string, start time.Time, daysUntil int) {
	season = NextSeason(CurrentSeason(t))
	start = SeasonStartDate(season, t)
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	daysUntil = int(start.Sub(today).Hours() / 24)
	if daysUntil < 0 {
		daysUntil = 0
	}
	return
}
