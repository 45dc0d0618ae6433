package timeline

import "time"

// Marker is a month or year line on the axis.
type Marker struct {
	Date     time.Time `json:"date"`
	Position float64   `json:"position"`
	Label    string    `json:"label"`
	Year     bool      `json:"year"`
}

// DayTick is a day-of-month label on the axis.
type DayTick struct {
	Date     time.Time `json:"date"`
	Position float64   `json:"position"`
	Day      int       `json:"day"`
	Daily    bool      `json:"daily"`
}

// MarkerSteps picks how sparse month and year markers are for the number of
// visible days. A month step of 12 hides months; January markers are year
// markers and follow the year step.
func MarkerSteps(visibleDays float64) (monthStep, yearStep int) {
	switch {
	case visibleDays > 365*100:
		return 12, 10
	case visibleDays > 365*50:
		return 12, 5
	case visibleDays > 365*10:
		return 12, 1
	case visibleDays > 365*6:
		return 3, 1
	default:
		return 1, 1
	}
}

// MonthMarkers returns a marker per month start inside r, thinned for
// visibleDays.
func MonthMarkers(r DateRange, visibleDays float64) []Marker {
	if r.Degenerate() {
		return nil
	}
	monthStep, yearStep := MarkerSteps(visibleDays)

	loc := r.Start.Location()
	y, m, _ := r.Start.Date()
	cur := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	if cur.Before(r.Start) {
		cur = cur.AddDate(0, 1, 0)
	}

	var markers []Marker
	for !cur.After(r.End) {
		month := int(cur.Month())
		show := (month-1)%monthStep == 0
		year := month == 1
		if year {
			show = cur.Year()%yearStep == 0
		}
		if show {
			label := cur.Format("Jan")
			if year {
				label = cur.Format("2006")
			}
			markers = append(markers, Marker{
				Date:     cur,
				Position: r.Position(cur),
				Label:    label,
				Year:     year,
			})
		}
		cur = cur.AddDate(0, 1, 0)
	}
	return markers
}

// DayTickStep is the spacing in days between day labels, or 0 when more
// than 900 days are visible and day labels are hidden.
func DayTickStep(visibleDays float64) int {
	switch {
	case visibleDays > 900:
		return 0
	case visibleDays > 600:
		return 14
	case visibleDays > 450:
		return 10
	case visibleDays > 300:
		return 7
	case visibleDays > 200:
		return 3
	case visibleDays > 150:
		return 2
	default:
		return 1
	}
}

// DayTicks returns day labels every DayTickStep days counted from the first
// midnight of r, limited to [from, to]. Counting from the range start keeps
// labels stable while scrolling.
func DayTicks(r DateRange, from, to time.Time, visibleDays float64) []DayTick {
	step := DayTickStep(visibleDays)
	if step == 0 || r.Degenerate() {
		return nil
	}
	if from.Before(r.Start) {
		from = r.Start
	}
	if to.After(r.End) {
		to = r.End
	}

	loc := r.Start.Location()
	y, m, d := r.Start.Date()
	cur := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if cur.Before(r.Start) {
		cur = cur.AddDate(0, 0, 1)
	}
	if skip := int(secondsBetween(cur, from) / day.Seconds()); skip > 0 {
		cur = cur.AddDate(0, 0, skip/step*step)
	}

	var ticks []DayTick
	for !cur.After(to) {
		if !cur.Before(from) {
			ticks = append(ticks, DayTick{
				Date:     cur,
				Position: r.Position(cur),
				Day:      cur.Day(),
				Daily:    step == 1,
			})
		}
		cur = cur.AddDate(0, 0, step)
	}
	return ticks
}
