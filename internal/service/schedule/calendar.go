package schedule

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/schedule"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HolidayFunc reports whether day is a company holiday.
type HolidayFunc func(day time.Time) bool

// HolidaySet turns a holiday list into a HolidayFunc keyed by calendar date.
func HolidaySet(holidays []schedule.Holiday) HolidayFunc {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format("2006-01-02")] = struct{}{}
	}
	return func(day time.Time) bool {
		_, ok := set[day.Format("2006-01-02")]
		return ok
	}
}

// Calendar answers working-day questions over the resolved schedule of one employee.
type Calendar struct {
	resolved  schedule.Resolved
	isHoliday HolidayFunc
}

func NewCalendar(employee *schedule.EmployeeWorkSchedule, company *schedule.WorkSchedule, isHoliday HolidayFunc) *Calendar {
	if isHoliday == nil {
		isHoliday = func(time.Time) bool { return false }
	}
	return &Calendar{
		resolved:  schedule.Resolve(employee, company),
		isHoliday: isHoliday,
	}
}

// IsWorkingDay is false on holidays and true for any other day when no schedule exists.
func (c *Calendar) IsWorkingDay(day time.Time) bool {
	if c.isHoliday(day) {
		return false
	}
	if !c.resolved.Exists() {
		return true
	}
	return c.resolved.WorkDays.IsWorkedOn(day.Weekday())
}

// CountWorkingDays counts working days in [start, end]. Zero when end is before start.
func (c *Calendar) CountWorkingDays(start, end time.Time) int {
	count := 0
	c.scan(start, end, func(time.Time) { count++ })
	return count
}

// WorkingDaysInRange lists the working days in [start, end], oldest first.
func (c *Calendar) WorkingDaysInRange(start, end time.Time) []time.Time {
	days := []time.Time{}
	c.scan(start, end, func(d time.Time) { days = append(days, d) })
	return days
}

func (c *Calendar) scan(start, end time.Time, visit func(time.Time)) {
	day := dayOf(start)
	last := dayOf(end)
	for !day.After(last) {
		if c.IsWorkingDay(day) {
			visit(day)
		}
		day = day.AddDate(0, 0, 1)
	}
}

// dayOf keeps the calendar date of t at midnight in t's location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ScheduleInfo describes the active schedule in tag's language.
func (c *Calendar) ScheduleInfo(tag language.Tag) schedule.ScheduleInfo {
	texts := descriptions[matchLanguage(tag)]
	switch c.resolved.Source {
	case schedule.SourceEmployee:
		return schedule.ScheduleInfo{
			Type:        "custom",
			Source:      "employee_work_schedules",
			Description: texts.custom,
			WorkDays:    c.resolved.WorkDays.Weekdays(),
		}
	case schedule.SourceCompany:
		return schedule.ScheduleInfo{
			Type:        "company",
			Source:      "work_schedules",
			Description: texts.company,
			WorkDays:    c.resolved.WorkDays.Weekdays(),
		}
	default:
		return schedule.ScheduleInfo{
			Type:        "none",
			Source:      "default",
			Description: texts.none,
			WorkDays:    []string{},
		}
	}
}

// WorkingDaysLabels returns the worked weekday names translated for tag.
// Names missing from the label table are returned as stored.
func (c *Calendar) WorkingDaysLabels(tag language.Tag) []string {
	if !c.resolved.Exists() {
		return []string{}
	}

	lang := matchLanguage(tag)
	names := c.resolved.WorkDays.Weekdays()
	labels := make([]string, 0, len(names))
	for _, name := range names {
		labels = append(labels, labelOf(lang, name))
	}
	return labels
}

var supportedLanguages = []language.Tag{language.English, language.Italian}

var languageMatcher = language.NewMatcher(supportedLanguages)

// matchLanguage picks the closest supported language, English by default.
func matchLanguage(tag language.Tag) language.Tag {
	_, index, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return supportedLanguages[index]
}

// ParseAcceptLanguage resolves an Accept-Language header to a supported language.
func ParseAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	return supportedLanguages[index]
}

var italianLabels = map[string]string{
	"monday":    "Lunedì",
	"tuesday":   "Martedì",
	"wednesday": "Mercoledì",
	"thursday":  "Giovedì",
	"friday":    "Venerdì",
	"saturday":  "Sabato",
	"sunday":    "Domenica",
}

func labelOf(lang language.Tag, name string) string {
	label, known := italianLabels[name]
	switch {
	case !known:
		return name
	case lang == language.Italian:
		return label
	default:
		return cases.Title(language.English).String(name)
	}
}

type scheduleTexts struct {
	custom  string
	company string
	none    string
}

var descriptions = map[language.Tag]scheduleTexts{
	language.English: {
		custom:  "Employee specific working hours",
		company: "Company working hours",
		none:    "No working hours configured",
	},
	language.Italian: {
		custom:  "Orari personalizzati del dipendente",
		company: "Orari aziendali generali",
		none:    "Nessuna configurazione orari disponibile",
	},
}
