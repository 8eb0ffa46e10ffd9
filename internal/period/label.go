package period

import (
	"fmt"
	"strconv"
	"time"
)

var monthNames = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	"ru": {"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"},
}

// Label renders a human-readable name for the period in the given locale.
// Unknown locales fall back to English.
func (p Period) Label(locale string) string {
	names, ok := monthNames[locale]
	if !ok {
		names = monthNames["en"]
		locale = "en"
	}

	switch p.Type {
	case TypeWeekly:
		var year, week int
		fmt.Sscanf(p.Key, "%4d-W%2d", &year, &week)
		if locale == "ru" {
			return fmt.Sprintf("Неделя %d, %d (%s – %s)", week, year, shortDate(p.Start), shortDate(p.End))
		}
		return fmt.Sprintf("Week %d, %d (%s – %s)", week, year, shortDate(p.Start), shortDate(p.End))
	default:
		return names[int(p.Start.Month())-1] + " " + strconv.Itoa(p.Start.Year())
	}
}

func shortDate(t time.Time) string {
	return t.Format("02.01")
}
