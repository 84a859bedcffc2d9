// Package i18n resolves localized weekday labels. The scheduling core only
// works with weekday indices (0=Sunday..6=Saturday); labels are a
// presentation concern consumed when listing working hours.
package i18n

// DefaultLocale is used when a requested locale has no translations.
const DefaultLocale = "en"

var dayNames = map[string][7]string{
	"en": {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	"es": {"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"},
	"fr": {"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"},
	"de": {"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
}

var dayNamesShort = map[string][7]string{
	"en": {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	"es": {"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"},
	"fr": {"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"},
	"de": {"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
}

// DayName returns the full weekday label for the given index and locale,
// falling back to the default locale for unknown locales and to index 0 for
// out-of-range indices.
func DayName(dayIndex int, locale string) string {
	return lookup(dayNames, dayIndex, locale)
}

// DayNameShort returns the abbreviated weekday label.
func DayNameShort(dayIndex int, locale string) string {
	return lookup(dayNamesShort, dayIndex, locale)
}

// Supported reports whether the locale has translations.
func Supported(locale string) bool {
	_, ok := dayNames[locale]
	return ok
}

func lookup(table map[string][7]string, dayIndex int, locale string) string {
	if dayIndex < 0 || dayIndex > 6 {
		dayIndex = 0
	}
	names, ok := table[locale]
	if !ok {
		names = table[DefaultLocale]
	}
	return names[dayIndex]
}
