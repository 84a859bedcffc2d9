package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayNameLocales(t *testing.T) {
	assert.Equal(t, "Sunday", DayName(0, "en"))
	assert.Equal(t, "Lunes", DayName(1, "es"))
	assert.Equal(t, "Sam", DayNameShort(6, "fr"))
}

func TestDayNameFallsBackToDefaultLocale(t *testing.T) {
	assert.Equal(t, "Wednesday", DayName(3, "xx"))
	assert.Equal(t, "Wed", DayNameShort(3, ""))
}

func TestDayNameClampsInvalidIndex(t *testing.T) {
	assert.Equal(t, "Sunday", DayName(-1, "en"))
	assert.Equal(t, "Sunday", DayName(7, "en"))
}
