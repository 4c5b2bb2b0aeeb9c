package recap

import (
	"github.com/itbasis/go-clock"
)

// DateLayout is the date format the Stats API uses for both the date query
// parameter and a game's officialDate.
const DateLayout = "2006-01-02"

// PreviousDay returns the calendar day before the clock's current local date,
// formatted with DateLayout.
func PreviousDay(c clock.Clock) string {
	return c.Now().AddDate(0, 0, -1).Format(DateLayout)
}
