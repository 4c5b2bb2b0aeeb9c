package recap

import (
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
)

func TestPreviousDay(t *testing.T) {
	chicago := time.FixedZone("CDT", -5*60*60)
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"mid month", time.Date(2024, time.May, 11, 7, 0, 0, 0, time.UTC), "2024-05-10"},
		{"leap day", time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC), "2024-02-29"},
		{"non-leap year", time.Date(2023, time.March, 1, 9, 0, 0, 0, time.UTC), "2023-02-28"},
		{"new year", time.Date(2025, time.January, 1, 0, 5, 0, 0, time.UTC), "2024-12-31"},
		{"end of 30-day month", time.Date(2024, time.May, 1, 23, 59, 0, 0, time.UTC), "2024-04-30"},
		// 04:30 UTC on the 5th, but the local calendar decides.
		{"local zone", time.Date(2024, time.July, 4, 23, 30, 0, 0, chicago), "2024-07-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clock.NewMock()
			c.Set(tt.now)
			assert.Equal(t, tt.want, PreviousDay(c))
		})
	}
}

func TestPreviousDayRealClock(t *testing.T) {
	before := time.Now().AddDate(0, 0, -1).Format(DateLayout)
	got := PreviousDay(clock.New())
	after := time.Now().AddDate(0, 0, -1).Format(DateLayout)
	assert.Contains(t, []string{before, after}, got)
}
