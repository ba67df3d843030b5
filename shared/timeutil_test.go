package shared

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    time.Duration
		wantErr bool
	}{
		{
			"midnight",
			"00:00",
			0,
			false,
		},
		{
			"morning open",
			"09:30",
			time.Hour*9 + time.Minute*30,
			false,
		},
		{
			"end of day boundary",
			"24:00",
			Day,
			false,
		},
		{
			"malformed clock time",
			"9am",
			0,
			true,
		},
	}

	for _, test := range tests {
		offset, err := ParseClockTime(test.clock)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
		}
		if offset != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, offset)
		}
	}
}

func TestTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	at := time.Date(2024, time.June, 10, 9, 30, 15, 0, loc)
	assert.Equal(t, time.Hour*9+time.Minute*30+time.Second*15, TimeOfDay(at))
	assert.Equal(t, time.Duration(0), TimeOfDay(Midnight(at)))
}

func TestMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// Ensure truncation keeps the date and location.
	at := time.Date(2024, time.June, 10, 23, 59, 59, 0, loc)
	midnight := Midnight(at)
	assert.Equal(t, 2024, midnight.Year())
	assert.Equal(t, time.June, midnight.Month())
	assert.Equal(t, 10, midnight.Day())
	assert.Equal(t, time.Duration(0), TimeOfDay(midnight))
	assert.Equal(t, loc.String(), midnight.Location().String())
}
