package scheduling

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 5, tod.Minute())
	assert.Equal(t, "09:05", tod.String())

	for _, bad := range []string{"9:5", "25:00", "12:60", "noon", ""} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDayArithmetic(t *testing.T) {
	tod := NewTimeOfDay(10, 45)
	assert.Equal(t, NewTimeOfDay(11, 15), tod.Add(30))
	assert.True(t, tod.Before(NewTimeOfDay(11, 0)))
	assert.True(t, tod.After(NewTimeOfDay(10, 30)))
	assert.Equal(t, 645, tod.Minutes())
}

func TestTimeOfDayJSON(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(8, 30))
	require.NoError(t, err)
	assert.Equal(t, `"08:30"`, string(data))

	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"14:15"`), &tod))
	assert.Equal(t, NewTimeOfDay(14, 15), tod)

	assert.Error(t, json.Unmarshal([]byte(`830`), &tod))
	assert.Error(t, json.Unmarshal([]byte(`"2pm"`), &tod))
}

func TestDateParsingAndWeekday(t *testing.T) {
	d, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2026-03-02", d.String())
	assert.True(t, d.Equal(testMonday))

	_, err = ParseDate("02/03/2026")
	assert.Error(t, err)
}

func TestDateOfDropsTimeComponent(t *testing.T) {
	d := DateOf(time.Date(2026, 3, 2, 17, 45, 12, 0, time.UTC))
	assert.True(t, d.Equal(testMonday))
	assert.Equal(t, 0, d.Time().Hour())
}

func TestDateAt(t *testing.T) {
	at := testMonday.At(NewTimeOfDay(10, 30))
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), at)
}

func TestDateOrdering(t *testing.T) {
	assert.True(t, testMonday.Before(nextMonday))
	assert.False(t, nextMonday.Before(testMonday))
	assert.False(t, testMonday.Before(testMonday))
}

func TestDateJSON(t *testing.T) {
	data, err := json.Marshal(nextMonday)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-09"`, string(data))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-10"`), &d))
	assert.True(t, d.Equal(tuesday))

	assert.Error(t, json.Unmarshal([]byte(`20260310`), &d))
}
