package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr error
	}{
		{name: "hours and minutes", input: "09:30", want: "09:30"},
		{name: "postgres time with seconds", input: "18:00:00", want: "18:00"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "single digit hour", input: "9:30", wantErr: ErrInvalidTimeString},
		{name: "minutes overflow", input: "10:60", wantErr: ErrInvalidTimeString},
		{name: "after end of day", input: "24:01", wantErr: ErrTimeOutOfRange},
		{name: "garbage", input: "noon", wantErr: ErrInvalidTimeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("11:30")

	got, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:15"), got)

	got, err = MustTimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = MustTimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("09:00")
	b := MustTimeString("09:00:00")
	c := MustTimeString("12:00")

	assert.True(t, a.Equal(b))
	assert.True(t, a.IsBefore(c))
	assert.True(t, c.IsAfter(a))
	assert.False(t, a.IsBefore(b))
}

func TestTimeString_OnDate(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	got := MustTimeString("16:00").OnDate(date)
	assert.Equal(t, time.Date(2025, 10, 15, 16, 0, 0, 0, time.UTC), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("13:00:00")))
	assert.Equal(t, TimeString("13:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
