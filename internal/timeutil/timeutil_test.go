package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-agent/internal/model"
)

func TestNormalizeTo24h(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"17:00", "17:00"},
		{"5:30", "05:30"},
		{"5pm", "17:00"},
		{"5 PM", "17:00"},
		{"5:30am", "05:30"},
		{"12am", "00:00"},
		{"12pm", "12:00"},
		{"12:15 am", "00:15"},
		{" 9:05 pm ", "21:05"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTo24h(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// 幂等
			again, err := NormalizeTo24h(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestNormalizeTo24h_Invalid(t *testing.T) {
	for _, in := range []string{"", "five", "17", "5:3pm", "25:00", "13pm", "0am", "noon"} {
		_, err := NormalizeTo24h(in)
		assert.True(t, errors.Is(err, model.ErrInvalidTime), in)
	}
}

func TestWindow(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	start, end, err := Window("", "5pm", "", now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 0, 0, 0, loc), start)
	assert.Equal(t, 30*time.Minute, end.Sub(start))

	start, end, err = Window("2026-04-01", "10:00", "11:15", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", DateOf(start, loc))
	assert.Equal(t, "11:15", HourMinute(end, loc))

	// 结束不晚于开始时按 30 分钟计算
	start, end, err = Window("", "10:00", "9am", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "10:30", HourMinute(end, loc))
	assert.True(t, end.After(start))

	_, _, err = Window("tomorrow", "10:00", "", now, loc)
	assert.True(t, errors.Is(err, model.ErrInvalidDate))

	_, _, err = Window("", "whenever", "", now, loc)
	assert.True(t, errors.Is(err, model.ErrInvalidTime))
}

func TestDisplay(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, "5:00 pm", Display(time.Date(2026, 1, 1, 17, 0, 0, 0, loc), loc))
	assert.Equal(t, "12:30 am", Display(time.Date(2026, 1, 1, 0, 30, 0, 0, loc), loc))
	assert.Empty(t, Display(time.Time{}, loc))
	assert.Empty(t, HourMinute(time.Time{}, loc))
}

func TestWallClock(t *testing.T) {
	now := time.Date(2026, 5, 31, 8, 0, 0, 0, time.UTC)
	start, end, err := WallClock("", "23:45", 30*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-31T23:45:00", start)
	assert.Equal(t, "2026-06-01T00:15:00", end)
}
